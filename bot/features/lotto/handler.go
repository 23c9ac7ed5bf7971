package lotto

import (
	"fmt"

	"lottocheck/bot/common"
	"lottocheck/domain/entities"

	"github.com/bwmarrin/discordgo"
)

const (
	optionSets = "sets"
	optionDraw = "draw"
)

type checkRequest struct {
	sets int
	ref  entities.DrawRef
}

// parseRequest reads the /lotto options; both are optional.
func parseRequest(options []*discordgo.ApplicationCommandInteractionDataOption, maxSets int) (checkRequest, error) {
	req := checkRequest{sets: DefaultSets, ref: entities.LatestDraw}
	if maxSets > 0 && req.sets > maxSets {
		req.sets = maxSets
	}

	for _, opt := range options {
		switch opt.Name {
		case optionSets:
			sets := int(opt.IntValue())
			if sets < 1 || (maxSets > 0 && sets > maxSets) {
				return req, common.NewUserError(
					fmt.Sprintf("Sets must be between 1 and %d.", maxSets),
					fmt.Sprintf("invalid sets option %d", sets),
				)
			}
			req.sets = sets
		case optionDraw:
			drawID := int(opt.IntValue())
			if drawID < 0 {
				return req, common.NewUserError(
					"Draw numbers must be positive.",
					fmt.Sprintf("invalid draw option %d", drawID),
				)
			}
			if drawID > 0 {
				req.ref = entities.DrawID(drawID)
			}
		}
	}

	return req, nil
}
