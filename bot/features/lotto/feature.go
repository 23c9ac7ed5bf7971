package lotto

import (
	"context"
	"time"

	"lottocheck/bot/common"
	"lottocheck/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	CommandName = "lotto"

	DefaultSets = 5

	// Bounded by the fetch timeout times the longest backward search
	// we expect in practice.
	commandTimeout = 30 * time.Second
)

// Feature answers the /lotto slash command
type Feature struct {
	service interfaces.LottoService
	maxSets int
}

// NewFeature creates a new lotto feature instance
func NewFeature(service interfaces.LottoService, maxSets int) *Feature {
	return &Feature{
		service: service,
		maxSets: maxSets,
	}
}

// Command returns the slash command definition
func (f *Feature) Command() *discordgo.ApplicationCommand {
	minSets := float64(1)
	minDraw := float64(0)
	return &discordgo.ApplicationCommand{
		Name:        CommandName,
		Description: "Generate lotto tickets and check them against a draw",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        optionSets,
				Description: "Number of tickets to generate",
				MinValue:    &minSets,
				MaxValue:    float64(f.maxSets),
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        optionDraw,
				Description: "Draw number to check against (latest when omitted or 0)",
				MinValue:    &minDraw,
			},
		},
	}
}

// HandleCommand handles the /lotto slash command
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	req, err := parseRequest(i.ApplicationCommandData().Options, f.maxSets)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	// Resolving the latest draw can take several round trips.
	if err := common.DeferResponse(s, i, false); err != nil {
		log.WithError(err).Error("Failed to defer lotto response")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	report, err := f.service.CheckTickets(ctx, req.ref, req.sets)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to generate tickets"), true)
		return
	}

	if !report.ComparisonAvailable() {
		log.WithFields(log.Fields{
			"draw":  req.ref.String(),
			"error": report.ComparisonErr,
		}).Warn("Draw comparison unavailable")
	}

	if _, err := common.FollowUpWithEmbed(s, i, CreateCheckEmbed(report), false); err != nil {
		log.WithError(err).Error("Failed to send lotto results")
	}
}
