package lotto

import (
	"fmt"
	"strings"

	"lottocheck/bot/common"
	"lottocheck/domain/entities"
	"lottocheck/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

// CreateCheckEmbed renders generated tickets and, when available, their tiers
func CreateCheckEmbed(report *interfaces.CheckReport) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Color: common.ColorInfo,
	}

	lines := make([]string, 0, len(report.Tickets))
	for idx, check := range report.Tickets {
		line := fmt.Sprintf("**%d.** %s", idx+1, common.FormatNumbers(check.Ticket.Numbers()))
		if check.Result != nil {
			line += fmt.Sprintf(" %s %s (%s)",
				common.TierEmoji(check.Result.Tier),
				common.TierLabel(check.Result.Tier),
				common.FormatMatch(*check.Result))
		}
		lines = append(lines, line)
	}

	if report.ComparisonAvailable() {
		draw := report.Draw
		embed.Title = fmt.Sprintf("Lotto draw #%d", draw.ID())
		embed.Description = drawSummary(draw)
		if best := bestTier(report.Tickets); best.IsWinning() {
			embed.Color = common.ColorSuccess
			if best == entities.TierFirst {
				embed.Color = common.ColorGold
			}
		}
	} else {
		embed.Title = "Lotto tickets"
		embed.Color = common.ColorWarning
		embed.Description = "⚠️ Comparison unavailable: " + common.DrawErrorMessage(report.ComparisonErr, report.Ref)
	}

	embed.Fields = chunkFields("Tickets", lines)
	if report.ComparisonAvailable() && len(embed.Fields) < common.MaxEmbedFields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Summary",
			Value: tierSummary(report.Tickets),
		})
	}
	return embed
}

// CreateDrawEmbed renders a single draw
func CreateDrawEmbed(draw *entities.DrawRecord) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Lotto draw #%d", draw.ID()),
		Color:       common.ColorPrimary,
		Description: drawSummary(draw),
	}
}

func drawSummary(draw *entities.DrawRecord) string {
	var b strings.Builder
	b.WriteString(common.FormatDrawNumbers(draw))
	if draw.HasDrawDate() {
		fmt.Fprintf(&b, "\nDrawn %s", common.FormatDrawDate(draw.DrawDate()))
	}
	if draw.FirstPrizeWinners() > 0 {
		fmt.Fprintf(&b, "\n1등 %s × %d", common.FormatWon(draw.FirstPrizeAmount()), draw.FirstPrizeWinners())
	}
	return b.String()
}

func bestTier(checks []interfaces.TicketCheck) entities.Tier {
	best := entities.TierNone
	for _, check := range checks {
		if check.Result == nil || !check.Result.Tier.IsWinning() {
			continue
		}
		if !best.IsWinning() || check.Result.Tier.Rank() < best.Rank() {
			best = check.Result.Tier
		}
	}
	return best
}

func tierSummary(checks []interfaces.TicketCheck) string {
	counts := make(map[entities.Tier]int)
	for _, check := range checks {
		if check.Result != nil {
			counts[check.Result.Tier]++
		}
	}

	tiers := []entities.Tier{
		entities.TierFirst, entities.TierSecond, entities.TierThird,
		entities.TierFourth, entities.TierFifth, entities.TierNone,
	}
	parts := make([]string, 0, len(tiers))
	for _, tier := range tiers {
		if n := counts[tier]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s × %d", common.TierLabel(tier), n))
		}
	}
	return strings.Join(parts, " · ")
}

// chunkFields packs lines into as many fields as needed to respect the
// per-field character limit.
func chunkFields(name string, lines []string) []*discordgo.MessageEmbedField {
	var fields []*discordgo.MessageEmbedField
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		fieldName := name
		if len(fields) > 0 {
			fieldName = name + " (cont.)"
		}
		fields = append(fields, &discordgo.MessageEmbedField{Name: fieldName, Value: current.String()})
		current.Reset()
	}

	for _, line := range lines {
		if current.Len() > 0 && current.Len()+1+len(line) > common.MaxFieldValueChars {
			flush()
		}
		if current.Len() > 0 {
			current.WriteByte('\n')
		}
		current.WriteString(line)
	}
	flush()

	if len(fields) > common.MaxEmbedFields-1 {
		fields = fields[:common.MaxEmbedFields-1]
	}
	return fields
}
