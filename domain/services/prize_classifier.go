package services

import (
	"lottocheck/domain/entities"
	"lottocheck/domain/interfaces"
)

type prizeClassifier struct{}

// NewPrizeClassifier creates the standard 6/45 prize classifier
func NewPrizeClassifier() interfaces.PrizeClassifier {
	return prizeClassifier{}
}

// Classify counts the ticket numbers among the winning numbers, checks the
// bonus number and maps the pair onto a tier.
func (prizeClassifier) Classify(ticket entities.Ticket, draw *entities.DrawRecord) entities.MatchResult {
	result := entities.MatchResult{
		BonusMatched: ticket.Contains(draw.BonusNumber()),
	}
	for _, n := range ticket {
		if draw.IsWinningNumber(n) {
			result.MatchCount++
		}
	}
	result.Tier = TierFor(result.MatchCount, result.BonusMatched)
	return result
}

// TierFor applies the prize table. The bonus number only matters for a
// five-number match.
func TierFor(matchCount int, bonusMatched bool) entities.Tier {
	switch {
	case matchCount == 6:
		return entities.TierFirst
	case matchCount == 5 && bonusMatched:
		return entities.TierSecond
	case matchCount == 5:
		return entities.TierThird
	case matchCount == 4:
		return entities.TierFourth
	case matchCount == 3:
		return entities.TierFifth
	default:
		return entities.TierNone
	}
}
