package services

import (
	"fmt"
	"math"

	"lottocheck/domain/entities"
	"lottocheck/domain/interfaces"
)

// TotalCombinations is C(45,6), the number of distinct tickets.
const TotalCombinations int64 = 8_145_060

// minExpectedCell is the smallest expected count a chi-squared cell may
// have; rarer tiers are pooled into their neighbour.
const minExpectedCell = 5.0

// chiSquared95 holds the 95% critical values for 1-5 degrees of freedom.
var chiSquared95 = [...]float64{0, 3.841, 5.991, 7.815, 9.488, 11.070}

// oddsOrder lists tiers from most to least likely.
var oddsOrder = []entities.Tier{
	entities.TierNone,
	entities.TierFifth,
	entities.TierFourth,
	entities.TierThird,
	entities.TierSecond,
	entities.TierFirst,
}

// TierOdds is the exact chance of a single ticket landing in a tier.
type TierOdds struct {
	Tier         entities.Tier
	Combinations int64
	Probability  float64
}

// OneIn returns N for "1 in N" odds.
func (o TierOdds) OneIn() float64 {
	if o.Combinations == 0 {
		return math.Inf(1)
	}
	return float64(TotalCombinations) / float64(o.Combinations)
}

// ExactOdds returns the per-ticket odds for every tier, first prize first.
// A draw splits the pool into six winning numbers, the bonus number and 38
// others; the bonus only separates second from third.
func ExactOdds() []TierOdds {
	others := int64(entities.NumberCount - entities.TicketSize - 1)
	counts := map[entities.Tier]int64{
		entities.TierFirst:  1,
		entities.TierSecond: binomial(6, 5),
		entities.TierThird:  binomial(6, 5) * others,
		entities.TierFourth: binomial(6, 4) * binomial(others+1, 2),
		entities.TierFifth:  binomial(6, 3) * binomial(others+1, 3),
	}
	var winning int64
	for _, c := range counts {
		winning += c
	}
	counts[entities.TierNone] = TotalCombinations - winning

	odds := make([]TierOdds, 0, len(oddsOrder))
	for i := len(oddsOrder) - 1; i >= 0; i-- {
		tier := oddsOrder[i]
		odds = append(odds, TierOdds{
			Tier:         tier,
			Combinations: counts[tier],
			Probability:  float64(counts[tier]) / float64(TotalCombinations),
		})
	}
	return odds
}

func binomial(n, k int64) int64 {
	if k < 0 || k > n {
		return 0
	}
	result := int64(1)
	for i := int64(1); i <= k; i++ {
		result = result * (n - k + i) / i
	}
	return result
}

// SimulationResult summarises generated tickets classified against one draw
type SimulationResult struct {
	DrawID           int
	Trials           int
	Counts           map[entities.Tier]int
	ChiSquared       float64
	DegreesOfFreedom int
	CriticalValue    float64
}

// Consistent reports whether the observed tiers fit the exact odds at 95%
// confidence.
func (r *SimulationResult) Consistent() bool {
	return r.ChiSquared < r.CriticalValue
}

// Rate returns the observed share of trials in tier.
func (r *SimulationResult) Rate(tier entities.Tier) float64 {
	if r.Trials == 0 {
		return 0
	}
	return float64(r.Counts[tier]) / float64(r.Trials)
}

// SimulateOdds generates trials tickets, classifies each against draw and
// tests the tier distribution against ExactOdds.
func SimulateOdds(
	generator interfaces.TicketGenerator,
	classifier interfaces.PrizeClassifier,
	draw *entities.DrawRecord,
	trials int,
) (*SimulationResult, error) {
	if trials < 1 {
		return nil, fmt.Errorf("trials must be positive, got %d", trials)
	}
	if draw == nil {
		return nil, fmt.Errorf("simulation needs a draw")
	}

	counts := make(map[entities.Tier]int, len(oddsOrder))
	for i := 0; i < trials; i++ {
		ticket, err := generator.GenerateTicket()
		if err != nil {
			return nil, fmt.Errorf("failed to generate ticket %d: %w", i+1, err)
		}
		counts[classifier.Classify(ticket, draw).Tier]++
	}

	stat, df := ChiSquared(counts, trials)
	return &SimulationResult{
		DrawID:           draw.ID(),
		Trials:           trials,
		Counts:           counts,
		ChiSquared:       stat,
		DegreesOfFreedom: df,
		CriticalValue:    chiSquared95[df],
	}, nil
}

// ChiSquared compares observed tier counts with the exact odds. The rarest
// tiers are pooled until every cell expects at least minExpectedCell hits,
// keeping a minimum of two cells.
func ChiSquared(counts map[entities.Tier]int, trials int) (float64, int) {
	probabilities := make(map[entities.Tier]float64, len(oddsOrder))
	for _, o := range ExactOdds() {
		probabilities[o.Tier] = o.Probability
	}

	type cell struct{ observed, expected float64 }
	cells := make([]cell, 0, len(oddsOrder))
	for _, tier := range oddsOrder {
		cells = append(cells, cell{
			observed: float64(counts[tier]),
			expected: probabilities[tier] * float64(trials),
		})
	}
	for len(cells) > 2 && cells[len(cells)-1].expected < minExpectedCell {
		last := cells[len(cells)-1]
		cells = cells[:len(cells)-1]
		cells[len(cells)-1].observed += last.observed
		cells[len(cells)-1].expected += last.expected
	}

	var stat float64
	for _, c := range cells {
		if c.expected == 0 {
			continue
		}
		stat += math.Pow(c.observed-c.expected, 2) / c.expected
	}
	return stat, len(cells) - 1
}
