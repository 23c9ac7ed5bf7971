package entities

import "fmt"

// Tier is the prize category a ticket earns against a draw.
type Tier int

const (
	TierNone Tier = iota
	TierFirst
	TierSecond
	TierThird
	TierFourth
	TierFifth
)

var tierNames = map[Tier]string{
	TierNone:   "NONE",
	TierFirst:  "FIRST",
	TierSecond: "SECOND",
	TierThird:  "THIRD",
	TierFourth: "FOURTH",
	TierFifth:  "FIFTH",
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tier(%d)", int(t))
}

// IsWinning reports whether the tier pays a prize.
func (t Tier) IsWinning() bool {
	return t >= TierFirst && t <= TierFifth
}

// Rank returns 1-5 for winning tiers and 0 otherwise.
func (t Tier) Rank() int {
	if !t.IsWinning() {
		return 0
	}
	return int(t)
}

// MarshalText encodes the tier by name.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a tier name produced by MarshalText.
func (t *Tier) UnmarshalText(text []byte) error {
	for tier, name := range tierNames {
		if name == string(text) {
			*t = tier
			return nil
		}
	}
	return fmt.Errorf("unknown tier %q", text)
}

// MatchResult is the outcome of comparing one ticket with one draw.
type MatchResult struct {
	MatchCount   int  `json:"match_count"`
	BonusMatched bool `json:"bonus_matched"`
	Tier         Tier `json:"tier"`
}
