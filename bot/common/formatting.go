package common

import (
	"fmt"
	"strings"
	"time"

	"lottocheck/domain/entities"
)

var tierLabels = map[entities.Tier]string{
	entities.TierFirst:  "1등",
	entities.TierSecond: "2등",
	entities.TierThird:  "3등",
	entities.TierFourth: "4등",
	entities.TierFifth:  "5등",
	entities.TierNone:   "다음 기회에",
}

var tierNames = map[entities.Tier]string{
	entities.TierFirst:  "1st prize",
	entities.TierSecond: "2nd prize",
	entities.TierThird:  "3rd prize",
	entities.TierFourth: "4th prize",
	entities.TierFifth:  "5th prize",
	entities.TierNone:   "no prize",
}

// TierLabel returns the Korean display label for a tier
func TierLabel(tier entities.Tier) string {
	if label, ok := tierLabels[tier]; ok {
		return label
	}
	return tier.String()
}

// TierName returns the English display name for a tier
func TierName(tier entities.Tier) string {
	if name, ok := tierNames[tier]; ok {
		return name
	}
	return tier.String()
}

// TierEmoji decorates winning tiers
func TierEmoji(tier entities.Tier) string {
	switch tier {
	case entities.TierFirst:
		return "🏆"
	case entities.TierSecond, entities.TierThird:
		return "🎉"
	case entities.TierFourth, entities.TierFifth:
		return "✨"
	default:
		return "▫️"
	}
}

// FormatAmount formats an amount with thousand separators
func FormatAmount(amount int64) string {
	if amount < 0 {
		return "-" + FormatAmount(-amount)
	}

	str := fmt.Sprintf("%d", amount)
	n := len(str)
	if n <= 3 {
		return str
	}

	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// FormatWon formats an amount in Korean won
func FormatWon(amount int64) string {
	return FormatAmount(amount) + "원"
}

// FormatNumbers renders numbers as zero-padded code spans, e.g. "`03` `17`"
func FormatNumbers(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = fmt.Sprintf("`%02d`", n)
	}
	return strings.Join(parts, " ")
}

// FormatDrawNumbers renders winning numbers followed by the bonus number
func FormatDrawNumbers(draw *entities.DrawRecord) string {
	return fmt.Sprintf("%s + `%02d`", FormatNumbers(draw.WinningNumbers()), draw.BonusNumber())
}

// FormatMatch summarizes a match result, e.g. "5 matched + bonus"
func FormatMatch(result entities.MatchResult) string {
	if result.BonusMatched {
		return fmt.Sprintf("%d matched + bonus", result.MatchCount)
	}
	return fmt.Sprintf("%d matched", result.MatchCount)
}

// FormatDrawDate formats a draw date as YYYY-MM-DD
func FormatDrawDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}
