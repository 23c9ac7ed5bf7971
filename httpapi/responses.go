package httpapi

import (
	"lottocheck/bot/common"
	"lottocheck/domain/entities"
	"lottocheck/domain/interfaces"
	"lottocheck/domain/services"
)

// DrawResponse is the JSON form of a draw record
type DrawResponse struct {
	ID                int    `json:"id"`
	WinningNumbers    []int  `json:"winning_numbers"`
	BonusNumber       int    `json:"bonus_number"`
	DrawDate          string `json:"draw_date,omitempty"`
	FirstPrizeAmount  int64  `json:"first_prize_amount,omitempty"`
	FirstPrizeWinners int64  `json:"first_prize_winners,omitempty"`
	TotalSales        int64  `json:"total_sales,omitempty"`
}

// MatchResponse is the JSON form of a match result
type MatchResponse struct {
	MatchCount   int           `json:"match_count"`
	BonusMatched bool          `json:"bonus_matched"`
	Tier         entities.Tier `json:"tier"`
	Rank         int           `json:"rank"`
	Label        string        `json:"label"`
}

// TicketResponse pairs a ticket with its result; Result is omitted when
// the comparison was unavailable.
type TicketResponse struct {
	Numbers []int          `json:"numbers"`
	Result  *MatchResponse `json:"result,omitempty"`
}

// CheckResponse answers GET /tickets
type CheckResponse struct {
	Draw                *DrawResponse    `json:"draw,omitempty"`
	Tickets             []TicketResponse `json:"tickets"`
	ComparisonAvailable bool             `json:"comparison_available"`
	ComparisonError     string           `json:"comparison_error,omitempty"`
}

// ClassifyRequest is the body of POST /tickets/check
type ClassifyRequest struct {
	Draw    string `json:"draw"`
	Numbers []int  `json:"numbers"`
}

// ClassifyResponse answers POST /tickets/check
type ClassifyResponse struct {
	Draw   DrawResponse  `json:"draw"`
	Ticket []int         `json:"ticket"`
	Result MatchResponse `json:"result"`
}

// HealthResponse answers GET /health. LatestDraw is omitted until a
// latest-draw search has succeeded.
type HealthResponse struct {
	Status     string `json:"status"`
	LatestDraw int    `json:"latest_draw,omitempty"`
}

// TierOddsResponse is one row of GET /odds
type TierOddsResponse struct {
	Tier         entities.Tier `json:"tier"`
	Label        string        `json:"label"`
	Combinations int64         `json:"combinations"`
	Probability  float64       `json:"probability"`
	OneIn        float64       `json:"one_in"`
}

// OddsResponse answers GET /odds
type OddsResponse struct {
	TotalCombinations int64              `json:"total_combinations"`
	Tiers             []TierOddsResponse `json:"tiers"`
}

// ErrorResponse is returned with every non-2xx status
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func newDrawResponse(draw *entities.DrawRecord) DrawResponse {
	resp := DrawResponse{
		ID:                draw.ID(),
		WinningNumbers:    draw.WinningNumbers(),
		BonusNumber:       draw.BonusNumber(),
		FirstPrizeAmount:  draw.FirstPrizeAmount(),
		FirstPrizeWinners: draw.FirstPrizeWinners(),
		TotalSales:        draw.TotalSales(),
	}
	if draw.HasDrawDate() {
		resp.DrawDate = common.FormatDrawDate(draw.DrawDate())
	}
	return resp
}

func newMatchResponse(result entities.MatchResult) MatchResponse {
	return MatchResponse{
		MatchCount:   result.MatchCount,
		BonusMatched: result.BonusMatched,
		Tier:         result.Tier,
		Rank:         result.Tier.Rank(),
		Label:        common.TierLabel(result.Tier),
	}
}

func newCheckResponse(report *interfaces.CheckReport) CheckResponse {
	resp := CheckResponse{
		Tickets:             make([]TicketResponse, len(report.Tickets)),
		ComparisonAvailable: report.ComparisonAvailable(),
	}
	if report.Draw != nil {
		draw := newDrawResponse(report.Draw)
		resp.Draw = &draw
	}
	if report.ComparisonErr != nil {
		resp.ComparisonError = report.ComparisonErr.Error()
	}
	for i, check := range report.Tickets {
		resp.Tickets[i] = TicketResponse{Numbers: check.Ticket.Numbers()}
		if check.Result != nil {
			match := newMatchResponse(*check.Result)
			resp.Tickets[i].Result = &match
		}
	}
	return resp
}

func toOddsResponse(odds []services.TierOdds) OddsResponse {
	resp := OddsResponse{
		TotalCombinations: services.TotalCombinations,
		Tiers:             make([]TierOddsResponse, len(odds)),
	}
	for i, o := range odds {
		resp.Tiers[i] = TierOddsResponse{
			Tier:         o.Tier,
			Label:        common.TierLabel(o.Tier),
			Combinations: o.Combinations,
			Probability:  o.Probability,
			OneIn:        o.OneIn(),
		}
	}
	return resp
}
