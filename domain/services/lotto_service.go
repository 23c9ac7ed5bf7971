package services

import (
	"context"
	"fmt"

	"lottocheck/domain/entities"
	"lottocheck/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// lottoService implements ticket checking against resolved draws
type lottoService struct {
	draws      interfaces.DrawProvider
	generator  interfaces.TicketGenerator
	classifier interfaces.PrizeClassifier
}

// NewLottoService creates a new lotto service
func NewLottoService(
	draws interfaces.DrawProvider,
	generator interfaces.TicketGenerator,
	classifier interfaces.PrizeClassifier,
) interfaces.LottoService {
	return &lottoService{
		draws:      draws,
		generator:  generator,
		classifier: classifier,
	}
}

// GetDraw resolves a draw through the provider
func (s *lottoService) GetDraw(ctx context.Context, ref entities.DrawRef) (*entities.DrawRecord, error) {
	draw, err := s.draws.GetOrFetch(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve draw %s: %w", ref, err)
	}
	return draw, nil
}

// CheckTickets generates count tickets and classifies them against ref.
// A resolution failure does not fail the call: tickets are still returned
// and the report marks the comparison as unavailable.
func (s *lottoService) CheckTickets(ctx context.Context, ref entities.DrawRef, count int) (*interfaces.CheckReport, error) {
	tickets, err := s.generator.GenerateTickets(count)
	if err != nil {
		return nil, err
	}

	report := &interfaces.CheckReport{
		Ref:     ref,
		Tickets: make([]interfaces.TicketCheck, len(tickets)),
	}
	for i, ticket := range tickets {
		report.Tickets[i].Ticket = ticket
	}

	draw, err := s.GetDraw(ctx, ref)
	if err != nil {
		log.WithError(err).WithField("draw", ref.String()).Warn("Comparison unavailable")
		report.ComparisonErr = err
		return report, nil
	}

	report.Draw = draw
	winners := 0
	for i := range report.Tickets {
		result := s.classifier.Classify(report.Tickets[i].Ticket, draw)
		report.Tickets[i].Result = &result
		if result.Tier.IsWinning() {
			winners++
		}
	}

	log.WithFields(log.Fields{
		"draw_id": draw.ID(),
		"tickets": len(tickets),
		"winners": winners,
	}).Debug("Checked tickets")

	return report, nil
}

// ClassifyTicket classifies a caller-supplied ticket against ref
func (s *lottoService) ClassifyTicket(ctx context.Context, ref entities.DrawRef, ticket entities.Ticket) (*entities.DrawRecord, entities.MatchResult, error) {
	draw, err := s.GetDraw(ctx, ref)
	if err != nil {
		return nil, entities.MatchResult{}, err
	}
	return draw, s.classifier.Classify(ticket, draw), nil
}
