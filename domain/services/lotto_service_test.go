package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"lottocheck/domain/entities"
	"lottocheck/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLottoService_CheckTickets(t *testing.T) {
	t.Parallel()

	draw := testhelpers.NewTestDraw(1100, []int{1, 2, 3, 4, 5, 6}, 7)

	provider := new(testhelpers.MockDrawProvider)
	provider.On("GetOrFetch", mock.Anything, entities.LatestDraw).Return(draw, nil)

	// Zeros make every generated ticket 1-2-3-4-5-6.
	generator := NewTicketGenerator(testhelpers.NewSequenceRandom(0), 0)
	service := NewLottoService(provider, generator, NewPrizeClassifier())

	report, err := service.CheckTickets(context.Background(), entities.LatestDraw, 3)
	require.NoError(t, err)

	assert.True(t, report.ComparisonAvailable())
	assert.Same(t, draw, report.Draw)
	assert.NoError(t, report.ComparisonErr)
	require.Len(t, report.Tickets, 3)
	for _, check := range report.Tickets {
		require.NotNil(t, check.Result)
		assert.Equal(t, entities.TierFirst, check.Result.Tier)
	}
	provider.AssertExpectations(t)
}

func TestLottoService_CheckTickets_ComparisonUnavailable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{name: "exhausted search", err: &entities.ExhaustedSearchError{UpperBound: 5, Floor: 1, Attempts: 5}},
		{name: "transport failure", err: fmt.Errorf("%w: timeout", entities.ErrTransport)},
		{name: "malformed response", err: fmt.Errorf("%w: bad bonus", entities.ErrMalformedResponse)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			provider := new(testhelpers.MockDrawProvider)
			provider.On("GetOrFetch", mock.Anything, entities.LatestDraw).Return(nil, tt.err)

			service := NewLottoService(provider, NewTicketGenerator(nil, 0), NewPrizeClassifier())
			report, err := service.CheckTickets(context.Background(), entities.LatestDraw, 5)
			require.NoError(t, err)

			assert.False(t, report.ComparisonAvailable())
			assert.Nil(t, report.Draw)
			assert.ErrorIs(t, report.ComparisonErr, tt.err)
			require.Len(t, report.Tickets, 5)
			for _, check := range report.Tickets {
				assert.Nil(t, check.Result)
				assert.NotZero(t, check.Ticket[0])
			}
		})
	}
}

func TestLottoService_CheckTickets_InvalidCount(t *testing.T) {
	t.Parallel()

	provider := new(testhelpers.MockDrawProvider)
	service := NewLottoService(provider, NewTicketGenerator(nil, 0), NewPrizeClassifier())

	report, err := service.CheckTickets(context.Background(), entities.LatestDraw, 0)
	assert.ErrorIs(t, err, entities.ErrInvalidTicketCount)
	assert.Nil(t, report)
	provider.AssertNotCalled(t, "GetOrFetch", mock.Anything, mock.Anything)
}

func TestLottoService_ClassifyTicket(t *testing.T) {
	t.Parallel()

	draw := testhelpers.NewTestDraw(900, []int{1, 2, 3, 4, 5, 6}, 7)
	provider := new(testhelpers.MockDrawProvider)
	provider.On("GetOrFetch", mock.Anything, entities.DrawID(900)).Return(draw, nil)
	provider.On("GetOrFetch", mock.Anything, entities.DrawID(901)).Return(nil, fmt.Errorf("draw 901: %w", entities.ErrNotFound))

	service := NewLottoService(provider, NewTicketGenerator(nil, 0), NewPrizeClassifier())

	got, result, err := service.ClassifyTicket(context.Background(), entities.DrawID(900), entities.Ticket{1, 2, 3, 4, 5, 7})
	require.NoError(t, err)
	assert.Equal(t, 900, got.ID())
	assert.Equal(t, entities.TierSecond, result.Tier)

	_, _, err = service.ClassifyTicket(context.Background(), entities.DrawID(901), entities.Ticket{1, 2, 3, 4, 5, 7})
	assert.True(t, errors.Is(err, entities.ErrNotFound))
	assert.Contains(t, err.Error(), "failed to resolve draw 901")
}
