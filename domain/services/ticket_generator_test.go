package services

import (
	"errors"
	"math"
	"sort"
	"testing"

	"lottocheck/domain/entities"
	"lottocheck/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRandom struct{}

func (failingRandom) Intn(int) (int, error) {
	return 0, errors.New("entropy unavailable")
}

func TestTicketGenerator_GenerateTicket_Invariants(t *testing.T) {
	t.Parallel()

	generator := NewTicketGenerator(nil, 0)

	for i := 0; i < 10000; i++ {
		ticket, err := generator.GenerateTicket()
		require.NoError(t, err)

		assert.True(t, sort.IntsAreSorted(ticket[:]), "ticket %v not sorted", ticket)
		for j, n := range ticket {
			require.True(t, entities.IsValidNumber(n), "ticket %v has out-of-range %d", ticket, n)
			if j > 0 {
				require.Less(t, ticket[j-1], n, "ticket %v has duplicate", ticket)
			}
		}
	}
}

func TestTicketGenerator_GenerateTicket_Uniformity(t *testing.T) {
	t.Parallel()

	const samples = 45000
	generator := NewTicketGenerator(nil, 0)

	counts := make(map[int]int, entities.NumberCount)
	for i := 0; i < samples; i++ {
		ticket, err := generator.GenerateTicket()
		require.NoError(t, err)
		for _, n := range ticket {
			counts[n]++
		}
	}

	// Each number appears with probability 6/45 per ticket.
	expected := float64(samples) * float64(entities.TicketSize) / float64(entities.NumberCount)
	stddev := math.Sqrt(expected * (1 - float64(entities.TicketSize)/float64(entities.NumberCount)))
	for n := entities.MinNumber; n <= entities.MaxNumber; n++ {
		assert.InDelta(t, expected, float64(counts[n]), 6*stddev, "number %d frequency off", n)
	}
}

func TestTicketGenerator_GenerateTicket_Deterministic(t *testing.T) {
	t.Parallel()

	// Zeros always pick the first remaining pool entry: 1..6.
	generator := NewTicketGenerator(testhelpers.NewSequenceRandom(0), 0)
	ticket, err := generator.GenerateTicket()
	require.NoError(t, err)
	assert.Equal(t, entities.Ticket{1, 2, 3, 4, 5, 6}, ticket)

	// Each pick lands on the largest number still in the pool: 45, 44, ... 40.
	generator = NewTicketGenerator(testhelpers.NewSequenceRandom(44, 42, 40, 38, 36, 34), 0)
	ticket, err = generator.GenerateTicket()
	require.NoError(t, err)
	assert.Equal(t, entities.Ticket{40, 41, 42, 43, 44, 45}, ticket)
}

func TestTicketGenerator_GenerateTicket_RandomFailure(t *testing.T) {
	t.Parallel()

	generator := NewTicketGenerator(failingRandom{}, 0)
	_, err := generator.GenerateTicket()
	assert.Error(t, err)
}

func TestTicketGenerator_GenerateTickets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		count   int
		maxSets int
		wantErr bool
	}{
		{name: "single set", count: 1, maxSets: 100},
		{name: "upper bound", count: 100, maxSets: 100},
		{name: "zero sets", count: 0, maxSets: 100, wantErr: true},
		{name: "negative sets", count: -1, maxSets: 100, wantErr: true},
		{name: "above bound", count: 101, maxSets: 100, wantErr: true},
		{name: "custom bound", count: 6, maxSets: 5, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			generator := NewTicketGenerator(nil, tt.maxSets)
			tickets, err := generator.GenerateTickets(tt.count)
			if tt.wantErr {
				assert.ErrorIs(t, err, entities.ErrInvalidTicketCount)
				assert.Nil(t, tickets)
				return
			}
			require.NoError(t, err)
			assert.Len(t, tickets, tt.count)
		})
	}
}
