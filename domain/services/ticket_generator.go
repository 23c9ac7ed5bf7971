package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"

	"lottocheck/domain/entities"
	"lottocheck/domain/interfaces"
)

// DefaultMaxTicketSets caps a single generation request.
const DefaultMaxTicketSets = 100

// CryptoRandom draws from crypto/rand.
type CryptoRandom struct{}

// Intn returns a uniform integer in [0, n).
func (CryptoRandom) Intn(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("random generation failed: %w", err)
	}
	return int(v.Int64()), nil
}

// ticketGenerator picks tickets uniformly from all C(45,6) combinations
type ticketGenerator struct {
	rng     interfaces.RandomSource
	maxSets int
}

// NewTicketGenerator creates a ticket generator. A nil source uses crypto/rand;
// maxSets <= 0 uses DefaultMaxTicketSets.
func NewTicketGenerator(rng interfaces.RandomSource, maxSets int) interfaces.TicketGenerator {
	if rng == nil {
		rng = CryptoRandom{}
	}
	if maxSets <= 0 {
		maxSets = DefaultMaxTicketSets
	}
	return &ticketGenerator{rng: rng, maxSets: maxSets}
}

// GenerateTicket draws six numbers without replacement and sorts them.
func (g *ticketGenerator) GenerateTicket() (entities.Ticket, error) {
	var pool [entities.NumberCount]int
	for i := range pool {
		pool[i] = entities.MinNumber + i
	}

	// Partial Fisher-Yates: only the first TicketSize slots are shuffled
	for i := 0; i < entities.TicketSize; i++ {
		n, err := g.rng.Intn(len(pool) - i)
		if err != nil {
			return entities.Ticket{}, err
		}
		j := i + n
		pool[i], pool[j] = pool[j], pool[i]
	}

	var ticket entities.Ticket
	copy(ticket[:], pool[:entities.TicketSize])
	sort.Ints(ticket[:])
	return ticket, nil
}

// GenerateTickets draws count independent tickets.
func (g *ticketGenerator) GenerateTickets(count int) ([]entities.Ticket, error) {
	if count < 1 || count > g.maxSets {
		return nil, fmt.Errorf("%w: %d (allowed 1-%d)", entities.ErrInvalidTicketCount, count, g.maxSets)
	}

	tickets := make([]entities.Ticket, 0, count)
	for i := 0; i < count; i++ {
		ticket, err := g.GenerateTicket()
		if err != nil {
			return nil, fmt.Errorf("failed to generate ticket %d: %w", i+1, err)
		}
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}
