package entities

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	MinNumber   = 1
	MaxNumber   = 45
	TicketSize  = 6
	NumberCount = MaxNumber - MinNumber + 1
)

// Ticket is six distinct numbers in [1,45], kept in ascending order.
type Ticket [TicketSize]int

// NewTicket validates the given numbers and returns them as a sorted ticket.
func NewTicket(numbers []int) (Ticket, error) {
	var t Ticket
	if len(numbers) != TicketSize {
		return t, fmt.Errorf("%w: need %d numbers, got %d", ErrInvalidTicket, TicketSize, len(numbers))
	}

	sorted := append([]int(nil), numbers...)
	sort.Ints(sorted)
	for i, n := range sorted {
		if !IsValidNumber(n) {
			return t, fmt.Errorf("%w: number %d outside [%d,%d]", ErrInvalidTicket, n, MinNumber, MaxNumber)
		}
		if i > 0 && sorted[i-1] == n {
			return t, fmt.Errorf("%w: duplicate number %d", ErrInvalidTicket, n)
		}
		t[i] = n
	}
	return t, nil
}

// IsValidNumber reports whether n is a playable lottery number.
func IsValidNumber(n int) bool {
	return n >= MinNumber && n <= MaxNumber
}

// Numbers returns a copy of the ticket numbers as a slice.
func (t Ticket) Numbers() []int {
	out := make([]int, TicketSize)
	copy(out, t[:])
	return out
}

// Contains reports whether n is on the ticket.
func (t Ticket) Contains(n int) bool {
	i := sort.SearchInts(t[:], n)
	return i < TicketSize && t[i] == n
}

// String formats the ticket as "1-2-3-4-5-6".
func (t Ticket) String() string {
	return JoinNumbers(t[:], "-")
}

// JoinNumbers formats numbers with the given separator.
func JoinNumbers(numbers []int, sep string) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, sep)
}
