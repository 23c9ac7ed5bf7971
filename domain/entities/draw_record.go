package entities

import (
	"fmt"
	"sort"
	"time"
)

// DrawRecord is one published draw. Records are immutable once built by
// NewDrawRecord; accessors return copies.
type DrawRecord struct {
	id             int
	winningNumbers [TicketSize]int
	bonusNumber    int

	// Optional metadata reported by the remote source. Zero when absent.
	details DrawDetails
}

// DrawDetails carries the optional draw metadata.
type DrawDetails struct {
	DrawDate          time.Time
	FirstPrizeAmount  int64 // payout per first-prize winner
	FirstPrizeWinners int64
	TotalSales        int64
}

// NewDrawRecord validates a draw: positive id, six distinct winning numbers
// in range and a bonus number in range that is not one of them. Violations
// wrap ErrMalformedResponse since records only come from the remote source.
func NewDrawRecord(id int, winning []int, bonus int, details DrawDetails) (*DrawRecord, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: draw id %d is not positive", ErrMalformedResponse, id)
	}
	if len(winning) != TicketSize {
		return nil, fmt.Errorf("%w: draw %d has %d winning numbers", ErrMalformedResponse, id, len(winning))
	}

	sorted := append([]int(nil), winning...)
	sort.Ints(sorted)

	record := &DrawRecord{
		id:          id,
		bonusNumber: bonus,
		details:     details,
	}
	for i, n := range sorted {
		if !IsValidNumber(n) {
			return nil, fmt.Errorf("%w: draw %d winning number %d out of range", ErrMalformedResponse, id, n)
		}
		if i > 0 && sorted[i-1] == n {
			return nil, fmt.Errorf("%w: draw %d repeats winning number %d", ErrMalformedResponse, id, n)
		}
		record.winningNumbers[i] = n
	}

	if !IsValidNumber(bonus) {
		return nil, fmt.Errorf("%w: draw %d bonus number %d out of range", ErrMalformedResponse, id, bonus)
	}
	if record.IsWinningNumber(bonus) {
		return nil, fmt.Errorf("%w: draw %d bonus number %d overlaps winning numbers", ErrMalformedResponse, id, bonus)
	}

	return record, nil
}

// ID returns the draw number.
func (d *DrawRecord) ID() int {
	return d.id
}

// BonusNumber returns the bonus number, never one of the winning numbers.
func (d *DrawRecord) BonusNumber() int {
	return d.bonusNumber
}

// Details returns a copy of the optional metadata.
func (d *DrawRecord) Details() DrawDetails {
	return d.details
}

func (d *DrawRecord) DrawDate() time.Time       { return d.details.DrawDate }
func (d *DrawRecord) FirstPrizeAmount() int64  { return d.details.FirstPrizeAmount }
func (d *DrawRecord) FirstPrizeWinners() int64 { return d.details.FirstPrizeWinners }
func (d *DrawRecord) TotalSales() int64        { return d.details.TotalSales }

// WinningNumbers returns the ascending winning numbers.
func (d *DrawRecord) WinningNumbers() []int {
	out := make([]int, TicketSize)
	copy(out, d.winningNumbers[:])
	return out
}

// IsWinningNumber reports whether n is one of the six winning numbers.
func (d *DrawRecord) IsWinningNumber(n int) bool {
	i := sort.SearchInts(d.winningNumbers[:], n)
	return i < TicketSize && d.winningNumbers[i] == n
}

// HasDrawDate reports whether the source supplied a draw date.
func (d *DrawRecord) HasDrawDate() bool {
	return !d.details.DrawDate.IsZero()
}

func (d *DrawRecord) String() string {
	return fmt.Sprintf("draw %d: %s + %d", d.id, JoinNumbers(d.winningNumbers[:], "-"), d.bonusNumber)
}
