package entities

import (
	"fmt"
	"strconv"
	"strings"
)

// DrawRef identifies the draw a request targets: an explicit draw number or
// the latest published draw. The zero value is the latest draw.
type DrawRef struct {
	id       int
	explicit bool
}

// LatestDraw refers to the most recent resolvable draw.
var LatestDraw = DrawRef{}

// DrawID refers to an explicit draw number. Non-positive numbers stay
// explicit and are rejected by lookups with ErrInvalidDrawID.
func DrawID(id int) DrawRef {
	return DrawRef{id: id, explicit: true}
}

// ParseDrawRef accepts "latest", an empty string or "0" for the latest draw,
// or a positive draw number.
func ParseDrawRef(s string) (DrawRef, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "latest" || s == "0" {
		return LatestDraw, nil
	}
	id, err := strconv.Atoi(s)
	if err != nil || id < 0 {
		return DrawRef{}, fmt.Errorf("%w: %q", ErrInvalidDrawID, s)
	}
	if id == 0 {
		return LatestDraw, nil
	}
	return DrawID(id), nil
}

// IsLatest reports whether the reference targets the latest draw.
func (r DrawRef) IsLatest() bool {
	return !r.explicit
}

// ID returns the explicit draw number, or 0 for the latest draw.
func (r DrawRef) ID() int {
	if r.IsLatest() {
		return 0
	}
	return r.id
}

func (r DrawRef) String() string {
	if r.IsLatest() {
		return "latest"
	}
	return strconv.Itoa(r.id)
}
