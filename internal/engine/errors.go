package engine

import (
	"errors"
	"fmt"
)

// Domain-level errors surfaced by engine operations. Every operation either
// fully succeeds or returns one of these with the game untouched.
var (
	// ErrInvariant marks a mutation that would break a roster or ordering
	// rule (more than five active players, substituting an absent player,
	// reordering the event log).
	ErrInvariant = errors.New("invariant violation")
	// ErrNotFound marks a reference to a player, period or event that does
	// not exist in the game.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a deletion that would corrupt later log state
	// (a later event touches the same players).
	ErrConflict = errors.New("conflict")
)

func invariantf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
