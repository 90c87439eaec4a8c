// Package gameclock owns the countdown state for one period: an explicit
// value object instead of hidden timer cells. While running, the remaining
// time is always recomputed from a wall-clock anchor, never decremented,
// so scheduling jitter cannot accumulate into drift. Every transition is a
// pure (state, action) -> state function; the caller persists the result.
package gameclock

import (
	"errors"
	"time"
)

// Sentinel errors for illegal clock transitions. Both are caller mistakes,
// not infrastructure failures.
var (
	ErrExpired    = errors.New("clock expired")
	ErrNotRunning = errors.New("clock not running")
)

// State is the clock value threaded by the caller.
// Stopped: Remaining is authoritative, Anchor is zero.
// Running: Anchor is the moment the period notionally started; Remaining is
// the snapshot at the last transition and is refreshed via RemainingAt.
type State struct {
	Running   bool
	Remaining int // seconds
	Anchor    time.Time
}

// Reset returns a stopped clock holding a full period of lengthMin minutes.
// Used when advancing to a new period.
func Reset(lengthMin int) State {
	return State{Remaining: lengthMin * 60}
}

// Derive reconstructs the clock from persisted fields, so a game reopened
// mid-period resumes correctly. Priority: a running anchor beats a stored
// elapsed value beats the full period length.
func Derive(lengthMin int, running bool, startTime *time.Time, elapsedSec *int, now time.Time) State {
	total := lengthMin * 60
	if running && startTime != nil {
		remaining := total - int(now.Sub(*startTime)/time.Second)
		if remaining <= 0 {
			// The period ran out while the app was closed; land on the
			// terminal stopped-at-zero state.
			return State{Remaining: 0}
		}
		return State{Running: true, Remaining: remaining, Anchor: *startTime}
	}
	if elapsedSec != nil {
		remaining := total - *elapsedSec
		if remaining < 0 {
			remaining = 0
		}
		return State{Remaining: remaining}
	}
	return State{Remaining: total}
}

// RemainingAt recomputes seconds remaining from the anchor, floored at 0.
// For a stopped clock it is just the stored value.
func (s State) RemainingAt(lengthMin int, now time.Time) int {
	if !s.Running {
		return s.Remaining
	}
	remaining := lengthMin*60 - int(now.Sub(s.Anchor)/time.Second)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Start begins (or resumes) the countdown. The anchor is placed in the past
// by exactly the elapsed share of the period, so elapsed-time math is
// continuous across the stop/start boundary. Starting an expired clock is
// rejected; starting a running clock re-derives the same anchor and is a
// no-op in effect.
func Start(s State, lengthMin int, now time.Time) (State, error) {
	remaining := s.RemainingAt(lengthMin, now)
	if remaining <= 0 {
		return s, ErrExpired
	}
	anchor := now.Add(-time.Duration(lengthMin*60-remaining) * time.Second)
	return State{Running: true, Remaining: remaining, Anchor: anchor}, nil
}

// Tick is the periodic recomputation while running. Hitting zero is
// terminal: the clock stops itself and drops the anchor.
func Tick(s State, lengthMin int, now time.Time) State {
	if !s.Running {
		return s
	}
	remaining := s.RemainingAt(lengthMin, now)
	if remaining == 0 {
		return State{Remaining: 0}
	}
	s.Remaining = remaining
	return s
}

// Pause freezes the countdown at the current remaining value.
func Pause(s State, lengthMin int, now time.Time) (State, error) {
	if !s.Running {
		return s, ErrNotRunning
	}
	return State{Remaining: s.RemainingAt(lengthMin, now)}, nil
}

// Adjust shifts the remaining time by delta seconds, clamped at 0. While
// running this is equivalent to a pause plus a restart at the new value:
// the anchor is rebased so the countdown continues smoothly from the
// adjusted point. Always legal, including adjusting down to 0.
func Adjust(s State, delta int, lengthMin int, now time.Time) State {
	remaining := s.RemainingAt(lengthMin, now) + delta
	if remaining < 0 {
		remaining = 0
	}
	if !s.Running || remaining == 0 {
		return State{Remaining: remaining}
	}
	anchor := now.Add(-time.Duration(lengthMin*60-remaining) * time.Second)
	return State{Running: true, Remaining: remaining, Anchor: anchor}
}

// Sync pins the remaining time to an externally observed value (the live
// ticking widget) without touching the run state. Used when persisting a
// snapshot of a running clock.
func Sync(s State, remaining int, lengthMin int, now time.Time) State {
	if remaining < 0 {
		remaining = 0
	}
	if !s.Running || remaining == 0 {
		return State{Remaining: remaining}
	}
	anchor := now.Add(-time.Duration(lengthMin*60-remaining) * time.Second)
	return State{Running: true, Remaining: remaining, Anchor: anchor}
}

// Fields flattens the state into the persisted trio: while running the
// anchor is stored, while stopped the elapsed seconds are. Exactly one of
// the two pointers is non-nil.
func (s State) Fields(lengthMin int) (running bool, startTime *time.Time, elapsedSec *int) {
	if s.Running {
		anchor := s.Anchor
		return true, &anchor, nil
	}
	elapsed := lengthMin*60 - s.Remaining
	return false, nil, &elapsed
}
