// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes without behavior; the JSON
// shape of Game is also its persisted representation, so the tags here
// define the storage format.
package model

import "time"

// Player is an immutable roster identity. Games reference players by id;
// events and spans embed a copy for display without a roster lookup.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Number int    `json:"number"`
}

// Game is the whole-object persistence unit: one live game with its roster,
// periods and clock snapshot. Exactly one of PeriodStartTime (running) or
// PeriodTimeElapsed (paused) is set at a time.
type Game struct {
	ID            string    `json:"id"`
	Date          time.Time `json:"date"`
	Team          string    `json:"team"`
	Opponent      string    `json:"opponent"`
	Players       []Player  `json:"players"`
	Periods       []Period  `json:"periods"`
	ActivePlayers []string  `json:"active_players"` // player ids, never more than 5
	CurrentPeriod int       `json:"current_period"` // index into Periods

	IsRunning         bool       `json:"is_running"`
	PeriodStartTime   *time.Time `json:"period_start_time,omitempty"`
	PeriodTimeElapsed *int       `json:"period_time_elapsed,omitempty"` // seconds

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Period is one timed segment with its own event and foul logs.
// Substitutions is a projection rebuilt from SubEvents after every log
// mutation; SubEvents is the source of truth.
type Period struct {
	ID            string              `json:"id"`
	PeriodNumber  int                 `json:"period_number"`
	Length        int                 `json:"length"` // minutes, 10 or 20
	SubEvents     []SubstitutionEvent `json:"sub_events"`
	Substitutions []Substitution      `json:"substitutions"`
	Fouls         []Foul              `json:"fouls"`
}

// SubstitutionEvent is an append-only log entry: a set of players entering
// and leaving the court at one game-clock instant. Events are ordered by
// EventTime descending within a period (the clock counts down).
type SubstitutionEvent struct {
	ID         string   `json:"id"`
	PeriodID   string   `json:"period_id"`
	EventTime  int      `json:"event_time"` // seconds remaining in the period
	SubbedIn   []Player `json:"subbed_in"`
	PlayersOut []Player `json:"players_out"`
}

// Substitution is a derived per-player stint bounded by two events.
// TimeOutEvent == nil marks a stint still in progress; at most one open
// stint exists per player per period.
type Substitution struct {
	ID            string  `json:"id"`
	Player        Player  `json:"player"`
	PeriodID      string  `json:"period_id"`
	TimeInEvent   string  `json:"time_in_event"`            // SubstitutionEvent id
	TimeOutEvent  *string `json:"time_out_event,omitempty"` // nil while on court
	SecondsPlayed *int    `json:"seconds_played,omitempty"` // nil while on court
}

// Foul is an independent log entry; no derived structure hangs off it.
type Foul struct {
	ID            string `json:"id"`
	Player        Player `json:"player"`
	PeriodID      string `json:"period_id"`
	TimeRemaining int    `json:"time_remaining"` // seconds left when committed
}

// GameSummary is the listing shape for a games index.
type GameSummary struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	Team     string    `json:"team"`
	Opponent string    `json:"opponent"`
}

// PlayerStats is a read-only per-player derivation; never persisted.
type PlayerStats struct {
	Player        Player `json:"player"`
	SecondsPlayed int    `json:"seconds_played"`
	Fouls         int    `json:"fouls"`
	// LastStintMark is the game-clock second the player's current stint
	// started at (if on court) or their last stint ended at; nil if the
	// player has not appeared this period.
	LastStintMark *int `json:"last_stint_mark,omitempty"`
	OnCourt       bool `json:"on_court"`
}

// GameStats bundles the on-demand derivations for one game.
type GameStats struct {
	Players           []PlayerStats `json:"players"`
	CurrentPeriod     int           `json:"current_period"`
	PeriodFouls       int           `json:"period_fouls"`
	TimeRemaining     int           `json:"time_remaining"`
	ActivePlayers     []string      `json:"active_players"`
	SubstitutionCount int           `json:"substitution_count"`
}
