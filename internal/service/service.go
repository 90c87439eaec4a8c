// Package service holds use-case orchestration between the HTTP layer, the
// game engine and the store. Kept intentionally lean: validation, engine
// calls, persistence sequencing and domain error shaping.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/courtclock/game-session-service/internal/model"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// newInvalidInput builds an aggregated validation error if any field errors are present.
func newInvalidInput(fe []FieldError) error {
	if len(fe) == 0 { // protective case
		return nil
	}
	return &invalidInputError{fields: fe}
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	type feIface interface{ Fields() []FieldError }
	if v, ok := err.(feIface); ok && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// GameView is what read and mutation endpoints return: the persisted game
// plus the live clock pair derived from it at response time.
type GameView struct {
	model.Game
	TimeRemaining int    `json:"time_remaining"`
	Clock         string `json:"clock"` // TimeRemaining rendered as m:ss
}

// PlayerParams is one roster entry at game creation.
type PlayerParams struct {
	Name   string `json:"name"`
	Number int    `json:"number"`
}

// CreateGameParams collects everything needed to open a game session.
// Zero Periods/PeriodLength fall back to the configured defaults.
type CreateGameParams struct {
	Team         string         `json:"team"`
	Opponent     string         `json:"opponent"`
	Date         time.Time      `json:"date"`
	Periods      int            `json:"periods"`
	PeriodLength int            `json:"period_length"` // minutes
	Players      []PlayerParams `json:"players"`
}

// GameService defines game lifecycle and roster use cases.
type GameService interface {
	CreateGame(ctx context.Context, p CreateGameParams) (GameView, error)
	GetGame(ctx context.Context, id string) (GameView, error)
	ListGames(ctx context.Context) ([]model.GameSummary, error)
	DeleteGame(ctx context.Context, id string) error
	AddPlayer(ctx context.Context, gameID string, p PlayerParams) (GameView, error)
}

// SessionService defines the in-game use cases: the clock and the event logs.
type SessionService interface {
	StartClock(ctx context.Context, gameID string) (GameView, error)
	PauseClock(ctx context.Context, gameID string) (GameView, error)
	AdjustClock(ctx context.Context, gameID string, deltaSeconds int) (GameView, error)
	SyncClock(ctx context.Context, gameID string, remainingSeconds int) (GameView, error)

	SubmitSubstitution(ctx context.Context, gameID string, subIn, subOut []string, atTime int) (GameView, error)
	RosterBefore(ctx context.Context, gameID, eventID string) ([]model.Player, error)
	EditSubstitution(ctx context.Context, gameID, eventID string, newTime int, subIn, subOut []string) (GameView, error)
	DeleteSubstitution(ctx context.Context, gameID, eventID string) (GameView, error)
	EndPeriod(ctx context.Context, gameID string) (GameView, error)

	AddFoul(ctx context.Context, gameID, playerID string, timeRemaining int) (GameView, error)
}

// StatsService defines the on-demand derivations.
type StatsService interface {
	GameStats(ctx context.Context, gameID string) (model.GameStats, error)
}
