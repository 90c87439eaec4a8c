package repository

import (
	"context"

	"github.com/courtclock/game-session-service/internal/model"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// GameStore is the persistence collaborator for live games. The Game's JSON
// shape is the persisted representation, so the contract is deliberately a
// key-value one: whole-object reads and overwrite-whole-object upserts, no
// field-level updates. Implementations surface the domain errors from
// errors.go rather than driver codes.
type GameStore interface {
	// Get loads a game by id, or ErrNotFound.
	Get(ctx context.Context, id string) (model.Game, error)
	// Put upserts the whole game document.
	Put(ctx context.Context, g model.Game) error
	// Delete removes a game, or ErrNotFound if absent.
	Delete(ctx context.Context, id string) error
	// List returns summaries of all stored games, newest first.
	List(ctx context.Context) ([]model.GameSummary, error)
}
