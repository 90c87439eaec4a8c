// Package postgres persists game documents in a single JSONB table. The
// document is the Game's JSON form; postgres here is a durable key-value
// store with an index, not a relational schema.
package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/courtclock/game-session-service/internal/model"
	"github.com/courtclock/game-session-service/internal/repository"
)

type gameStore struct{ pool *pgxpool.Pool }

func NewGameStore(pool *pgxpool.Pool) repository.GameStore {
	return &gameStore{pool: pool}
}

func (s *gameStore) Get(ctx context.Context, id string) (model.Game, error) {
	if err := ensurePool(s.pool); err != nil {
		return model.Game{}, err
	}
	var doc []byte
	err := s.pool.QueryRow(ctx, `SELECT doc FROM games WHERE id = $1`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Game{}, repository.ErrNotFound
		}
		return model.Game{}, repository.MapPgError(err)
	}
	var g model.Game
	if err := json.Unmarshal(doc, &g); err != nil {
		return model.Game{}, err
	}
	return g, nil
}

func (s *gameStore) Put(ctx context.Context, g model.Game) error {
	if err := ensurePool(s.pool); err != nil {
		return err
	}
	doc, err := json.Marshal(g)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO games (id, doc, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`,
		g.ID, doc,
	)
	return repository.MapPgError(err)
}

func (s *gameStore) Delete(ctx context.Context, id string) error {
	if err := ensurePool(s.pool); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *gameStore) List(ctx context.Context) ([]model.GameSummary, error) {
	if err := ensurePool(s.pool); err != nil {
		return nil, err
	}
	// Dates are stored as RFC3339 UTC, so text ordering is chronological.
	rows, err := s.pool.Query(ctx, `SELECT doc FROM games ORDER BY doc->>'date' DESC`)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()
	out := make([]model.GameSummary, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, repository.MapPgError(err)
		}
		// GameSummary's tags are a subset of Game's, so the document
		// unmarshals straight into the listing shape.
		var sum model.GameSummary
		if err := json.Unmarshal(doc, &sum); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func ensurePool(pool *pgxpool.Pool) error {
	if pool == nil {
		return errors.New("pgx pool is nil")
	}
	return nil
}

var _ repository.GameStore = (*gameStore)(nil)
