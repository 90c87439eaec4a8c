package service

import (
	"context"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/courtclock/game-session-service/internal/engine"
	"github.com/courtclock/game-session-service/internal/gameclock"
	"github.com/courtclock/game-session-service/internal/model"
	"github.com/courtclock/game-session-service/internal/repository"
)

type statsService struct {
	store repository.GameStore
	clock clockwork.Clock
	log   zerolog.Logger
}

func NewStatsService(store repository.GameStore, clock clockwork.Clock, logger zerolog.Logger) StatsService {
	l := logger.With().Str("module", "service").Str("component", "stats").Logger()
	return &statsService{store: store, clock: clock, log: l}
}

// GameStats recomputes the per-player derivations from the logs. The live
// remaining time is derived the same way the clock endpoints derive it, so
// an open stint is valued against the actual countdown position.
func (s *statsService) GameStats(ctx context.Context, gameID string) (model.GameStats, error) {
	if strings.TrimSpace(gameID) == "" {
		return model.GameStats{}, newInvalidInput([]FieldError{{Field: "id", Message: "must not be empty"}})
	}
	g, err := s.store.Get(ctx, gameID)
	if err != nil {
		return model.GameStats{}, err
	}
	length := currentLength(g)
	st := gameclock.Derive(length, g.IsRunning, g.PeriodStartTime, g.PeriodTimeElapsed, s.clock.Now())
	remaining := st.RemainingAt(length, s.clock.Now())
	return engine.Stats(g, remaining), nil
}
