package service

import (
	"context"
	"errors"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/courtclock/game-session-service/internal/engine"
	"github.com/courtclock/game-session-service/internal/gameclock"
	"github.com/courtclock/game-session-service/internal/model"
	"github.com/courtclock/game-session-service/internal/repository"
)

// sessionService drives one game's clock and event logs. Each call is a
// load-transform-store round trip: the engine and clock are pure, so the
// store sees either the fully applied operation or nothing.
type sessionService struct {
	store repository.GameStore
	clock clockwork.Clock
	log   zerolog.Logger
}

func NewSessionService(store repository.GameStore, clock clockwork.Clock, logger zerolog.Logger) SessionService {
	l := logger.With().Str("module", "service").Str("component", "session").Logger()
	return &sessionService{store: store, clock: clock, log: l}
}

// withClock is the shared shape of the clock mutations: derive the state
// from persisted fields, transition it, flatten it back and persist.
func (s *sessionService) withClock(ctx context.Context, gameID string, fn func(st gameclock.State, length int) (gameclock.State, error)) (GameView, error) {
	g, err := s.store.Get(ctx, gameID)
	if err != nil {
		return GameView{}, err
	}
	length := currentLength(g)
	if length == 0 {
		return GameView{}, newInvalidInput([]FieldError{{Field: "period", Message: "game has no current period"}})
	}
	now := s.clock.Now()
	st := gameclock.Derive(length, g.IsRunning, g.PeriodStartTime, g.PeriodTimeElapsed, now)
	next, err := fn(st, length)
	if err != nil {
		// Clock transition errors originate from caller mistakes (starting
		// an expired clock, pausing a stopped one); shape them as input errors.
		if errors.Is(err, gameclock.ErrExpired) || errors.Is(err, gameclock.ErrNotRunning) {
			return GameView{}, newInvalidInput([]FieldError{{Field: "clock", Message: err.Error()}})
		}
		return GameView{}, err
	}
	g.IsRunning, g.PeriodStartTime, g.PeriodTimeElapsed = next.Fields(length)
	g.UpdatedAt = now
	if err := s.store.Put(ctx, g); err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("persisting clock state failed")
		return GameView{}, err
	}
	remaining := next.RemainingAt(length, now)
	return GameView{Game: g, TimeRemaining: remaining, Clock: gameclock.FormatSeconds(remaining)}, nil
}

func (s *sessionService) StartClock(ctx context.Context, gameID string) (GameView, error) {
	view, err := s.withClock(ctx, gameID, func(st gameclock.State, length int) (gameclock.State, error) {
		return gameclock.Start(st, length, s.clock.Now())
	})
	if err == nil {
		s.log.Info().Str("game_id", gameID).Int("remaining", view.TimeRemaining).Msg("clock started")
	}
	return view, err
}

func (s *sessionService) PauseClock(ctx context.Context, gameID string) (GameView, error) {
	view, err := s.withClock(ctx, gameID, func(st gameclock.State, length int) (gameclock.State, error) {
		return gameclock.Pause(st, length, s.clock.Now())
	})
	if err == nil {
		s.log.Info().Str("game_id", gameID).Int("remaining", view.TimeRemaining).Msg("clock paused")
	}
	return view, err
}

func (s *sessionService) AdjustClock(ctx context.Context, gameID string, deltaSeconds int) (GameView, error) {
	return s.withClock(ctx, gameID, func(st gameclock.State, length int) (gameclock.State, error) {
		return gameclock.Adjust(st, deltaSeconds, length, s.clock.Now()), nil
	})
}

func (s *sessionService) SyncClock(ctx context.Context, gameID string, remainingSeconds int) (GameView, error) {
	if remainingSeconds < 0 {
		return GameView{}, newInvalidInput([]FieldError{{Field: "time_remaining", Message: "must be >= 0"}})
	}
	return s.withClock(ctx, gameID, func(st gameclock.State, length int) (gameclock.State, error) {
		return gameclock.Sync(st, remainingSeconds, length, s.clock.Now()), nil
	})
}

// withGame is the shared shape of the log mutations.
func (s *sessionService) withGame(ctx context.Context, gameID string, fn func(g model.Game) (model.Game, error)) (GameView, error) {
	g, err := s.store.Get(ctx, gameID)
	if err != nil {
		return GameView{}, err
	}
	next, err := fn(g)
	if err != nil {
		return GameView{}, err
	}
	next.UpdatedAt = s.clock.Now()
	if err := s.store.Put(ctx, next); err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("persisting game failed")
		return GameView{}, err
	}
	return viewOf(next, s.clock.Now()), nil
}

func (s *sessionService) SubmitSubstitution(ctx context.Context, gameID string, subIn, subOut []string, atTime int) (GameView, error) {
	view, err := s.withGame(ctx, gameID, func(g model.Game) (model.Game, error) {
		return engine.Submit(g, subIn, subOut, atTime)
	})
	if err == nil {
		s.log.Info().Str("game_id", gameID).Int("in", len(subIn)).Int("out", len(subOut)).Int("at", atTime).Msg("substitution recorded")
	}
	return view, err
}

func (s *sessionService) RosterBefore(ctx context.Context, gameID, eventID string) ([]model.Player, error) {
	g, err := s.store.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}
	ids, err := engine.RosterBefore(g, eventID)
	if err != nil {
		return nil, err
	}
	players := make([]model.Player, 0, len(ids))
	for _, id := range ids {
		for _, pl := range g.Players {
			if pl.ID == id {
				players = append(players, pl)
				break
			}
		}
	}
	return players, nil
}

func (s *sessionService) EditSubstitution(ctx context.Context, gameID, eventID string, newTime int, subIn, subOut []string) (GameView, error) {
	return s.withGame(ctx, gameID, func(g model.Game) (model.Game, error) {
		return engine.EditEvent(g, eventID, newTime, subIn, subOut)
	})
}

func (s *sessionService) DeleteSubstitution(ctx context.Context, gameID, eventID string) (GameView, error) {
	return s.withGame(ctx, gameID, func(g model.Game) (model.Game, error) {
		return engine.DeleteEvent(g, eventID)
	})
}

func (s *sessionService) EndPeriod(ctx context.Context, gameID string) (GameView, error) {
	view, err := s.withGame(ctx, gameID, engine.EndPeriod)
	if err == nil {
		s.log.Info().Str("game_id", gameID).Int("current_period", view.CurrentPeriod).Msg("period ended")
	}
	return view, err
}

func (s *sessionService) AddFoul(ctx context.Context, gameID, playerID string, timeRemaining int) (GameView, error) {
	view, err := s.withGame(ctx, gameID, func(g model.Game) (model.Game, error) {
		return engine.AddFoul(g, playerID, timeRemaining)
	})
	if err == nil {
		count := engine.FoulCount(view.Game, playerID)
		ev := s.log.Info()
		if count >= engine.FoulLimit {
			// Advisory only: the sixth foul still records, the caller warns.
			ev = s.log.Warn().Int("fouls", count)
		}
		ev.Str("game_id", gameID).Str("player_id", playerID).Msg("foul recorded")
	}
	return view, err
}
