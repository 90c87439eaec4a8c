package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/courtclock/game-session-service/internal/gameclock"
	"github.com/courtclock/game-session-service/internal/model"
	"github.com/courtclock/game-session-service/internal/repository"
)

// Defaults applied when CreateGameParams leaves structure fields zero.
type GameDefaults struct {
	Periods      int
	PeriodLength int // minutes
}

type gameService struct {
	store    repository.GameStore
	clock    clockwork.Clock
	defaults GameDefaults
	log      zerolog.Logger
}

func NewGameService(store repository.GameStore, clock clockwork.Clock, defaults GameDefaults, logger zerolog.Logger) GameService {
	l := logger.With().Str("module", "service").Str("component", "game").Logger()
	if defaults.Periods <= 0 {
		defaults.Periods = 2
	}
	if defaults.PeriodLength <= 0 {
		defaults.PeriodLength = 20
	}
	return &gameService{store: store, clock: clock, defaults: defaults, log: l}
}

func isValidPeriodLength(minutes int) bool {
	// Halves or quarters; nothing else is legal in this league format.
	return minutes == 10 || minutes == 20
}

func (s *gameService) CreateGame(ctx context.Context, p CreateGameParams) (GameView, error) {
	start := time.Now()
	p.Team = strings.TrimSpace(p.Team)
	p.Opponent = strings.TrimSpace(p.Opponent)
	if p.Periods == 0 {
		p.Periods = s.defaults.Periods
	}
	if p.PeriodLength == 0 {
		p.PeriodLength = s.defaults.PeriodLength
	}

	var ferrs []FieldError
	if p.Team == "" {
		ferrs = append(ferrs, FieldError{Field: "team", Message: "must not be empty"})
	}
	if p.Opponent == "" {
		ferrs = append(ferrs, FieldError{Field: "opponent", Message: "must not be empty"})
	}
	if p.Date.IsZero() {
		ferrs = append(ferrs, FieldError{Field: "date", Message: "must be set"})
	}
	if p.Periods < 1 || p.Periods > 4 {
		ferrs = append(ferrs, FieldError{Field: "periods", Message: "must be between 1 and 4"})
	}
	if !isValidPeriodLength(p.PeriodLength) {
		ferrs = append(ferrs, FieldError{Field: "period_length", Message: "must be 10 or 20 minutes"})
	}
	ferrs = append(ferrs, validateRoster(p.Players)...)
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("game validation failed")
		return GameView{}, err
	}

	players := make([]model.Player, 0, len(p.Players))
	for _, pp := range p.Players {
		players = append(players, model.Player{ID: uuid.NewString(), Name: strings.TrimSpace(pp.Name), Number: pp.Number})
	}
	periods := make([]model.Period, 0, p.Periods)
	for i := 0; i < p.Periods; i++ {
		periods = append(periods, model.Period{ID: uuid.NewString(), PeriodNumber: i + 1, Length: p.PeriodLength})
	}
	now := s.clock.Now()
	g := model.Game{
		ID:            uuid.NewString(),
		Date:          p.Date,
		Team:          p.Team,
		Opponent:      p.Opponent,
		Players:       players,
		Periods:       periods,
		ActivePlayers: []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Put(ctx, g); err != nil {
		s.log.Error().Err(err).Str("team", p.Team).Msg("create game failed")
		return GameView{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Str("game_id", g.ID).Int("players", len(players)).Msg("game created")
	return viewOf(g, s.clock.Now()), nil
}

func (s *gameService) GetGame(ctx context.Context, id string) (GameView, error) {
	if strings.TrimSpace(id) == "" {
		return GameView{}, newInvalidInput([]FieldError{{Field: "id", Message: "must not be empty"}})
	}
	g, err := s.store.Get(ctx, id)
	if err != nil {
		return GameView{}, err
	}
	now := s.clock.Now()
	view := viewOf(g, now)
	// A period that expired while the app was closed lands here as a stopped
	// clock; persist that terminal state so the next load agrees.
	if g.IsRunning && !view.IsRunning {
		if err := s.store.Put(ctx, view.Game); err != nil {
			s.log.Error().Err(err).Str("game_id", id).Msg("persisting expired clock failed")
			return GameView{}, err
		}
	}
	return view, nil
}

func (s *gameService) ListGames(ctx context.Context) ([]model.GameSummary, error) {
	res, err := s.store.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list games failed")
		return nil, err
	}
	return res, nil
}

func (s *gameService) DeleteGame(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return newInvalidInput([]FieldError{{Field: "id", Message: "must not be empty"}})
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("game_id", id).Msg("game deleted")
	return nil
}

func (s *gameService) AddPlayer(ctx context.Context, gameID string, p PlayerParams) (GameView, error) {
	var ferrs []FieldError
	name := strings.TrimSpace(p.Name)
	if name == "" {
		ferrs = append(ferrs, FieldError{Field: "name", Message: "must not be empty"})
	}
	if p.Number < 0 {
		ferrs = append(ferrs, FieldError{Field: "number", Message: "must be >= 0"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return GameView{}, err
	}
	g, err := s.store.Get(ctx, gameID)
	if err != nil {
		return GameView{}, err
	}
	for _, existing := range g.Players {
		if existing.Number == p.Number {
			return GameView{}, newInvalidInput([]FieldError{{Field: "number", Message: "already taken"}})
		}
	}
	g.Players = append(g.Players, model.Player{ID: uuid.NewString(), Name: name, Number: p.Number})
	g.UpdatedAt = s.clock.Now()
	if err := s.store.Put(ctx, g); err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("add player failed")
		return GameView{}, err
	}
	return viewOf(g, s.clock.Now()), nil
}

func validateRoster(players []PlayerParams) []FieldError {
	var ferrs []FieldError
	seen := map[int]bool{}
	for _, p := range players {
		if strings.TrimSpace(p.Name) == "" {
			ferrs = append(ferrs, FieldError{Field: "players", Message: "every player needs a name"})
		}
		if p.Number < 0 {
			ferrs = append(ferrs, FieldError{Field: "players", Message: "numbers must be >= 0"})
		} else if seen[p.Number] {
			ferrs = append(ferrs, FieldError{Field: "players", Message: "numbers must be unique"})
		}
		seen[p.Number] = true
	}
	return ferrs
}

// viewOf derives the live clock pair from the persisted fields and formats
// the countdown for display. If the derivation lands on the terminal
// stopped-at-zero state, the returned Game carries the updated fields.
func viewOf(g model.Game, now time.Time) GameView {
	length := currentLength(g)
	st := gameclock.Derive(length, g.IsRunning, g.PeriodStartTime, g.PeriodTimeElapsed, now)
	running, startTime, elapsed := st.Fields(length)
	g.IsRunning = running
	g.PeriodStartTime = startTime
	g.PeriodTimeElapsed = elapsed
	remaining := st.RemainingAt(length, now)
	return GameView{Game: g, TimeRemaining: remaining, Clock: gameclock.FormatSeconds(remaining)}
}

func currentLength(g model.Game) int {
	if g.CurrentPeriod >= 0 && g.CurrentPeriod < len(g.Periods) {
		return g.Periods[g.CurrentPeriod].Length
	}
	return 0
}
