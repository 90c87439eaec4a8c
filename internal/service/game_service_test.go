package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtclock/game-session-service/internal/repository"
	"github.com/courtclock/game-session-service/internal/repository/memory"
	"github.com/courtclock/game-session-service/internal/service"
)

func newGameService(t *testing.T) (service.GameService, *memory.Store, clockwork.FakeClock) {
	t.Helper()
	store := memory.NewGameStore()
	fc := clockwork.NewFakeClock()
	svc := service.NewGameService(store, fc, service.GameDefaults{Periods: 2, PeriodLength: 20}, zerolog.Nop())
	return svc, store, fc
}

func validCreateParams() service.CreateGameParams {
	return service.CreateGameParams{
		Team:     "Hawks",
		Opponent: "Wolves",
		Date:     time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC),
		Players: []service.PlayerParams{
			{Name: "Avery", Number: 4},
			{Name: "Blake", Number: 7},
			{Name: "Casey", Number: 11},
			{Name: "Drew", Number: 15},
			{Name: "Emery", Number: 21},
			{Name: "Frankie", Number: 23},
		},
	}
}

func TestGameService_CreateGame(t *testing.T) {
	svc, _, _ := newGameService(t)

	view, err := svc.CreateGame(context.Background(), validCreateParams())
	require.NoError(t, err)
	assert.NotEmpty(t, view.ID)
	assert.Equal(t, "Hawks", view.Team)
	require.Len(t, view.Periods, 2, "defaults fill zero periods")
	assert.Equal(t, 20, view.Periods[0].Length)
	assert.Equal(t, 1, view.Periods[0].PeriodNumber)
	assert.Equal(t, 2, view.Periods[1].PeriodNumber)
	assert.Len(t, view.Players, 6)
	assert.Empty(t, view.ActivePlayers)
	assert.False(t, view.IsRunning)
	assert.Equal(t, 1200, view.TimeRemaining)
	assert.Equal(t, "20:00", view.Clock)
}

func TestGameService_CreateGame_Validation(t *testing.T) {
	svc, _, _ := newGameService(t)

	cases := []struct {
		name      string
		mutate    func(*service.CreateGameParams)
		wantField string
	}{
		{"empty team", func(p *service.CreateGameParams) { p.Team = "  " }, "team"},
		{"empty opponent", func(p *service.CreateGameParams) { p.Opponent = "" }, "opponent"},
		{"zero date", func(p *service.CreateGameParams) { p.Date = time.Time{} }, "date"},
		{"too many periods", func(p *service.CreateGameParams) { p.Periods = 5 }, "periods"},
		{"odd period length", func(p *service.CreateGameParams) { p.PeriodLength = 15 }, "period_length"},
		{"duplicate numbers", func(p *service.CreateGameParams) { p.Players[1].Number = p.Players[0].Number }, "players"},
		{"nameless player", func(p *service.CreateGameParams) { p.Players[2].Name = " " }, "players"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validCreateParams()
			tc.mutate(&p)
			_, err := svc.CreateGame(context.Background(), p)
			require.ErrorIs(t, err, service.ErrInvalidInput)
			fields := service.FieldErrors(err)
			require.NotEmpty(t, fields)
			found := false
			for _, fe := range fields {
				if fe.Field == tc.wantField {
					found = true
				}
			}
			assert.True(t, found, "expected a field error on %q, got %+v", tc.wantField, fields)
		})
	}
}

func TestGameService_GetGame_NotFound(t *testing.T) {
	svc, _, _ := newGameService(t)
	_, err := svc.GetGame(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGameService_GetGame_PersistsExpiredClock(t *testing.T) {
	store := memory.NewGameStore()
	fc := clockwork.NewFakeClock()
	games := service.NewGameService(store, fc, service.GameDefaults{}, zerolog.Nop())
	session := service.NewSessionService(store, fc, zerolog.Nop())

	created, err := games.CreateGame(context.Background(), validCreateParams())
	require.NoError(t, err)
	_, err = session.StartClock(context.Background(), created.ID)
	require.NoError(t, err)

	// The whole period elapses while nobody is watching.
	fc.Advance(25 * time.Minute)

	view, err := games.GetGame(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, view.IsRunning)
	assert.Equal(t, 0, view.TimeRemaining)
	assert.Equal(t, "0:00", view.Clock)

	// The terminal state was written back, not just rendered.
	raw, err := store.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, raw.IsRunning)
	assert.Nil(t, raw.PeriodStartTime)
	require.NotNil(t, raw.PeriodTimeElapsed)
	assert.Equal(t, 1200, *raw.PeriodTimeElapsed)
}

func TestGameService_AddPlayer(t *testing.T) {
	svc, _, _ := newGameService(t)
	created, err := svc.CreateGame(context.Background(), validCreateParams())
	require.NoError(t, err)

	view, err := svc.AddPlayer(context.Background(), created.ID, service.PlayerParams{Name: "Gray", Number: 33})
	require.NoError(t, err)
	assert.Len(t, view.Players, 7)

	_, err = svc.AddPlayer(context.Background(), created.ID, service.PlayerParams{Name: "Nolan", Number: 33})
	require.ErrorIs(t, err, service.ErrInvalidInput)
	var wantTaken bool
	for _, fe := range service.FieldErrors(err) {
		if fe.Field == "number" {
			wantTaken = true
		}
	}
	assert.True(t, wantTaken)

	_, err = svc.AddPlayer(context.Background(), created.ID, service.PlayerParams{Name: "", Number: 44})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestGameService_ListAndDelete(t *testing.T) {
	svc, _, _ := newGameService(t)
	ctx := context.Background()

	first := validCreateParams()
	second := validCreateParams()
	second.Date = first.Date.Add(48 * time.Hour)
	a, err := svc.CreateGame(ctx, first)
	require.NoError(t, err)
	b, err := svc.CreateGame(ctx, second)
	require.NoError(t, err)

	list, err := svc.ListGames(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID, "newest date first")
	assert.Equal(t, a.ID, list[1].ID)

	require.NoError(t, svc.DeleteGame(ctx, a.ID))
	_, err = svc.GetGame(ctx, a.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = svc.DeleteGame(ctx, a.ID)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}
