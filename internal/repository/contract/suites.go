// Package contract holds the behavioral suite every GameStore backend must
// pass. Backends run it from their own _test.go with a factory; the durable
// backends gate on environment DSNs so the suite degrades to the in-memory
// leg on a laptop without infrastructure.
package contract

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/courtclock/game-session-service/internal/model"
	"github.com/courtclock/game-session-service/internal/repository"
)

// StoreFactory builds a fresh store plus a cleanup closure.
type StoreFactory func(t *testing.T) (repository.GameStore, func())

func sampleGame(team string, date time.Time) model.Game {
	start := date.Add(5 * time.Minute)
	elapsed := 90
	pA := model.Player{ID: uuid.NewString(), Name: "Ama", Number: 4}
	pB := model.Player{ID: uuid.NewString(), Name: "Bo", Number: 7}
	periodID := uuid.NewString()
	eventID := uuid.NewString()
	outID := uuid.NewString()
	return model.Game{
		ID:            uuid.NewString(),
		Date:          date,
		Team:          team,
		Opponent:      "Visitors",
		Players:       []model.Player{pA, pB},
		ActivePlayers: []string{pA.ID},
		CurrentPeriod: 0,
		IsRunning:     true,
		PeriodStartTime: &start,
		Periods: []model.Period{
			{
				ID:           periodID,
				PeriodNumber: 1,
				Length:       20,
				SubEvents: []model.SubstitutionEvent{
					{ID: eventID, PeriodID: periodID, EventTime: 1200, SubbedIn: []model.Player{pA, pB}},
					{ID: outID, PeriodID: periodID, EventTime: 900, PlayersOut: []model.Player{pB}},
				},
				Substitutions: []model.Substitution{
					{ID: uuid.NewString(), Player: pA, PeriodID: periodID, TimeInEvent: eventID},
					{ID: uuid.NewString(), Player: pB, PeriodID: periodID, TimeInEvent: eventID, TimeOutEvent: &outID, SecondsPlayed: &elapsed},
				},
				Fouls: []model.Foul{
					{ID: uuid.NewString(), Player: pA, PeriodID: periodID, TimeRemaining: 1000},
				},
			},
			{ID: uuid.NewString(), PeriodNumber: 2, Length: 20},
		},
		CreatedAt: date,
		UpdatedAt: date,
	}
}

// RunGameStoreContract exercises the whole-object get/put/delete/list
// contract, including the round-trip fidelity the engine depends on.
func RunGameStoreContract(t *testing.T, makeStore StoreFactory) {
	t.Helper()

	t.Run("put_and_get_round_trip", func(t *testing.T) {
		store, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		g := sampleGame("Hawks", time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC))
		if err := store.Put(ctx, g); err != nil {
			t.Fatalf("put failed: %v", err)
		}
		got, err := store.Get(ctx, g.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.ID != g.ID || got.Team != g.Team || got.Opponent != g.Opponent {
			t.Fatalf("identity mismatch: %+v", got)
		}
		if !got.IsRunning || got.PeriodStartTime == nil || !got.PeriodStartTime.Equal(*g.PeriodStartTime) {
			t.Fatalf("clock anchor did not round-trip: %+v", got)
		}
		if len(got.Periods) != 2 || len(got.Periods[0].SubEvents) != 2 {
			t.Fatalf("period log did not round-trip: %+v", got.Periods)
		}
		span := got.Periods[0].Substitutions[1]
		if span.TimeOutEvent == nil || span.SecondsPlayed == nil || *span.SecondsPlayed != 90 {
			t.Fatalf("closed span did not round-trip: %+v", span)
		}
		if len(got.ActivePlayers) != 1 || got.ActivePlayers[0] != g.ActivePlayers[0] {
			t.Fatalf("active set did not round-trip: %v", got.ActivePlayers)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		store, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		if _, err := store.Get(context.Background(), uuid.NewString()); err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("put_overwrites_whole_object", func(t *testing.T) {
		store, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		g := sampleGame("Hawks", time.Now().UTC().Truncate(time.Second))
		if err := store.Put(ctx, g); err != nil {
			t.Fatalf("put: %v", err)
		}
		g.IsRunning = false
		g.PeriodStartTime = nil
		elapsed := 300
		g.PeriodTimeElapsed = &elapsed
		g.ActivePlayers = nil
		if err := store.Put(ctx, g); err != nil {
			t.Fatalf("second put: %v", err)
		}
		got, err := store.Get(ctx, g.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.IsRunning || got.PeriodStartTime != nil {
			t.Fatalf("stale clock fields survived the overwrite: %+v", got)
		}
		if got.PeriodTimeElapsed == nil || *got.PeriodTimeElapsed != 300 {
			t.Fatalf("elapsed not persisted: %+v", got.PeriodTimeElapsed)
		}
	})

	t.Run("delete", func(t *testing.T) {
		store, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		g := sampleGame("Hawks", time.Now().UTC())
		if err := store.Put(ctx, g); err != nil {
			t.Fatalf("put: %v", err)
		}
		if err := store.Delete(ctx, g.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := store.Get(ctx, g.ID); err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
		if err := store.Delete(ctx, g.ID); err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound on double delete, got %v", err)
		}
	})

	t.Run("list_newest_first", func(t *testing.T) {
		store, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		base := time.Date(2026, 2, 1, 18, 0, 0, 0, time.UTC)
		old := sampleGame("Oldest", base)
		mid := sampleGame("Middle", base.AddDate(0, 0, 7))
		new_ := sampleGame("Newest", base.AddDate(0, 0, 14))
		for _, g := range []model.Game{old, new_, mid} {
			if err := store.Put(ctx, g); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
		got, err := store.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 summaries, got %d", len(got))
		}
		for i := 1; i < len(got); i++ {
			if got[i].Date.After(got[i-1].Date) {
				t.Fatalf("listing not newest first: %v", got)
			}
		}
	})
}
