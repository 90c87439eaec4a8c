package engine

import "github.com/courtclock/game-session-service/internal/model"

// Statistics are recomputed on demand from the logs; nothing here caches or
// mutates. liveRemaining is the caller's ticking countdown value, needed to
// value a stint that is still open.

// SecondsPlayed sums a player's closed spans across all periods, plus the
// elapsed share of an open stint in the current period.
func SecondsPlayed(g model.Game, playerID string, liveRemaining int) int {
	total := 0
	for pi := range g.Periods {
		p := &g.Periods[pi]
		times := eventTimes(p)
		for _, s := range p.Substitutions {
			if s.Player.ID != playerID {
				continue
			}
			switch {
			case s.SecondsPlayed != nil:
				total += *s.SecondsPlayed
			case pi == g.CurrentPeriod:
				if elapsed := times[s.TimeInEvent] - liveRemaining; elapsed > 0 {
					total += elapsed
				}
			}
		}
	}
	return total
}

// FoulCount counts a player's fouls across the whole game.
func FoulCount(g model.Game, playerID string) int {
	n := 0
	for _, p := range g.Periods {
		for _, f := range p.Fouls {
			if f.Player.ID == playerID {
				n++
			}
		}
	}
	return n
}

// PeriodFoulCount is the team foul total for the current period, used for
// bonus display.
func PeriodFoulCount(g model.Game) int {
	if g.CurrentPeriod < 0 || g.CurrentPeriod >= len(g.Periods) {
		return 0
	}
	return len(g.Periods[g.CurrentPeriod].Fouls)
}

// LastStintMark reports the game-clock second a player's current stint began
// at (onCourt true), or the second their most recent stint ended at, or nil
// if they have not appeared in the current period.
func LastStintMark(g model.Game, playerID string) (mark *int, onCourt bool) {
	if g.CurrentPeriod < 0 || g.CurrentPeriod >= len(g.Periods) {
		return nil, false
	}
	p := &g.Periods[g.CurrentPeriod]
	times := eventTimes(p)
	var lastClosed *int
	for _, s := range p.Substitutions {
		if s.Player.ID != playerID {
			continue
		}
		if s.TimeOutEvent == nil {
			t := times[s.TimeInEvent]
			return &t, true
		}
		t := times[*s.TimeOutEvent]
		lastClosed = &t
	}
	return lastClosed, false
}

// Stats assembles the per-player derivations for the whole roster.
func Stats(g model.Game, liveRemaining int) model.GameStats {
	players := make([]model.PlayerStats, 0, len(g.Players))
	for _, pl := range g.Players {
		mark, onCourt := LastStintMark(g, pl.ID)
		players = append(players, model.PlayerStats{
			Player:        pl,
			SecondsPlayed: SecondsPlayed(g, pl.ID, liveRemaining),
			Fouls:         FoulCount(g, pl.ID),
			LastStintMark: mark,
			OnCourt:       onCourt,
		})
	}
	subCount := 0
	for _, p := range g.Periods {
		subCount += len(p.SubEvents)
	}
	return model.GameStats{
		Players:           players,
		CurrentPeriod:     g.CurrentPeriod,
		PeriodFouls:       PeriodFoulCount(g),
		TimeRemaining:     liveRemaining,
		ActivePlayers:     append([]string(nil), g.ActivePlayers...),
		SubstitutionCount: subCount,
	}
}

func eventTimes(p *model.Period) map[string]int {
	m := make(map[string]int, len(p.SubEvents))
	for _, ev := range p.SubEvents {
		m[ev.ID] = ev.EventTime
	}
	return m
}
