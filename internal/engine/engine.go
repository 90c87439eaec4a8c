// Package engine implements the substitution event log and everything
// derived from it. The per-period SubEvents slice is the single source of
// truth: the active-player set and the Substitution spans are projections
// rebuilt by a full forward replay after every log mutation. Replay is
// O(events) and a period sees tens of events, so correctness wins over
// incremental updates here.
//
// All operations take a Game by value and return a fresh one; a rejected
// operation returns the input unchanged alongside the error.
package engine

import (
	"github.com/google/uuid"

	"github.com/courtclock/game-session-service/internal/model"
)

// MaxActive is the basketball roster rule: at most five players on court.
const MaxActive = 5

// Submit records a new substitution event in the current period at the given
// game-clock time (seconds remaining). Outgoing players must be on court,
// incoming players must not be, and the resulting roster must fit MaxActive.
// The event may not carry a later game-clock time than the previously
// recorded event; the log stays ordered by EventTime descending.
func Submit(g model.Game, subIn, subOut []string, atTime int) (model.Game, error) {
	g = cloneGame(g)
	p, err := currentPeriod(&g)
	if err != nil {
		return g, err
	}
	inPlayers, err := resolvePlayers(g, subIn)
	if err != nil {
		return g, err
	}
	outPlayers, err := resolvePlayers(g, subOut)
	if err != nil {
		return g, err
	}
	if atTime < 0 || atTime > p.Length*60 {
		return g, invariantf("event time %d outside period bounds", atTime)
	}
	if n := len(p.SubEvents); n > 0 && atTime > p.SubEvents[n-1].EventTime {
		return g, invariantf("event time %d precedes the previously recorded event", atTime)
	}

	active := replayActive(p, len(p.SubEvents)-1)
	if err := checkRosterChange(active, subIn, subOut); err != nil {
		return g, err
	}

	p.SubEvents = append(p.SubEvents, model.SubstitutionEvent{
		ID:         uuid.NewString(),
		PeriodID:   p.ID,
		EventTime:  atTime,
		SubbedIn:   inPlayers,
		PlayersOut: outPlayers,
	})
	g.ActivePlayers = rebuild(p)
	return g, nil
}

// RosterBefore answers "who was on court immediately before this event" by
// walking the log backward from the most recent event down to and including
// the target, undoing each one: an undo puts PlayersOut back and takes
// SubbedIn off. Callers use the result to seed an edit form.
func RosterBefore(g model.Game, eventID string) ([]string, error) {
	pi, ei, ok := findEvent(g, eventID)
	if !ok {
		return nil, notFoundf("substitution event %s", eventID)
	}
	p := &g.Periods[pi]
	active := replayActive(p, len(p.SubEvents)-1)
	for i := len(p.SubEvents) - 1; i >= ei; i-- {
		active = undo(active, p.SubEvents[i])
	}
	return active, nil
}

// EditEvent overwrites an existing event's time and membership. The new time
// must keep the event in place relative to its neighbours; a time that would
// reorder the log is rejected instead of re-sorted. Membership is validated
// against the pre-event roster recovered by RosterBefore, and every later
// event is replayed against the amended membership: an edit that would leave
// a later event referencing a player who is no longer on court (or push the
// court past MaxActive) returns ErrConflict. On success all spans and the
// active set are rebuilt from the amended log.
func EditEvent(g model.Game, eventID string, newTime int, newIn, newOut []string) (model.Game, error) {
	g = cloneGame(g)
	pi, ei, ok := findEvent(g, eventID)
	if !ok {
		return g, notFoundf("substitution event %s", eventID)
	}
	p := &g.Periods[pi]
	inPlayers, err := resolvePlayers(g, newIn)
	if err != nil {
		return g, err
	}
	outPlayers, err := resolvePlayers(g, newOut)
	if err != nil {
		return g, err
	}
	if newTime < 0 || newTime > p.Length*60 {
		return g, invariantf("event time %d outside period bounds", newTime)
	}
	if ei > 0 && newTime > p.SubEvents[ei-1].EventTime {
		return g, invariantf("event time %d would reorder the log past the preceding event", newTime)
	}
	if ei < len(p.SubEvents)-1 && newTime < p.SubEvents[ei+1].EventTime {
		return g, invariantf("event time %d would reorder the log past the following event", newTime)
	}

	before, err := RosterBefore(g, eventID)
	if err != nil {
		return g, err
	}
	if err := checkRosterChange(before, newIn, newOut); err != nil {
		return g, err
	}
	// The pre-event roster only proves the edited event itself is legal.
	// Later events were recorded against the old membership; replay them
	// against the new one and refuse the edit if any would strand a player
	// (the same corruption DeleteEvent guards against).
	active := before
	for _, id := range newOut {
		active = removeID(active, id)
	}
	for _, id := range newIn {
		active = addID(active, id)
	}
	for i := ei + 1; i < len(p.SubEvents); i++ {
		later := p.SubEvents[i]
		if err := checkRosterChange(active, playerIDs(later.SubbedIn), playerIDs(later.PlayersOut)); err != nil {
			return g, ErrConflict
		}
		active = apply(active, later)
	}

	ev := &p.SubEvents[ei]
	ev.EventTime = newTime
	ev.SubbedIn = inPlayers
	ev.PlayersOut = outPlayers
	if pi == g.CurrentPeriod {
		g.ActivePlayers = rebuild(p)
	} else {
		rebuild(p)
	}
	return g, nil
}

// DeleteEvent removes an event from the log. Spans it opened disappear and
// spans it closed reopen, both falling out of the rebuild. Deletion is
// refused when any later event in the same period involves one of the same
// players: reversing the event under that condition would leave the later
// portion of the log describing players who were never on court.
func DeleteEvent(g model.Game, eventID string) (model.Game, error) {
	g = cloneGame(g)
	pi, ei, ok := findEvent(g, eventID)
	if !ok {
		return g, notFoundf("substitution event %s", eventID)
	}
	p := &g.Periods[pi]
	involved := map[string]bool{}
	for _, pl := range p.SubEvents[ei].SubbedIn {
		involved[pl.ID] = true
	}
	for _, pl := range p.SubEvents[ei].PlayersOut {
		involved[pl.ID] = true
	}
	for i := ei + 1; i < len(p.SubEvents); i++ {
		for _, pl := range p.SubEvents[i].SubbedIn {
			if involved[pl.ID] {
				return g, ErrConflict
			}
		}
		for _, pl := range p.SubEvents[i].PlayersOut {
			if involved[pl.ID] {
				return g, ErrConflict
			}
		}
	}

	p.SubEvents = append(p.SubEvents[:ei], p.SubEvents[ei+1:]...)
	if pi == g.CurrentPeriod {
		g.ActivePlayers = rebuild(p)
	} else {
		rebuild(p)
	}
	return g, nil
}

// EndPeriod closes the current period: a synthetic event at game-clock zero
// takes every active player off court, which closes all open spans with
// their full remaining stint. If a later period exists the game advances to
// it with a fresh stopped clock; otherwise the clock parks at zero.
func EndPeriod(g model.Game) (model.Game, error) {
	g = cloneGame(g)
	p, err := currentPeriod(&g)
	if err != nil {
		return g, err
	}
	active := replayActive(p, len(p.SubEvents)-1)
	out := make([]model.Player, 0, len(active))
	for _, id := range active {
		// An id the roster cannot resolve (a corrupted document) is skipped
		// rather than swept off as a zero-valued player.
		if pl, ok := findPlayer(g, id); ok {
			out = append(out, pl)
		}
	}
	if len(out) > 0 {
		p.SubEvents = append(p.SubEvents, model.SubstitutionEvent{
			ID:         uuid.NewString(),
			PeriodID:   p.ID,
			EventTime:  0,
			PlayersOut: out,
		})
		rebuild(p)
	}
	g.ActivePlayers = []string{}
	g.IsRunning = false
	g.PeriodStartTime = nil
	if g.CurrentPeriod+1 < len(g.Periods) {
		g.CurrentPeriod++
		g.PeriodTimeElapsed = nil // fresh period, full length on derive
	} else {
		elapsed := p.Length * 60
		g.PeriodTimeElapsed = &elapsed
	}
	return g, nil
}

// ActiveAfter replays the period's log from an empty court through the event
// at uptoIndex (inclusive) and returns the resulting on-court ids in order
// of appearance. uptoIndex of -1 yields the period-start roster.
func ActiveAfter(p model.Period, uptoIndex int) []string {
	return replayActive(&p, uptoIndex)
}

// --- log replay internals ---

func replayActive(p *model.Period, uptoIndex int) []string {
	active := []string{}
	for i := 0; i <= uptoIndex && i < len(p.SubEvents); i++ {
		active = apply(active, p.SubEvents[i])
	}
	return active
}

func apply(active []string, ev model.SubstitutionEvent) []string {
	for _, pl := range ev.PlayersOut {
		active = removeID(active, pl.ID)
	}
	for _, pl := range ev.SubbedIn {
		active = addID(active, pl.ID)
	}
	return active
}

// undo is the inverse of apply, used by the backward walk.
func undo(active []string, ev model.SubstitutionEvent) []string {
	for _, pl := range ev.SubbedIn {
		active = removeID(active, pl.ID)
	}
	for _, pl := range ev.PlayersOut {
		active = addID(active, pl.ID)
	}
	return active
}

// rebuild regenerates the period's Substitution spans from its event log and
// returns the resulting active ids. Span ids are derived deterministically
// from (opening event, player) so a rebuild does not churn identities.
func rebuild(p *model.Period) []string {
	eventTime := make(map[string]int, len(p.SubEvents))
	for _, ev := range p.SubEvents {
		eventTime[ev.ID] = ev.EventTime
	}
	active := []string{}
	spans := make([]model.Substitution, 0, len(p.SubEvents))
	for _, ev := range p.SubEvents {
		for _, pl := range ev.PlayersOut {
			for i := range spans {
				if spans[i].Player.ID == pl.ID && spans[i].TimeOutEvent == nil {
					outID := ev.ID
					played := eventTime[spans[i].TimeInEvent] - ev.EventTime
					spans[i].TimeOutEvent = &outID
					spans[i].SecondsPlayed = &played
					break
				}
			}
			active = removeID(active, pl.ID)
		}
		for _, pl := range ev.SubbedIn {
			spans = append(spans, model.Substitution{
				ID:          spanID(ev.ID, pl.ID),
				Player:      pl,
				PeriodID:    p.ID,
				TimeInEvent: ev.ID,
			})
			active = addID(active, pl.ID)
		}
	}
	p.Substitutions = spans
	return active
}

func spanID(eventID, playerID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(eventID+"/"+playerID)).String()
}

// --- validation helpers ---

func checkRosterChange(active, subIn, subOut []string) error {
	for _, id := range subIn {
		if hasID(subOut, id) {
			return invariantf("player %s appears as both incoming and outgoing", id)
		}
		if hasID(active, id) {
			return invariantf("player %s is already on court", id)
		}
	}
	for _, id := range subOut {
		if !hasID(active, id) {
			return invariantf("player %s is not on court", id)
		}
	}
	if n := len(active) - len(subOut) + len(subIn); n > MaxActive {
		return invariantf("roster would have %d active players, limit is %d", n, MaxActive)
	}
	return nil
}

func resolvePlayers(g model.Game, ids []string) ([]model.Player, error) {
	players := make([]model.Player, 0, len(ids))
	for _, id := range ids {
		pl, ok := findPlayer(g, id)
		if !ok {
			return nil, notFoundf("player %s", id)
		}
		players = append(players, pl)
	}
	return players, nil
}

func playerIDs(players []model.Player) []string {
	ids := make([]string, 0, len(players))
	for _, pl := range players {
		ids = append(ids, pl.ID)
	}
	return ids
}

func findPlayer(g model.Game, id string) (model.Player, bool) {
	for _, pl := range g.Players {
		if pl.ID == id {
			return pl, true
		}
	}
	return model.Player{}, false
}

func currentPeriod(g *model.Game) (*model.Period, error) {
	if g.CurrentPeriod < 0 || g.CurrentPeriod >= len(g.Periods) {
		return nil, notFoundf("period index %d", g.CurrentPeriod)
	}
	return &g.Periods[g.CurrentPeriod], nil
}

func findEvent(g model.Game, eventID string) (periodIdx, eventIdx int, ok bool) {
	for pi := range g.Periods {
		for ei := range g.Periods[pi].SubEvents {
			if g.Periods[pi].SubEvents[ei].ID == eventID {
				return pi, ei, true
			}
		}
	}
	return 0, 0, false
}

// --- ordered id-set helpers ---

func hasID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func addID(ids []string, id string) []string {
	if hasID(ids, id) {
		return ids
	}
	return append(ids, id)
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// cloneGame deep-copies the mutable parts of a Game so engine operations
// never alias the caller's slices.
func cloneGame(g model.Game) model.Game {
	g.Players = append([]model.Player(nil), g.Players...)
	g.ActivePlayers = append([]string(nil), g.ActivePlayers...)
	if g.PeriodStartTime != nil {
		t := *g.PeriodStartTime
		g.PeriodStartTime = &t
	}
	if g.PeriodTimeElapsed != nil {
		e := *g.PeriodTimeElapsed
		g.PeriodTimeElapsed = &e
	}
	periods := make([]model.Period, len(g.Periods))
	for i, p := range g.Periods {
		events := make([]model.SubstitutionEvent, len(p.SubEvents))
		for j, ev := range p.SubEvents {
			ev.SubbedIn = append([]model.Player(nil), ev.SubbedIn...)
			ev.PlayersOut = append([]model.Player(nil), ev.PlayersOut...)
			events[j] = ev
		}
		p.SubEvents = events
		spans := make([]model.Substitution, len(p.Substitutions))
		for j, s := range p.Substitutions {
			if s.TimeOutEvent != nil {
				v := *s.TimeOutEvent
				s.TimeOutEvent = &v
			}
			if s.SecondsPlayed != nil {
				v := *s.SecondsPlayed
				s.SecondsPlayed = &v
			}
			spans[j] = s
		}
		p.Substitutions = spans
		p.Fouls = append([]model.Foul(nil), p.Fouls...)
		periods[i] = p
	}
	g.Periods = periods
	return g
}
