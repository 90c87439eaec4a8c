package engine

import (
	"github.com/google/uuid"

	"github.com/courtclock/game-session-service/internal/model"
)

// FoulLimit is where a player fouls out. The engine records the sixth foul
// anyway; warning at the limit is a display concern, not an enforced block.
const FoulLimit = 5

// AddFoul appends a foul for a roster player to the current period's log at
// the given game-clock time. Fouls have no derived structure and no rewind
// semantics; the log is only ever counted.
func AddFoul(g model.Game, playerID string, timeRemaining int) (model.Game, error) {
	g = cloneGame(g)
	p, err := currentPeriod(&g)
	if err != nil {
		return g, err
	}
	pl, ok := findPlayer(g, playerID)
	if !ok {
		return g, notFoundf("player %s", playerID)
	}
	if timeRemaining < 0 || timeRemaining > p.Length*60 {
		return g, invariantf("foul time %d outside period bounds", timeRemaining)
	}
	p.Fouls = append(p.Fouls, model.Foul{
		ID:            uuid.NewString(),
		Player:        pl,
		PeriodID:      p.ID,
		TimeRemaining: timeRemaining,
	})
	return g, nil
}
