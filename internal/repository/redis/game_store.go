// Package redis stores game documents as JSON strings under a key prefix,
// with a set index for listing. Suits deployments that already run redis
// and don't want a relational database for a handful of live games.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/courtclock/game-session-service/internal/model"
	"github.com/courtclock/game-session-service/internal/repository"
)

const (
	keyPrefix = "game:"
	indexKey  = "games"
)

type gameStore struct{ rdb *redis.Client }

func NewGameStore(rdb *redis.Client) repository.GameStore {
	return &gameStore{rdb: rdb}
}

// NewPinger adapts the redis client to the repository.Pinger interface.
func NewPinger(rdb *redis.Client) repository.Pinger { return &pinger{rdb: rdb} }

type pinger struct{ rdb *redis.Client }

func (p *pinger) Ping(ctx context.Context) error { return p.rdb.Ping(ctx).Err() }

func (s *gameStore) Get(ctx context.Context, id string) (model.Game, error) {
	doc, err := s.rdb.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Game{}, repository.ErrNotFound
		}
		return model.Game{}, err
	}
	var g model.Game
	if err := json.Unmarshal(doc, &g); err != nil {
		return model.Game{}, err
	}
	return g, nil
}

func (s *gameStore) Put(ctx context.Context, g model.Game) error {
	doc, err := json.Marshal(g)
	if err != nil {
		return err
	}
	// Document and index move together in one pipeline round trip.
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, keyPrefix+g.ID, doc, 0)
	pipe.SAdd(ctx, indexKey, g.ID)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *gameStore) Delete(ctx context.Context, id string) error {
	removed, err := s.rdb.Del(ctx, keyPrefix+id).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return repository.ErrNotFound
	}
	return s.rdb.SRem(ctx, indexKey, id).Err()
}

func (s *gameStore) List(ctx context.Context) ([]model.GameSummary, error) {
	ids, err := s.rdb.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}
	out := make([]model.GameSummary, 0, len(ids))
	for _, id := range ids {
		doc, err := s.rdb.Get(ctx, keyPrefix+id).Bytes()
		if errors.Is(err, redis.Nil) {
			continue // index entry outlived its document; skip, don't fail the listing
		}
		if err != nil {
			return nil, err
		}
		var sum model.GameSummary
		if err := json.Unmarshal(doc, &sum); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

var _ repository.GameStore = (*gameStore)(nil)
