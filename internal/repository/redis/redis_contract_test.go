package redis

import (
	"context"
	"os"
	"testing"

	goredis "github.com/redis/go-redis/v9"

	"github.com/courtclock/game-session-service/internal/repository"
	"github.com/courtclock/game-session-service/internal/repository/contract"
)

func makeStore(t *testing.T) (repository.GameStore, func()) {
	addr := os.Getenv("APP_REDIS_ADDR")
	if os.Getenv("CONTRACT_TESTS") != "1" || addr == "" {
		t.Skip("contract tests skipped; set CONTRACT_TESTS=1 and APP_REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr, DB: 15}) // scratch db
	flush := func() {
		if err := rdb.FlushDB(context.Background()).Err(); err != nil {
			t.Fatalf("flush failed: %v", err)
		}
	}
	flush()
	return NewGameStore(rdb), func() {
		flush()
		_ = rdb.Close()
	}
}

func TestGameStore_RedisContract(t *testing.T) {
	contract.RunGameStoreContract(t, makeStore)
}
