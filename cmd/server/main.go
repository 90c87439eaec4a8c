package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/courtclock/game-session-service/internal/config"
	"github.com/courtclock/game-session-service/internal/handler"
	"github.com/courtclock/game-session-service/internal/logger"
	"github.com/courtclock/game-session-service/internal/repository"
	"github.com/courtclock/game-session-service/internal/repository/memory"
	pgstore "github.com/courtclock/game-session-service/internal/repository/postgres"
	redisstore "github.com/courtclock/game-session-service/internal/repository/redis"
	"github.com/courtclock/game-session-service/internal/service"
)

func main() {
	// Load application config
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("config loading failed: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("logger initialization failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, pinger, closeStore, err := buildStore(ctx, cfg, &appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Str("backend", cfg.Storage.Backend).Msg("store initialization failed")
	}
	defer closeStore()

	wall := clockwork.NewRealClock()
	gameSvc := service.NewGameService(store, wall, service.GameDefaults{
		Periods:      cfg.Game.Periods,
		PeriodLength: cfg.Game.PeriodLength,
	}, appLogger)
	sessionSvc := service.NewSessionService(store, wall, appLogger)
	statsSvc := service.NewStatsService(store, wall, appLogger)

	if cfg.App.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	handler.Register(router, pinger, gameSvc, sessionSvc, statsSvc)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal().Err(err).Msg("http server failed")
		}
	}()
	appLogger.Info().Int("port", cfg.App.Port).Str("backend", cfg.Storage.Backend).Msg("service started")

	<-ctx.Done()
	appLogger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// buildStore wires the configured persistence backend behind the GameStore
// and Pinger contracts. The returned closer is safe to call once.
func buildStore(ctx context.Context, cfg *config.Config, appLogger *zerolog.Logger) (repository.GameStore, handler.Pinger, func(), error) {
	switch cfg.Storage.Backend {
	case "postgres":
		pool, err := repository.NewPool(ctx, &cfg.Postgres, appLogger)
		if err != nil {
			return nil, nil, nil, err
		}
		return pgstore.NewGameStore(pool), pgstore.NewPinger(pool), pool.Close, nil
	case "redis":
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		return redisstore.NewGameStore(rdb), redisstore.NewPinger(rdb), func() { _ = rdb.Close() }, nil
	default:
		st := memory.NewGameStore()
		return st, st, func() {}, nil
	}
}
