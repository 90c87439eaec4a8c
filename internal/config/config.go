package config

import (
	"github.com/courtclock/game-session-service/internal/logger"
	"github.com/courtclock/game-session-service/internal/repository"
)

// AppConfig identifies the process and where it listens.
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env"`
	Port    int    `mapstructure:"port"`
}

// StorageConfig selects the GameStore backend.
type StorageConfig struct {
	Backend string `mapstructure:"backend" validate:"oneof=memory postgres redis"`
}

// RedisConfig carries connection settings for the redis backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// GameConfig holds the defaults applied when a game is created without
// explicit structure: how many periods and how long each runs.
type GameConfig struct {
	Periods      int `mapstructure:"periods" validate:"min=1,max=4"`
	PeriodLength int `mapstructure:"period_length" validate:"oneof=10 20"`
}

type Config struct {
	App      AppConfig                 `mapstructure:"app"`
	Logger   logger.LoggerConfig       `mapstructure:"logger"`
	Storage  StorageConfig             `mapstructure:"storage"`
	Postgres repository.PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig               `mapstructure:"redis"`
	Game     GameConfig                `mapstructure:"game"`
}
