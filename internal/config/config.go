package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

type Config struct {
	LogLevel        string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort        string        `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort      string        `yaml:"socket-port" env:"SOCKET_PORT" env-default:"8080"`
	Storage         string        `yaml:"storage" env:"STORAGE" env-default:"redis"`
	Redis           Redis         `yaml:"redis"`
	FinishedGameTTL time.Duration `yaml:"finished-game-ttl" env:"FINISHED_GAME_TTL" env-default:"24h"`
	LockShards      int           `yaml:"lock-shards" env:"LOCK_SHARDS" env-default:"256"`
}

type Redis struct {
	Host    string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	DB      int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
	Channel string `yaml:"channel" env:"REDIS_CHANNEL" env-default:"battlefun:out"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Load - reads path, then applies environment overrides and defaults.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if config.Storage != StorageRedis && config.Storage != StorageMemory {
		return nil, fmt.Errorf("unknown storage %q, want %q or %q", config.Storage, StorageRedis, StorageMemory)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
