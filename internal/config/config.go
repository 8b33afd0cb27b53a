package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

var (
	ErrUnknownLogLevel     = errors.New("unknown log level")
	ErrUnknownSessionStore = errors.New("unknown session store")
	ErrInvalidSessionTTL   = errors.New("session ttl must be positive")
)

type Config struct {
	LogLevel     string        `yaml:"log-level" env:"TICTACTOE_LOG_LEVEL" env-default:"info"`
	HTTPPort     string        `yaml:"http-port" env:"TICTACTOE_HTTP_PORT" env-default:"9090"`
	PublicURL    string        `yaml:"public-url" env:"TICTACTOE_PUBLIC_URL"`
	SessionTTL   time.Duration `yaml:"session-ttl" env:"TICTACTOE_SESSION_TTL" env-default:"24h"`
	SessionStore string        `yaml:"session-store" env:"TICTACTOE_SESSION_STORE" env-default:"memory"`
	Redis        Redis         `yaml:"redis" env-prefix:"TICTACTOE_REDIS_"`
}

type Redis struct {
	Host string `yaml:"host" env:"HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"PORT" env-default:"6379"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// Load - reads path, or only the environment when path is empty, and validates the result.
func Load(path string) (*Config, error) {
	config := &Config{}

	var err error
	if path == "" {
		err = cleanenv.ReadEnv(config)
	} else {
		err = cleanenv.ReadConfig(path, config)
	}

	if err != nil {
		return nil, err
	}

	if err = config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) Validate() error {
	if _, err := that.SlogLevel(); err != nil {
		return err
	}

	switch that.SessionStore {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSessionStore, that.SessionStore)
	}

	if that.SessionTTL <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSessionTTL, that.SessionTTL)
	}

	return nil
}

func (that *Config) SlogLevel() (slog.Level, error) {
	switch that.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLogLevel, that.LogLevel)
	}
}

func (that *Redis) GetRedisAddr() string {
	return net.JoinHostPort(that.Host, that.Port)
}
