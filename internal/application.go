package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/tictactoe-local/internal/config"
	"github.com/rocketscienceinc/tictactoe-local/internal/repository"
	"github.com/rocketscienceinc/tictactoe-local/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-local/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-local/transport/rest"
	"github.com/rocketscienceinc/tictactoe-local/transport/websocket"
)

const reapInterval = time.Minute

// RunApp - runs the HTTP process until SIGINT or SIGTERM.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	sessionRepo, closeRepo, err := newSessionRepository(ctx, logger, conf)
	if err != nil {
		return err
	}

	defer closeRepo()

	gameManager := usecase.NewGameManager(logger, sessionRepo)
	wsServer := websocket.New(ctx, logger, gameManager)
	router := rest.NewRouter(logger, gameManager, wsServer, conf.PublicURL)

	log.Info("Starting HTTP server", "port", conf.HTTPPort, "session_store", conf.SessionStore)
	if err = rest.Start(ctx, conf.HTTPPort, router); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

// newSessionRepository - builds the configured store and the function that releases it.
func newSessionRepository(
	ctx context.Context,
	logger *slog.Logger,
	conf *config.Config,
) (repository.SessionRepository, func(), error) {
	log := logger.With("component", "app")

	if conf.SessionStore == config.SessionStoreRedis {
		redisStorage, err := storage.NewRedis(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		return repository.NewSessionRepository(redisStorage, conf.SessionTTL), func() {
			if closeErr := redisStorage.Close(); closeErr != nil {
				log.Error("could not close redis storage", "error", closeErr)
			}
		}, nil
	}

	memory := repository.NewMemorySessionRepository(conf.SessionTTL)
	go reapSessions(ctx, log, memory)

	return memory, func() {}, nil
}

// reapSessions - drops expired in-memory sessions until ctx is done.
func reapSessions(ctx context.Context, log *slog.Logger, memory *repository.MemorySessionRepository) {
	ticker := time.NewTicker(reapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if reaped := memory.Reap(); reaped > 0 {
				log.Debug("expired sessions removed", "count", reaped)
			}
		}
	}
}
