package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/internal/tictactoe"
)

type sessionRepo interface {
	Save(ctx context.Context, id string, snapshot *entity.Snapshot) error
	GetByID(ctx context.Context, id string) (*entity.Snapshot, error)
}

// GameManager runs the intents of every browser session against that session's game.
// Intents of one session never overlap.
type GameManager struct {
	logger      *slog.Logger
	sessionRepo sessionRepo
	locks       *sessionLocks
}

func NewGameManager(logger *slog.Logger, sessionRepo sessionRepo) *GameManager {
	return &GameManager{
		logger:      logger.With("component", "game_manager"),
		sessionRepo: sessionRepo,
		locks:       newSessionLocks(),
	}
}

// State - returns the view of the session's displayed board; an unknown session sees a new game.
func (that *GameManager) State(ctx context.Context, sessionID string) (entity.StatusView, error) {
	unlock := that.locks.lock(sessionID)
	defer unlock()

	game, err := that.loadGame(ctx, sessionID)
	if err != nil {
		return entity.StatusView{}, err
	}

	return game.Status(), nil
}

func (that *GameManager) Play(ctx context.Context, sessionID string, cell int) (entity.StatusView, error) {
	return that.apply(ctx, sessionID, "play", func(game *tictactoe.GameController) error {
		_, err := game.Play(cell)
		return err
	}, "cell", cell)
}

func (that *GameManager) Undo(ctx context.Context, sessionID string) (entity.StatusView, error) {
	return that.apply(ctx, sessionID, "undo", func(game *tictactoe.GameController) error {
		return game.Undo()
	})
}

func (that *GameManager) Reset(ctx context.Context, sessionID string) (entity.StatusView, error) {
	return that.apply(ctx, sessionID, "reset", func(game *tictactoe.GameController) error {
		game.Reset()
		return nil
	})
}

// apply - loads the session's game, runs intent on it and stores the result.
// A rejected intent returns the unchanged view and stores nothing.
func (that *GameManager) apply(
	ctx context.Context,
	sessionID, intent string,
	run func(game *tictactoe.GameController) error,
	attrs ...any,
) (entity.StatusView, error) {
	log := that.logger.With("method", intent, "session_id", sessionID).With(attrs...)

	unlock := that.locks.lock(sessionID)
	defer unlock()

	game, err := that.loadGame(ctx, sessionID)
	if err != nil {
		return entity.StatusView{}, err
	}

	if err = run(game); err != nil {
		log.Info("intent rejected", "error", err)
		return game.Status(), fmt.Errorf("failed to %s: %w", intent, err)
	}

	snapshot := game.Snapshot()
	if err = that.sessionRepo.Save(ctx, sessionID, &snapshot); err != nil {
		return entity.StatusView{}, fmt.Errorf("failed to save session: %w", err)
	}

	status := game.Status()
	log.Debug("intent applied", "move_count", status.MoveCount, "finished", status.IsFinished)

	return status, nil
}

func (that *GameManager) loadGame(ctx context.Context, sessionID string) (*tictactoe.GameController, error) {
	log := that.logger.With("method", "loadGame", "session_id", sessionID)

	snapshot, err := that.sessionRepo.GetByID(ctx, sessionID)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		return tictactoe.NewGameController(), nil
	}

	if err != nil && !errors.Is(err, apperror.ErrCorruptedSnapshot) {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if err == nil {
		var game *tictactoe.GameController
		if game, err = tictactoe.Restore(*snapshot); err == nil {
			return game, nil
		}
	}

	log.Warn("discarding corrupted session", "error", err)

	return tictactoe.NewGameController(), nil
}
