package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/internal/repository"
	mockedUseCase "github.com/rocketscienceinc/tictactoe-local/mocks/usecase"
)

var (
	errRedisDown     = errors.New("redis down")
	errStorageIsFull = errors.New("storage is full")
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func snapshotOf(cells ...int) *entity.Snapshot {
	history := []entity.Board{{}}
	for ply, cell := range cells {
		history = append(history, history[ply].Place(cell, entity.NextPlayer(ply)))
	}

	return &entity.Snapshot{History: history, Cursor: len(cells)}
}

func TestGameManager_State(t *testing.T) {
	ctx := context.Background()

	t.Run("Unknown session sees a new game", func(t *testing.T) {
		// Given: a repository without the session
		mockSessionRepo := mockedUseCase.NewMocksessionRepo(t)
		manager := NewGameManager(newTestLogger(), mockSessionRepo)

		mockSessionRepo.EXPECT().
			GetByID(mock.Anything, "s1").
			Return((*entity.Snapshot)(nil), apperror.ErrSessionNotFound).
			Once()

		// When: reading the state
		view, err := manager.State(ctx, "s1")

		// Then: it is the empty board with X to move, and nothing is saved
		require.NoError(t, err)
		assert.Equal(t, entity.NewStatusView(entity.Board{}, 0), view)
	})

	t.Run("Stored session is restored", func(t *testing.T) {
		// Given: a stored game with two moves
		mockSessionRepo := mockedUseCase.NewMocksessionRepo(t)
		manager := NewGameManager(newTestLogger(), mockSessionRepo)

		mockSessionRepo.EXPECT().
			GetByID(mock.Anything, "s1").
			Return(snapshotOf(4, 0), nil).
			Once()

		// When: reading the state
		view, err := manager.State(ctx, "s1")

		// Then: the displayed board is the stored one
		require.NoError(t, err)
		assert.Equal(t, 2, view.MoveCount)
		assert.Equal(t, entity.PlayerX, view.Board[4])
		assert.Equal(t, entity.PlayerO, view.Board[0])
	})

	t.Run("Corrupted session starts over", func(t *testing.T) {
		// Given: a stored snapshot that breaks the rules
		mockSessionRepo := mockedUseCase.NewMocksessionRepo(t)
		manager := NewGameManager(newTestLogger(), mockSessionRepo)

		mockSessionRepo.EXPECT().
			GetByID(mock.Anything, "s1").
			Return(&entity.Snapshot{History: []entity.Board{{}}, Cursor: 5}, nil).
			Once()

		// When: reading the state
		view, err := manager.State(ctx, "s1")

		// Then: a new game is shown
		require.NoError(t, err)
		assert.Zero(t, view.MoveCount)
	})

	t.Run("Returns error if sessionRepo.GetByID fails", func(t *testing.T) {
		// Given: a repository that is down
		mockSessionRepo := mockedUseCase.NewMocksessionRepo(t)
		manager := NewGameManager(newTestLogger(), mockSessionRepo)

		mockSessionRepo.EXPECT().
			GetByID(mock.Anything, "s1").
			Return((*entity.Snapshot)(nil), errRedisDown).
			Once()

		// When: reading the state
		_, err := manager.State(ctx, "s1")

		// Then: the error is passed on
		require.ErrorIs(t, err, errRedisDown)
	})
}

func TestGameManager_Play(t *testing.T) {
	ctx := context.Background()

	t.Run("Saves the game after a legal move", func(t *testing.T) {
		// Given: a session with one move
		mockSessionRepo := mockedUseCase.NewMocksessionRepo(t)
		manager := NewGameManager(newTestLogger(), mockSessionRepo)

		mockSessionRepo.EXPECT().
			GetByID(mock.Anything, "s1").
			Return(snapshotOf(4), nil).
			Once()

		mockSessionRepo.EXPECT().
			Save(mock.Anything, "s1", snapshotOf(4, 0)).
			Return(nil).
			Once()

		// When: O plays cell 0
		view, err := manager.Play(ctx, "s1", 0)

		// Then: the new view is returned
		require.NoError(t, err)
		assert.Equal(t, 2, view.MoveCount)
		assert.Equal(t, entity.PlayerX, view.NextPlayer)
	})

	t.Run("Rejected move returns the unchanged view and saves nothing", func(t *testing.T) {
		// Given: a session where cell 4 is taken
		mockSessionRepo := mockedUseCase.NewMocksessionRepo(t)
		manager := NewGameManager(newTestLogger(), mockSessionRepo)

		mockSessionRepo.EXPECT().
			GetByID(mock.Anything, "s1").
			Return(snapshotOf(4), nil).
			Once()

		// When: O plays cell 4
		view, err := manager.Play(ctx, "s1", 4)

		// Then: the move is illegal and the view is unchanged
		require.ErrorIs(t, err, apperror.ErrIllegalMove)
		assert.Equal(t, 1, view.MoveCount)
		assert.Equal(t, entity.PlayerO, view.NextPlayer)
	})

	t.Run("Returns error if sessionRepo.Save fails", func(t *testing.T) {
		// Given: a repository that cannot store
		mockSessionRepo := mockedUseCase.NewMocksessionRepo(t)
		manager := NewGameManager(newTestLogger(), mockSessionRepo)

		mockSessionRepo.EXPECT().
			GetByID(mock.Anything, "s1").
			Return((*entity.Snapshot)(nil), apperror.ErrSessionNotFound).
			Once()

		mockSessionRepo.EXPECT().
			Save(mock.Anything, "s1", mock.AnythingOfType("*entity.Snapshot")).
			Return(errStorageIsFull).
			Once()

		// When: X plays
		_, err := manager.Play(ctx, "s1", 0)

		// Then: the storage error is returned
		require.ErrorIs(t, err, errStorageIsFull)
	})
}

func TestGameManager_Undo(t *testing.T) {
	ctx := context.Background()

	t.Run("Undo keeps the undone board in history", func(t *testing.T) {
		// Given: a session with two moves
		mockSessionRepo := mockedUseCase.NewMocksessionRepo(t)
		manager := NewGameManager(newTestLogger(), mockSessionRepo)

		mockSessionRepo.EXPECT().
			GetByID(mock.Anything, "s1").
			Return(snapshotOf(4, 0), nil).
			Once()

		expected := snapshotOf(4, 0)
		expected.Cursor = 1
		mockSessionRepo.EXPECT().
			Save(mock.Anything, "s1", expected).
			Return(nil).
			Once()

		// When: undoing
		view, err := manager.Undo(ctx, "s1")

		// Then: the cursor moved back and O is to move
		require.NoError(t, err)
		assert.Equal(t, 1, view.MoveCount)
		assert.Equal(t, entity.PlayerO, view.NextPlayer)
	})

	t.Run("Nothing to undo on a new game", func(t *testing.T) {
		// Given: an unknown session
		mockSessionRepo := mockedUseCase.NewMocksessionRepo(t)
		manager := NewGameManager(newTestLogger(), mockSessionRepo)

		mockSessionRepo.EXPECT().
			GetByID(mock.Anything, "s1").
			Return((*entity.Snapshot)(nil), apperror.ErrSessionNotFound).
			Once()

		// When: undoing
		_, err := manager.Undo(ctx, "s1")

		// Then: ErrNoMoveToUndo is returned
		require.ErrorIs(t, err, apperror.ErrNoMoveToUndo)
	})
}

func TestGameManager_Reset(t *testing.T) {
	ctx := context.Background()

	// Given: a finished session
	mockSessionRepo := mockedUseCase.NewMocksessionRepo(t)
	manager := NewGameManager(newTestLogger(), mockSessionRepo)

	mockSessionRepo.EXPECT().
		GetByID(mock.Anything, "s1").
		Return(snapshotOf(0, 3, 1, 4, 2), nil).
		Once()

	mockSessionRepo.EXPECT().
		Save(mock.Anything, "s1", snapshotOf()).
		Return(nil).
		Once()

	// When: resetting
	view, err := manager.Reset(ctx, "s1")

	// Then: a new game is stored and shown
	require.NoError(t, err)
	assert.Equal(t, entity.NewStatusView(entity.Board{}, 0), view)
}

func TestGameManager_WithMemoryRepository(t *testing.T) {
	ctx := context.Background()
	manager := NewGameManager(newTestLogger(), repository.NewMemorySessionRepository(time.Hour))

	t.Run("Sessions are isolated", func(t *testing.T) {
		// When: two sessions play different cells
		_, err := manager.Play(ctx, "a", 0)
		require.NoError(t, err)
		_, err = manager.Play(ctx, "b", 8)
		require.NoError(t, err)

		// Then: each sees only its own move
		viewA, err := manager.State(ctx, "a")
		require.NoError(t, err)
		viewB, err := manager.State(ctx, "b")
		require.NoError(t, err)

		assert.Equal(t, entity.PlayerX, viewA.Board[0])
		assert.Equal(t, entity.EmptyCell, viewA.Board[8])
		assert.Equal(t, entity.PlayerX, viewB.Board[8])
		assert.Equal(t, entity.EmptyCell, viewB.Board[0])
	})

	t.Run("Concurrent intents on one session are serialised", func(t *testing.T) {
		// When: nine goroutines each try to claim a different cell of the same session
		var wg sync.WaitGroup
		for cell := range entity.BoardSize {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = manager.Play(ctx, "race", cell)
			}()
		}
		wg.Wait()

		// Then: the stored game is consistent with alternating play
		view, err := manager.State(ctx, "race")
		require.NoError(t, err)

		xCount, oCount := 0, 0
		for _, cell := range view.Board {
			switch cell {
			case entity.PlayerX:
				xCount++
			case entity.PlayerO:
				oCount++
			}
		}
		assert.Equal(t, view.MoveCount, xCount+oCount, fmt.Sprintf("board %v", view.Board))
		assert.Contains(t, []int{0, 1}, xCount-oCount)
		assert.Zero(t, manager.locks.size())
	})
}
