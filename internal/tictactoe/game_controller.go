package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

// GameController owns the boards of one game and the cursor pointing at the displayed one.
// Status is always derived from the board under the cursor and never stored.
type GameController struct {
	history []entity.Board
	cursor  int
}

func NewGameController() *GameController {
	return &GameController{
		history: []entity.Board{{}},
		cursor:  0,
	}
}

// Restore - rebuilds a controller from a stored snapshot.
func Restore(snapshot entity.Snapshot) (*GameController, error) {
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}

	history := make([]entity.Board, len(snapshot.History))
	copy(history, snapshot.History)

	return &GameController{
		history: history,
		cursor:  snapshot.Cursor,
	}, nil
}

// Play - puts the mark of the player to move into cell and returns the new board.
// Boards after the cursor are dropped.
func (that *GameController) Play(cell int) (entity.Board, error) {
	current := that.Board()

	if err := validateMove(current, cell); err != nil {
		return current, fmt.Errorf("%w: %w", apperror.ErrIllegalMove, err)
	}

	next := current.Place(cell, entity.NextPlayer(that.cursor))

	that.history = append(that.history[:that.cursor+1], next)
	that.cursor = len(that.history) - 1

	return next, nil
}

// Undo - steps the cursor back one ply. History is kept until the next Play.
func (that *GameController) Undo() error {
	if that.cursor == 0 {
		return apperror.ErrNoMoveToUndo
	}

	that.cursor--

	return nil
}

// Reset - drops all history and returns to the empty board.
func (that *GameController) Reset() {
	that.history = []entity.Board{{}}
	that.cursor = 0
}

func (that *GameController) Status() entity.StatusView {
	return entity.NewStatusView(that.Board(), that.cursor)
}

func (that *GameController) Board() entity.Board {
	return that.history[that.cursor]
}

func (that *GameController) Cursor() int {
	return that.cursor
}

func (that *GameController) HistoryLen() int {
	return len(that.history)
}

func (that *GameController) Snapshot() entity.Snapshot {
	history := make([]entity.Board, len(that.history))
	copy(history, that.history)

	return entity.Snapshot{
		History: history,
		Cursor:  that.cursor,
	}
}

// validateMove - checks if the move is valid.
func validateMove(board entity.Board, cell int) error {
	if err := entity.ValidateCell(cell); err != nil {
		return fmt.Errorf("cell %d: %w", cell, err)
	}

	if board.IsFinished() {
		return ErrGameFinished
	}

	if board[cell] != entity.EmptyCell {
		return fmt.Errorf("cell %d: %w", cell, ErrCellOccupied)
	}

	return nil
}
