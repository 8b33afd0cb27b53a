package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
)

// Snapshot is the stored form of one session's game: every board reached so far and the
// index of the displayed one.
type Snapshot struct {
	History []Board `json:"history"`
	Cursor  int     `json:"cursor"`
}

// Validate - checks that the snapshot could have been produced by legal alternating play.
func (that *Snapshot) Validate() error {
	if len(that.History) == 0 {
		return fmt.Errorf("%w: empty history", apperror.ErrCorruptedSnapshot)
	}

	if that.Cursor < 0 || that.Cursor >= len(that.History) {
		return fmt.Errorf("%w: cursor %d out of range [0, %d)", apperror.ErrCorruptedSnapshot, that.Cursor, len(that.History))
	}

	if !that.History[0].IsEmpty() {
		return fmt.Errorf("%w: first board is not empty", apperror.ErrCorruptedSnapshot)
	}

	for ply := 1; ply < len(that.History); ply++ {
		prev, next := that.History[ply-1], that.History[ply]

		if err := next.Validate(); err != nil {
			return fmt.Errorf("%w: board %d: %w", apperror.ErrCorruptedSnapshot, ply, err)
		}

		if prev.IsFinished() {
			return fmt.Errorf("%w: board %d follows a finished board", apperror.ErrCorruptedSnapshot, ply)
		}

		if !isSinglePly(prev, next, NextPlayer(ply-1)) {
			return fmt.Errorf("%w: board %d is not one %s move after board %d", apperror.ErrCorruptedSnapshot, ply, NextPlayer(ply-1), ply-1)
		}
	}

	return nil
}

func isSinglePly(prev, next Board, mark Mark) bool {
	changed := 0

	for i := range prev {
		if prev[i] == next[i] {
			continue
		}

		if prev[i] != EmptyCell || next[i] != mark {
			return false
		}

		changed++
	}

	return changed == 1
}
