package apperror

import "errors"

var (
	ErrIllegalMove       = errors.New("illegal move")
	ErrNoMoveToUndo      = errors.New("no move to undo")
	ErrSessionNotFound   = errors.New("session not found")
	ErrCorruptedSnapshot = errors.New("corrupted game snapshot")
)
