package tictactoe

import "errors"

var (
	ErrCellOccupied = errors.New("cell is already occupied")
	ErrGameFinished = errors.New("game is already finished")
)
