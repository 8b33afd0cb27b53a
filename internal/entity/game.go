package entity

import (
	"errors"
	"fmt"
)

const (
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
	EmptyCell Mark = ""

	BoardSize = 9
)

var (
	ErrInvalidCell = errors.New("invalid cell index")
	ErrInvalidMark = errors.New("invalid mark")

	// WinCombos lists the winning lines in the order they are checked:
	// rows top to bottom, columns left to right, then both diagonals.
	WinCombos = [8][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

// Mark is the content of a single cell.
type Mark string

func (that Mark) IsValid() bool {
	return that == EmptyCell || that == PlayerX || that == PlayerO
}

// Board is a 3x3 grid stored row-major.
type Board [BoardSize]Mark

// WinResult is the player owning the first complete line and the line itself.
type WinResult struct {
	Player Mark
	Line   [3]int
}

// ValidateCell - checks that cell addresses a square of the board.
func ValidateCell(cell int) error {
	if cell < 0 || cell >= BoardSize {
		return ErrInvalidCell
	}

	return nil
}

// NextPlayer - X moves on even plies, O on odd ones.
func NextPlayer(cursor int) Mark {
	if cursor%2 == 0 {
		return PlayerX
	}
	return PlayerO
}

func (that Board) Winner() (WinResult, bool) {
	for _, combo := range WinCombos {
		a, b, c := that[combo[0]], that[combo[1]], that[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return WinResult{Player: a, Line: combo}, true
		}
	}

	return WinResult{}, false
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

func (that Board) IsDraw() bool {
	if !that.IsFull() {
		return false
	}

	_, won := that.Winner()
	return !won
}

func (that Board) IsFinished() bool {
	if _, won := that.Winner(); won {
		return true
	}

	return that.IsDraw()
}

func (that Board) IsEmpty() bool {
	return that == Board{}
}

// Place returns a copy of the board with mark written into cell.
func (that Board) Place(cell int, mark Mark) Board {
	that[cell] = mark
	return that
}

// Validate - checks that every cell holds a known mark.
func (that Board) Validate() error {
	for i, cell := range that {
		if !cell.IsValid() {
			return fmt.Errorf("%w %q in cell %d", ErrInvalidMark, cell, i)
		}
	}

	return nil
}
