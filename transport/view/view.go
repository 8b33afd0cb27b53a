package view

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

// Cell is one square as the page renders it.
type Cell struct {
	Index     int         `json:"index"`
	Value     entity.Mark `json:"value"`
	Label     string      `json:"label"`
	Disabled  bool        `json:"disabled"`
	Highlight bool        `json:"highlight"`
}

// Game is a StatusView plus the texts and control states the page shows.
type Game struct {
	entity.StatusView

	Headline string `json:"headline"`
	Subline  string `json:"subline"`
	Moves    int    `json:"moves"`
	CanUndo  bool   `json:"can_undo"`
	CanReset bool   `json:"can_reset"`
	Cells    []Cell `json:"cells"`
}

func New(status entity.StatusView) *Game {
	game := &Game{
		StatusView: status,
		Headline:   headline(status),
		Subline:    subline(status),
		Moves:      status.MoveCount,
		CanUndo:    status.MoveCount > 0,
		CanReset:   status.MoveCount > 0 || status.IsFinished,
		Cells:      make([]Cell, 0, entity.BoardSize),
	}

	highlighted := make(map[int]bool, len(status.WinningLine))
	for _, cell := range status.WinningLine {
		highlighted[cell] = true
	}

	for i, mark := range status.Board {
		game.Cells = append(game.Cells, Cell{
			Index:     i,
			Value:     mark,
			Label:     cellLabel(i, mark),
			Disabled:  mark != entity.EmptyCell || status.IsFinished,
			Highlight: highlighted[i],
		})
	}

	return game
}

func headline(status entity.StatusView) string {
	switch {
	case status.Winner != entity.EmptyCell:
		return fmt.Sprintf("Winner: %s", status.Winner)
	case status.IsDraw:
		return "Draw Game"
	default:
		return fmt.Sprintf("Next Turn: %s", status.NextPlayer)
	}
}

func subline(status entity.StatusView) string {
	switch {
	case status.Winner != entity.EmptyCell:
		return "Great game! Press reset to play again."
	case status.IsDraw:
		return "Nobody wins this time. Try a rematch!"
	case status.NextPlayer == entity.PlayerX:
		return "Player X goes first"
	default:
		return "Player O to move"
	}
}

func cellLabel(index int, mark entity.Mark) string {
	if mark == entity.EmptyCell {
		return fmt.Sprintf("Cell %d, empty", index+1)
	}

	return fmt.Sprintf("Cell %d, %s", index+1, mark)
}
