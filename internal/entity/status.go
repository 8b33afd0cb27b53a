package entity

// StatusView is everything the presentation layer needs to render one board.
type StatusView struct {
	Board       Board `json:"board"`
	Winner      Mark  `json:"winner"`
	WinningLine []int `json:"winning_line,omitempty"`
	IsDraw      bool  `json:"is_draw"`
	IsFinished  bool  `json:"is_finished"`
	NextPlayer  Mark  `json:"next_player"`
	MoveCount   int   `json:"move_count"`
}

// NewStatusView derives the view of board, reached after cursor plies.
func NewStatusView(board Board, cursor int) StatusView {
	view := StatusView{
		Board:      board,
		IsDraw:     board.IsDraw(),
		NextPlayer: NextPlayer(cursor),
		MoveCount:  cursor,
	}

	if result, won := board.Winner(); won {
		view.Winner = result.Player
		view.WinningLine = result.Line[:]
	}

	view.IsFinished = view.Winner != EmptyCell || view.IsDraw

	return view
}
