package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-local/transport/view"
)

const help = `cells are numbered 1-9, left to right, top to bottom
  1-9   play the cell
  u     undo the last move
  r     start over
  q     quit
`

var ErrUnknownCommand = errors.New("unknown command")

// Console is a hot-seat game on a terminal: both players type into the same input.
type Console struct {
	in   *bufio.Scanner
	out  io.Writer
	game *tictactoe.GameController
}

func New(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:   bufio.NewScanner(in),
		out:  out,
		game: tictactoe.NewGameController(),
	}
}

// Run - reads commands until quit, end of input or ctx is done.
// Input is read on its own goroutine so a cancelled ctx ends Run while it waits for a line.
func (that *Console) Run(ctx context.Context) error {
	fmt.Fprint(that.out, help)
	that.render()

	done := make(chan struct{})
	defer close(done)

	lines, readErr := that.readLines(done)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(that.out, "> ")

		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case next, ok := <-lines:
			if !ok {
				return <-readErr
			}
			line = next
		}

		quit, err := that.execute(strings.TrimSpace(line))
		if quit {
			return nil
		}

		if err != nil {
			fmt.Fprintf(that.out, "! %v\n", err)
			continue
		}

		that.render()
	}
}

// readLines - scans input until it ends or done is closed. The error channel receives the
// scanner's error once lines is closed.
func (that *Console) readLines(done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	errCh := make(chan error, 1)

	go func() {
		defer close(lines)

		for that.in.Scan() {
			select {
			case lines <- that.in.Text():
			case <-done:
				return
			}
		}

		errCh <- that.in.Err()
	}()

	return lines, errCh
}

func (that *Console) execute(command string) (bool, error) {
	switch strings.ToLower(command) {
	case "q", "quit", "exit":
		return true, nil
	case "u", "undo":
		return false, that.game.Undo()
	case "r", "reset":
		that.game.Reset()
		return false, nil
	case "h", "help", "?":
		fmt.Fprint(that.out, help)
		return false, nil
	}

	number, err := strconv.Atoi(command)
	if err != nil {
		return false, fmt.Errorf("%w: %q", ErrUnknownCommand, command)
	}

	// cells are shown 1-based like the page labels them
	if _, err = that.game.Play(number - 1); err != nil {
		if errors.Is(err, entity.ErrInvalidCell) {
			return false, fmt.Errorf("%w: pick a cell from 1 to 9", apperror.ErrIllegalMove)
		}

		return false, err
	}

	return false, nil
}

func (that *Console) render() {
	game := view.New(that.game.Status())

	var sb strings.Builder
	sb.WriteString("\n")

	for row := range 3 {
		if row > 0 {
			sb.WriteString("---+---+---\n")
		}

		cells := make([]string, 0, 3)
		for col := range 3 {
			cells = append(cells, cellText(game.Cells[row*3+col]))
		}

		sb.WriteString(" " + strings.Join(cells, " | ") + "\n")
	}

	fmt.Fprintf(&sb, "\n%s. %s (moves: %d)\n", game.Headline, game.Subline, game.Moves)

	fmt.Fprint(that.out, sb.String())
}

func cellText(cell view.Cell) string {
	if cell.Value == entity.EmptyCell {
		return strconv.Itoa(cell.Index + 1)
	}

	return string(cell.Value)
}
