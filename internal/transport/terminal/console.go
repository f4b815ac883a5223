package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/glass-water-star/tictactoe/internal/apperror"
	"github.com/glass-water-star/tictactoe/internal/entity"
)

const (
	quitToken   = "e"
	replayToken = "y"

	boardBorder = " - - -"
)

// Move is one parsed human input line.
type Move struct {
	Row  int
	Col  int
	Quit bool
}

type line struct {
	text string
	err  error
}

// Console reads player input line by line and draws the game as text.
type Console struct {
	lines chan line
	out   io.Writer
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	console := &Console{
		lines: make(chan line),
		out:   out,
	}

	go console.scan(in)

	return console
}

// scan feeds lines to readers one at a time so that a pending read can be
// abandoned on context cancellation without losing input. The channel is
// closed once the input ends.
func (that *Console) scan(in io.Reader) {
	defer close(that.lines)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		that.lines <- line{text: scanner.Text()}
	}

	if err := scanner.Err(); err != nil {
		that.lines <- line{err: err}
	}
}

func (that *Console) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-that.lines:
		if !ok {
			return "", apperror.ErrInputClosed
		}

		if l.err != nil {
			return "", fmt.Errorf("failed to read line: %w", l.err)
		}

		return strings.TrimSpace(l.text), nil
	}
}

// ReadMark greets the player and asks for X or O. The answer is not validated,
// anything but X is announced as O.
func (that *Console) ReadMark(ctx context.Context) (entity.Mark, error) {
	that.println("Lets Play Tic Tac Toe!")
	that.println("Do you want to be X or O?")

	text, err := that.readLine(ctx)
	if err != nil {
		return entity.Empty, fmt.Errorf("failed to read mark: %w", err)
	}

	mark := entity.Mark(text)
	if mark == entity.X {
		that.println("You are X and will go first")
	} else {
		that.println("You are O and will go second")
	}

	return mark, nil
}

// ReadMove asks for "row, column" or the quit token.
func (that *Console) ReadMove(ctx context.Context) (Move, error) {
	that.println("Please input your move in the format: row, column")

	text, err := that.readLine(ctx)
	if err != nil {
		return Move{}, fmt.Errorf("failed to read move: %w", err)
	}

	tokens := strings.Split(text, ",")
	if tokens[0] == quitToken {
		return Move{Quit: true}, nil
	}

	that.println("checking...")

	return ParseMove(tokens)
}

// ParseMove turns the comma separated tokens of a move line into board indexes.
func ParseMove(tokens []string) (Move, error) {
	if len(tokens) != 2 {
		return Move{}, fmt.Errorf("%w: expected row and column, got %d tokens", apperror.ErrMalformedMove, len(tokens))
	}

	row, err := parseIndex(tokens[0])
	if err != nil {
		return Move{}, fmt.Errorf("row: %w", err)
	}

	col, err := parseIndex(tokens[1])
	if err != nil {
		return Move{}, fmt.Errorf("column: %w", err)
	}

	return Move{Row: row, Col: col}, nil
}

func parseIndex(token string) (int, error) {
	token = strings.TrimSpace(token)

	n, err := strconv.ParseUint(token, 10, 0)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a non-negative integer", apperror.ErrMalformedMove, token)
	}

	if n >= entity.BoardSize {
		return 0, fmt.Errorf("%w: %d", apperror.ErrMoveOutOfRange, n)
	}

	return int(n), nil
}

func (that *Console) RenderBoard(board entity.Board) {
	var sb strings.Builder

	sb.WriteString("Current Board:\n")
	sb.WriteString(boardBorder + "\n")

	for _, row := range board {
		sb.WriteString("|")
		for _, cell := range row {
			sb.WriteString(cell.String())
			sb.WriteString("|")
		}
		sb.WriteString("\n" + boardBorder + "\n")
	}

	that.printf("%s", sb.String())
}

func (that *Console) RejectMove() {
	that.println("Invalid move, please try again")
}

func (that *Console) AnnounceComputerTurn() {
	that.println("Computer's turn")
}

func (that *Console) ShowResult(result entity.Result, score entity.Score) {
	that.println("Game Over!")
	that.printf("Result: %s\n", result)
	that.printf("Score: %d win(s), %d loss(es), %d draw(s)\n", score.Wins, score.Losses, score.Draws)
}

// AskReplay reports whether the player answered "y". Closed input means no.
func (that *Console) AskReplay(ctx context.Context) (bool, error) {
	that.println("Would you like to play again? (y/n)")

	text, err := that.readLine(ctx)
	if errors.Is(err, apperror.ErrInputClosed) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	return text == replayToken, nil
}

func (that *Console) println(s string) {
	_, _ = fmt.Fprintln(that.out, s)
}

func (that *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(that.out, format, args...)
}
