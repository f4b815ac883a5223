package entity

import (
	"errors"
	"fmt"

	"github.com/glass-water-star/tictactoe/internal/apperror"
)

// Mark is the symbol occupying a board cell. Any string is accepted as a human
// mark, only X and O take part in detection. Empty is a single blank so that
// no trimmed input line can stand for a free cell.
type Mark string

const (
	Empty Mark = " "
	X     Mark = "X"
	O     Mark = "O"
)

func (that Mark) String() string {
	return string(that)
}

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusOver       Status = "over"
)

type Result string

const (
	Win  Result = "Win"
	Lose Result = "Lose"
	Draw Result = "Draw"
)

func (that Result) String() string {
	return string(that)
}

const BoardSize = 3

// Board is a row-major 3x3 grid. The zero value is not a free board, use NewBoard.
type Board [BoardSize][BoardSize]Mark

func NewBoard() Board {
	var board Board
	for i := range BoardSize {
		for j := range BoardSize {
			board[i][j] = Empty
		}
	}

	return board
}

var (
	ErrInvalidCell = errors.New("invalid cell index")

	// detectionWindow holds the per-axis offsets scanned around every origin cell.
	detectionWindow = [...]int{-2, -1, 0, 1, 2}
)

// matchesToFinish is the number of equal neighbours an origin cell needs.
const matchesToFinish = 3

type Game struct {
	ID           string `json:"id,omitempty"`
	Board        Board  `json:"board"`
	Turn         Player `json:"player_turn"`
	Status       Status `json:"status"`
	Result       Result `json:"result"`
	HumanMark    Mark   `json:"human_mark"`
	ComputerMark Mark   `json:"computer_mark"`
	Winner       Player `json:"winner"`
	Moves        int    `json:"moves"`
}

// NewGame starts a session for the human playing humanMark. The computer takes
// O when the human picked exactly X and X otherwise.
func NewGame(humanMark Mark) *Game {
	computerMark := X
	if humanMark == X {
		computerMark = O
	}

	return &Game{
		Board:        NewBoard(),
		Turn:         Human,
		Status:       StatusInProgress,
		Result:       Draw,
		HumanMark:    humanMark,
		ComputerMark: computerMark,
		Winner:       Human,
	}
}

// MakeTurn places the human mark at row, col. An occupied cell is rejected
// and leaves the game untouched.
func (that *Game) MakeTurn(row, col int) error {
	if err := that.validateMove(Human, row, col); err != nil {
		return err
	}

	that.place(row, col, that.HumanMark)

	if that.CheckWinner() || that.stopWhenFull() {
		return nil
	}

	that.Turn = Computer

	return nil
}

// PlaceComputerMark places the computer mark at row, col and hands the turn
// back to the human.
func (that *Game) PlaceComputerMark(row, col int) error {
	if err := that.validateMove(Computer, row, col); err != nil {
		return err
	}

	that.place(row, col, that.ComputerMark)

	if !that.CheckWinner() {
		that.stopWhenFull()
	}

	that.Turn = Human

	return nil
}

// Quit ends the session without touching the board or the result.
func (that *Game) Quit() {
	that.Status = StatusOver
}

// CheckWinner scans every origin cell and counts the neighbours inside the
// ±2 window that carry the same mark. Counters start fresh per origin. The
// first origin reaching three matches finishes the game: Win for X, Lose for O,
// with the player to move recorded as winner.
func (that *Game) CheckWinner() bool {
	for i := range BoardSize {
		for j := range BoardSize {
			origin := that.Board[i][j]

			var xs, os int
			for _, m := range detectionWindow {
				for _, n := range detectionWindow {
					if m == 0 && n == 0 {
						continue
					}

					im, jn := i+m, j+n
					if !inBounds(im, jn) {
						continue
					}

					if origin == that.Board[im][jn] {
						switch origin {
						case X:
							xs++
						case O:
							os++
						}
					}

					if xs == matchesToFinish {
						that.finish(Win)
						return true
					}

					if os == matchesToFinish {
						that.finish(Lose)
						return true
					}
				}
			}
		}
	}

	return false
}

func (that *Game) IsOver() bool {
	return that.Status == StatusOver
}

func (that *Game) IsInProgress() bool {
	return that.Status == StatusInProgress
}

// IsEmptyCell reports whether row, col is on the board and free.
func (that *Game) IsEmptyCell(row, col int) bool {
	return inBounds(row, col) && that.Board[row][col] == Empty
}

// FirstEmptyCell returns the first free cell in row-major order.
func (that *Game) FirstEmptyCell() (int, int, bool) {
	for i := range BoardSize {
		for j := range BoardSize {
			if that.Board[i][j] == Empty {
				return i, j, true
			}
		}
	}

	return 0, 0, false
}

func (that *Game) IsBoardFull() bool {
	_, _, ok := that.FirstEmptyCell()
	return !ok
}

// Snapshot returns a copy of the board for rendering.
func (that *Game) Snapshot() Board {
	return that.Board
}

func (that *Game) validateMove(player Player, row, col int) error {
	if that.IsOver() {
		return apperror.ErrGameFinished
	}

	if !inBounds(row, col) {
		return fmt.Errorf("%w: cell %d,%d", ErrInvalidCell, row, col)
	}

	if that.Turn != player {
		return apperror.ErrNotYourTurn
	}

	if that.Board[row][col] != Empty {
		return apperror.ErrCellOccupied
	}

	return nil
}

func (that *Game) place(row, col int, mark Mark) {
	that.Board[row][col] = mark
	that.Moves++
}

func (that *Game) finish(result Result) {
	that.Winner = that.Turn
	that.Status = StatusOver
	that.Result = result
}

// stopWhenFull ends a game whose board has no free cell left. The result keeps
// its Draw default.
func (that *Game) stopWhenFull() bool {
	if !that.IsBoardFull() {
		return false
	}

	that.Status = StatusOver

	return true
}

func inBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}
