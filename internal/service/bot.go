package service

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/glass-water-star/tictactoe/internal/apperror"
	"github.com/glass-water-star/tictactoe/internal/entity"
)

var ErrNoAvailableMoves = errors.New("no available moves")

// Source draws a uniform integer in [0, n).
type Source interface {
	IntN(n int) int
}

type BotService interface {
	MakeTurn(game *entity.Game) error
}

type botService struct {
	logger      *slog.Logger
	source      Source
	retryBudget int
}

// NewBotService returns a computer player drawing row and column from source.
// After retryBudget collisions with occupied cells it takes the first free cell.
func NewBotService(logger *slog.Logger, source Source, retryBudget int) BotService {
	if retryBudget < 0 {
		retryBudget = 0
	}

	return &botService{
		logger:      logger.With("component", "bot"),
		source:      source,
		retryBudget: retryBudget,
	}
}

// NewRandomSource returns a freshly seeded generator.
func NewRandomSource() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint: gosec // it's ok
}

func (that *botService) MakeTurn(game *entity.Game) error {
	if game.IsOver() {
		return apperror.ErrGameFinished
	}

	if game.Turn != entity.Computer {
		return apperror.ErrNotYourTurn
	}

	if game.IsBoardFull() {
		return ErrNoAvailableMoves
	}

	row, col, found := that.draw(game)
	if !found {
		that.logger.Warn("retry budget exhausted, taking first free cell", "budget", that.retryBudget)
		row, col, _ = game.FirstEmptyCell()
	}

	if err := game.PlaceComputerMark(row, col); err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	that.logger.Debug("computer moved", "row", row, "col", col)

	return nil
}

// draw picks row then column independently until a free cell comes up.
func (that *botService) draw(game *entity.Game) (int, int, bool) {
	for attempt := 0; attempt <= that.retryBudget; attempt++ {
		row := that.source.IntN(entity.BoardSize)
		col := that.source.IntN(entity.BoardSize)

		if game.IsEmptyCell(row, col) {
			return row, col, true
		}
	}

	return 0, 0, false
}
