package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/glass-water-star/tictactoe/internal/apperror"
	"github.com/glass-water-star/tictactoe/internal/entity"
	"github.com/glass-water-star/tictactoe/internal/repository"
	"github.com/glass-water-star/tictactoe/internal/service"
	"github.com/glass-water-star/tictactoe/internal/transport/terminal"
)

var errRedisDown = errors.New("redis down")

type sequenceSource struct {
	draws []int
	next  int
}

func (that *sequenceSource) IntN(_ int) int {
	draw := that.draws[that.next%len(that.draws)]
	that.next++
	return draw
}

type mockGameService struct {
	mock.Mock
}

func (that *mockGameService) RecordGame(ctx context.Context, game *entity.Game) (entity.Score, error) {
	args := that.Called(ctx, game)
	return args.Get(0).(entity.Score), args.Error(1)
}

func (that *mockGameService) GetScore(ctx context.Context) (entity.Score, error) {
	args := that.Called(ctx)
	return args.Get(0).(entity.Score), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newManager(input string, draws []int, games gameService) (*GameManager, *bytes.Buffer) {
	out := &bytes.Buffer{}
	console := terminal.NewConsole(strings.NewReader(input), out)
	bot := service.NewBotService(discardLogger(), &sequenceSource{draws: draws}, 16)

	if games == nil {
		games = service.NewGameService(repository.NewMemoryGameRepository(), repository.NewMemoryScoreRepository())
	}

	return NewGameManager(discardLogger(), console, bot, games), out
}

func TestGameManager_PlaySession(t *testing.T) {
	ctx := context.Background()

	t.Run("Human X completes the pattern", func(t *testing.T) {
		// Given: a scripted human and a computer answering on row 2
		input := strings.Join([]string{"X", "0,0", "2,2", "0,1", "0,2", "1,0"}, "\n") + "\n"
		manager, out := newManager(input, []int{2, 2, 2, 1, 2, 0}, nil)

		// When: the session is played
		game, err := manager.PlaySession(ctx)

		// Then: the fourth X finishes the game with a Win for the human
		require.NoError(t, err)
		assert.Equal(t, entity.StatusOver, game.Status)
		assert.Equal(t, entity.Win, game.Result)
		assert.Equal(t, entity.Human, game.Winner)
		assert.Equal(t, 7, game.Moves)
		assert.NotEmpty(t, game.ID)

		expectedBoard := entity.Board{
			{entity.X, entity.X, entity.X},
			{entity.X, entity.Empty, entity.Empty},
			{entity.O, entity.O, entity.O},
		}
		assert.Equal(t, expectedBoard, game.Board)

		// Then: the occupied cell was rejected once and the computer moved three times
		output := out.String()
		assert.Equal(t, 1, strings.Count(output, "Invalid move, please try again"))
		assert.Equal(t, 3, strings.Count(output, "Computer's turn"))
		assert.Contains(t, output, "Result: Win\n")
		assert.Contains(t, output, "Score: 1 win(s), 0 loss(es), 0 draw(s)\n")
	})

	t.Run("Board is rendered after every turn", func(t *testing.T) {
		// Given: a human who quits right away
		manager, out := newManager("O\ne\n", []int{0}, nil)

		// When: the session is played
		game, err := manager.PlaySession(ctx)

		// Then: the board is drawn once, empty, and the default result is shown
		require.NoError(t, err)
		assert.Equal(t, entity.Draw, game.Result)
		assert.Equal(t, 1, strings.Count(out.String(), "Current Board:"))
		assert.Contains(t, out.String(), "Result: Draw\n")
	})

	t.Run("Malformed move is fatal", func(t *testing.T) {
		// Given: a human typing garbage
		manager, _ := newManager("X\nfoo\n", []int{0}, nil)

		// When: the session is played
		_, err := manager.PlaySession(ctx)

		// Then: ErrMalformedMove ends the session
		require.ErrorIs(t, err, apperror.ErrMalformedMove)
	})

	t.Run("Out of range move is fatal", func(t *testing.T) {
		// Given: a human typing an index outside the board
		manager, _ := newManager("X\n5,1\n", []int{0}, nil)

		// When: the session is played
		_, err := manager.PlaySession(ctx)

		// Then: ErrMoveOutOfRange ends the session
		require.ErrorIs(t, err, apperror.ErrMoveOutOfRange)
	})

	t.Run("Closed input is fatal", func(t *testing.T) {
		// Given: input ending in the middle of the game
		manager, _ := newManager("X\n", []int{0}, nil)

		// When: the session is played
		_, err := manager.PlaySession(ctx)

		// Then: ErrInputClosed ends the session
		require.ErrorIs(t, err, apperror.ErrInputClosed)
	})

	t.Run("Cancelled context stops the session", func(t *testing.T) {
		// Given: a cancelled context
		manager, _ := newManager("X\n0,0\n", []int{0}, nil)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		// When: the session is played
		_, err := manager.PlaySession(cancelled)

		// Then: the context error is returned
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Storage failure falls back to the stored score", func(t *testing.T) {
		// Given: a game service that cannot record
		games := &mockGameService{}
		games.On("RecordGame", mock.Anything, mock.AnythingOfType("*entity.Game")).Return(entity.Score{}, errRedisDown).Once()
		games.On("GetScore", mock.Anything).Return(entity.Score{Wins: 4}, nil).Once()
		manager, out := newManager("X\ne\n", []int{0}, games)

		// When: the session is played
		_, err := manager.PlaySession(ctx)

		// Then: the session still ends normally with the last known score
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Score: 4 win(s), 0 loss(es), 0 draw(s)\n")
		games.AssertExpectations(t)
	})
}

func TestGameManager_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("Replays until the player declines", func(t *testing.T) {
		// Given: two sessions that are quit right away
		manager, out := newManager("X\ne\ny\nO\ne\nn\n", []int{0}, nil)

		// When: the manager runs
		err := manager.Run(ctx)

		// Then: both sessions are counted as draws
		require.NoError(t, err)
		assert.Equal(t, 2, strings.Count(out.String(), "Game Over!"))
		assert.Contains(t, out.String(), "Score: 0 win(s), 0 loss(es), 2 draw(s)\n")
	})

	t.Run("Closed input at the replay prompt ends the run", func(t *testing.T) {
		// Given: a single quit session with nothing after it
		manager, _ := newManager("X\ne\n", []int{0}, nil)

		// When: the manager runs
		err := manager.Run(ctx)

		// Then: the run ends without error
		require.NoError(t, err)
	})

	t.Run("Fatal session error stops the run", func(t *testing.T) {
		// Given: a malformed move in the first session
		manager, _ := newManager("X\n1;1\n", []int{0}, nil)

		// When: the manager runs
		err := manager.Run(ctx)

		// Then: the error is returned
		require.ErrorIs(t, err, apperror.ErrMalformedMove)
	})
}
