package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/glass-water-star/tictactoe/internal/apperror"
	"github.com/glass-water-star/tictactoe/internal/entity"
	"github.com/glass-water-star/tictactoe/internal/transport/terminal"
)

type console interface {
	ReadMark(ctx context.Context) (entity.Mark, error)
	ReadMove(ctx context.Context) (terminal.Move, error)
	RenderBoard(board entity.Board)
	RejectMove()
	AnnounceComputerTurn()
	ShowResult(result entity.Result, score entity.Score)
	AskReplay(ctx context.Context) (bool, error)
}

type botService interface {
	MakeTurn(game *entity.Game) error
}

type gameService interface {
	RecordGame(ctx context.Context, game *entity.Game) (entity.Score, error)
	GetScore(ctx context.Context) (entity.Score, error)
}

type GameManager struct {
	logger *slog.Logger

	console     console
	botService  botService
	gameService gameService
}

func NewGameManager(logger *slog.Logger, console console, botService botService, gameService gameService) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		console:     console,
		botService:  botService,
		gameService: gameService,
	}
}

// Run plays sessions until the player declines a replay. Every session gets a
// fresh game.
func (that *GameManager) Run(ctx context.Context) error {
	for session := 1; ; session++ {
		if _, err := that.PlaySession(ctx); err != nil {
			return fmt.Errorf("session %d: %w", session, err)
		}

		again, err := that.console.AskReplay(ctx)
		if err != nil {
			return fmt.Errorf("failed to ask for replay: %w", err)
		}

		if !again {
			return nil
		}
	}
}

// PlaySession drives one game from mark selection to its result.
func (that *GameManager) PlaySession(ctx context.Context) (*entity.Game, error) {
	mark, err := that.console.ReadMark(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	game := entity.NewGame(mark)

	log := that.logger.With("method", "PlaySession", "human_mark", game.HumanMark, "computer_mark", game.ComputerMark)
	log.Info("session started")

	for game.IsInProgress() {
		if err = ctx.Err(); err != nil {
			return game, fmt.Errorf("session interrupted: %w", err)
		}

		if err = that.turn(ctx, game); err != nil {
			return game, err
		}

		that.console.RenderBoard(game.Snapshot())
	}

	log.Info("session finished", "result", game.Result, "winner", game.Winner, "moves", game.Moves)

	that.console.ShowResult(game.Result, that.record(ctx, game))

	return game, nil
}

func (that *GameManager) turn(ctx context.Context, game *entity.Game) error {
	switch game.Turn {
	case entity.Human:
		return that.humanTurn(ctx, game)
	case entity.Computer:
		that.console.AnnounceComputerTurn()

		if err := that.botService.MakeTurn(game); err != nil {
			return fmt.Errorf("computer turn: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("unknown player %q", game.Turn)
	}
}

func (that *GameManager) humanTurn(ctx context.Context, game *entity.Game) error {
	move, err := that.console.ReadMove(ctx)
	if err != nil {
		return fmt.Errorf("human turn: %w", err)
	}

	if move.Quit {
		game.Quit()
		return nil
	}

	err = game.MakeTurn(move.Row, move.Col)
	if errors.Is(err, apperror.ErrCellOccupied) {
		that.console.RejectMove()
		return nil
	}

	if err != nil {
		return fmt.Errorf("human turn: %w", err)
	}

	return nil
}

// record persists the finished game. Storage failures never end the session,
// the score shown then falls back to the last known one.
func (that *GameManager) record(ctx context.Context, game *entity.Game) entity.Score {
	log := that.logger.With("method", "record")

	score, err := that.gameService.RecordGame(ctx, game)
	if err == nil {
		log.Debug("game recorded", "game_id", game.ID)
		return score
	}

	log.Error("failed to record game", "error", err)

	score, err = that.gameService.GetScore(ctx)
	if err != nil {
		log.Error("failed to get score", "error", err)
	}

	return score
}
