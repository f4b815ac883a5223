package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/glass-water-star/tictactoe/internal/entity"
)

type GameService interface {
	RecordGame(ctx context.Context, game *entity.Game) (entity.Score, error)
	GetScore(ctx context.Context) (entity.Score, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	DeleteByID(ctx context.Context, id string) error
}

type scoreRepo interface {
	Increment(ctx context.Context, result entity.Result) (entity.Score, error)
	Get(ctx context.Context) (entity.Score, error)
}

type gameService struct {
	gameRepo  gameRepo
	scoreRepo scoreRepo
}

func NewGameService(gameRepo gameRepo, scoreRepo scoreRepo) GameService {
	return &gameService{
		gameRepo:  gameRepo,
		scoreRepo: scoreRepo,
	}
}

// RecordGame stores a finished game under a fresh ID and adds its result to the
// score. A game whose result could not be counted is removed again.
func (that *gameService) RecordGame(ctx context.Context, game *entity.Game) (entity.Score, error) {
	if !game.IsOver() {
		return entity.Score{}, fmt.Errorf("can't record game in status %s", game.Status)
	}

	if game.ID == "" {
		game.ID = uuid.NewString()
	}

	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return entity.Score{}, fmt.Errorf("failed to save game: %w", err)
	}

	score, err := that.scoreRepo.Increment(ctx, game.Result)
	if err != nil {
		if delErr := that.gameRepo.DeleteByID(ctx, game.ID); delErr != nil {
			return entity.Score{}, fmt.Errorf("failed to update score: %w, rollback: %w", err, delErr)
		}

		return entity.Score{}, fmt.Errorf("failed to update score: %w", err)
	}

	return score, nil
}

func (that *gameService) GetScore(ctx context.Context) (entity.Score, error) {
	score, err := that.scoreRepo.Get(ctx)
	if err != nil {
		return entity.Score{}, fmt.Errorf("failed to get score: %w", err)
	}

	return score, nil
}
