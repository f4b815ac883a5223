package repository

import (
	"context"
	"sync"

	"github.com/glass-water-star/tictactoe/internal/entity"
)

type memoryGame struct {
	mu    sync.Mutex
	games map[string]entity.Game
}

// NewMemoryGameRepository keeps games for the lifetime of the process.
func NewMemoryGameRepository() GameRepository {
	return &memoryGame{
		games: make(map[string]entity.Game),
	}
}

func (that *memoryGame) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.games[game.ID] = *game

	return nil
}

func (that *memoryGame) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[id]; !ok {
		return ErrGameNotFound
	}

	delete(that.games, id)

	return nil
}

type memoryScore struct {
	mu    sync.Mutex
	score entity.Score
}

func NewMemoryScoreRepository() ScoreRepository {
	return &memoryScore{}
}

func (that *memoryScore) Increment(_ context.Context, result entity.Result) (entity.Score, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.score.Add(result, 1)

	return that.score, nil
}

func (that *memoryScore) Get(_ context.Context) (entity.Score, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.score, nil
}
