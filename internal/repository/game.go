package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/glass-water-star/tictactoe/internal/entity"
)

var ErrGameNotFound = errors.New("game not found")

type GameRepository interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	DeleteByID(ctx context.Context, id string) error
}

type dbGame struct {
	client *redis.Client
	prefix string
}

// NewGameRepository stores finished games as JSON under "<prefix>:game:<id>".
func NewGameRepository(client *redis.Client, prefix string) GameRepository {
	return &dbGame{
		client: client,
		prefix: prefix,
	}
}

func (that *dbGame) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	if err = that.client.Set(ctx, that.key(game.ID), gameJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	return nil
}

func (that *dbGame) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, that.key(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete game by id: %w", err)
	}

	if deleted == 0 {
		return ErrGameNotFound
	}

	return nil
}

func (that *dbGame) key(id string) string {
	return that.prefix + ":game:" + id
}
