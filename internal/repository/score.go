package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/glass-water-star/tictactoe/internal/entity"
)

type ScoreRepository interface {
	Increment(ctx context.Context, result entity.Result) (entity.Score, error)
	Get(ctx context.Context) (entity.Score, error)
}

type dbScore struct {
	client *redis.Client
	prefix string
}

// NewScoreRepository keeps result counters in the hash "<prefix>:score".
func NewScoreRepository(client *redis.Client, prefix string) ScoreRepository {
	return &dbScore{
		client: client,
		prefix: prefix,
	}
}

func (that *dbScore) Increment(ctx context.Context, result entity.Result) (entity.Score, error) {
	if err := that.client.HIncrBy(ctx, that.key(), result.String(), 1).Err(); err != nil {
		return entity.Score{}, fmt.Errorf("failed to increment score: %w", err)
	}

	return that.Get(ctx)
}

func (that *dbScore) Get(ctx context.Context) (entity.Score, error) {
	fields, err := that.client.HGetAll(ctx, that.key()).Result()
	if err != nil {
		return entity.Score{}, fmt.Errorf("failed to get score: %w", err)
	}

	var score entity.Score
	for field, value := range fields {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return entity.Score{}, fmt.Errorf("invalid score for %s: %w", field, err)
		}

		score.Add(entity.Result(field), n)
	}

	return score, nil
}

func (that *dbScore) key() string {
	return that.prefix + ":score"
}
