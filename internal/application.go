package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/glass-water-star/tictactoe/internal/config"
	"github.com/glass-water-star/tictactoe/internal/repository"
	"github.com/glass-water-star/tictactoe/internal/repository/storage"
	"github.com/glass-water-star/tictactoe/internal/service"
	"github.com/glass-water-star/tictactoe/internal/transport/terminal"
	"github.com/glass-water-star/tictactoe/internal/usecase"
)

var ErrUnknownStorage = errors.New("unknown storage driver")

// RunApp - wires storage, services and the console, then plays sessions until
// the player stops or a signal arrives.
func RunApp(logger *slog.Logger, conf *config.Config, in io.Reader, out io.Writer) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gameRepo, scoreRepo, closeStorage, err := openStorage(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err := closeStorage(); err != nil {
			log.Error("could not close storage", "error", err)
		}
	}()

	botService := service.NewBotService(logger, service.NewRandomSource(), conf.Bot.RetryBudget)
	gameService := service.NewGameService(gameRepo, scoreRepo)
	console := terminal.NewConsole(in, out)

	gameManager := usecase.NewGameManager(logger, console, botService, gameService)

	log.Info("Starting game", "storage", conf.Storage.Driver)

	if err = gameManager.Run(ctx); err != nil {
		if ctx.Err() != nil {
			log.Info("Received signal, shutting down")
			return nil
		}

		return fmt.Errorf("game stopped: %w", err)
	}

	log.Info("Player left, shutting down")

	return nil
}

func openStorage(ctx context.Context, conf *config.Config) (repository.GameRepository, repository.ScoreRepository, func() error, error) {
	switch conf.Storage.Driver {
	case config.StorageMemory, "":
		noop := func() error { return nil }
		return repository.NewMemoryGameRepository(), repository.NewMemoryScoreRepository(), noop, nil
	case config.StorageRedis:
		redisStorage, err := storage.New(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return nil, nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		prefix := conf.Redis.KeyPrefix
		return repository.NewGameRepository(redisStorage, prefix), repository.NewScoreRepository(redisStorage, prefix), redisStorage.Close, nil
	default:
		return nil, nil, nil, fmt.Errorf("%w: %q", ErrUnknownStorage, conf.Storage.Driver)
	}
}
