package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/battlefun-backend/internal/config"
	"github.com/rocketscienceinc/battlefun-backend/internal/entity"
	"github.com/rocketscienceinc/battlefun-backend/internal/pkg"
	"github.com/rocketscienceinc/battlefun-backend/internal/repository"
	"github.com/rocketscienceinc/battlefun-backend/internal/repository/storage"
	"github.com/rocketscienceinc/battlefun-backend/internal/transport/redis"
	"github.com/rocketscienceinc/battlefun-backend/internal/usecase"
	"github.com/rocketscienceinc/battlefun-backend/transport/rest"
	"github.com/rocketscienceinc/battlefun-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

type responseSink interface {
	Publish(ctx context.Context, response *entity.Response) error
}

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	hub := websocket.NewHub(logger)
	errCh := make(chan error, 3)

	var (
		gameRepo repository.GameRepository
		egress   responseSink
	)

	switch conf.Storage {
	case config.StorageMemory:
		log.Info("Using in-memory storage")

		gameRepo = repository.NewMemoryGameRepository()
		egress = hub
	default:
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString, conf.Redis.DB)
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		gameRepo = repository.NewGameRepository(redisStorage, conf.FinishedGameTTL)

		publisher := redis.New(logger, redisStorage, conf.Redis.Channel)
		egress = publisher

		// sockets of this instance learn about updates made by any instance
		go func() {
			if subErr := publisher.Subscribe(ctx, hub.Notify); subErr != nil {
				errCh <- fmt.Errorf("egress subscription error: %w", subErr)
			}
		}()
	}

	gameUseCase := usecase.NewGameManager(logger, gameRepo, egress, pkg.NewKeyLock(conf.LockShards))

	// run HTTP server
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(ctx, conf.HTTPPort, rest.NewRouter(logger, gameUseCase)); httpErr != nil {
			errCh <- fmt.Errorf("HTTP server error: %w", httpErr)
		}
	}()

	// run Websocket server
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gameUseCase, hub)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			errCh <- fmt.Errorf("WebSocket server error: %w", wsErr)
		}
	}()

	select {
	case err := <-errCh:
		log.Error("Application failed", "error", err)
		return err
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
