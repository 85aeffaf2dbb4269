package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/battlefun-backend/internal/apperror"
	"github.com/rocketscienceinc/battlefun-backend/internal/battleship"
	"github.com/rocketscienceinc/battlefun-backend/internal/entity"
	"github.com/rocketscienceinc/battlefun-backend/internal/pkg"
	"github.com/rocketscienceinc/battlefun-backend/internal/repository"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
}

type egress interface {
	Publish(ctx context.Context, response *entity.Response) error
}

// GameManager routes inbound requests to the engine. Mutations of one game
// run one at a time; status reads take no lock.
type GameManager struct {
	logger *slog.Logger

	gameRepo gameRepo
	egress   egress
	locks    *pkg.KeyLock
}

// NewGameManager - egress may be nil when nobody consumes responses downstream.
func NewGameManager(logger *slog.Logger, gameRepo gameRepo, egress egress, locks *pkg.KeyLock) *GameManager {
	if locks == nil {
		locks = pkg.NewKeyLock(pkg.DefaultLockShards)
	}

	return &GameManager{
		logger: logger.With("component", "game_manager"),

		gameRepo: gameRepo,
		egress:   egress,
		locks:    locks,
	}
}

// Handle - processes one request. Rejections come back as a Failure in the
// response; a returned error means the request or the stored state is broken.
// Responses to create, turn and resign are published; status reads are not.
func (that *GameManager) Handle(ctx context.Context, req *entity.Request) (*entity.Response, error) {
	if req == nil || req.Variants() != 1 {
		return nil, apperror.ErrInvalidRequest
	}

	var (
		response *entity.Response
		err      error
	)

	switch {
	case req.CreateGame != nil:
		response, err = that.createGame(ctx, req.CreateGame)
	case req.GetGameStatus != nil:
		response, err = that.getGameStatus(ctx, req.GetGameStatus)
	case req.Resign != nil:
		response, err = that.resign(ctx, req.Resign)
	case req.Turn != nil:
		response, err = that.makeTurn(ctx, req.Turn)
	}

	if err != nil {
		that.logger.Error("failed to handle request", "gameID", req.GameID(), "error", err)
		return nil, err
	}

	return response, nil
}

// View - returns what playerID may see of the game.
func (that *GameManager) View(ctx context.Context, gameID, playerID string) (*entity.PlayerView, error) {
	game, err := that.loadGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	view, err := battleship.View(game, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to build view: %w", err)
	}

	return view, nil
}

func (that *GameManager) createGame(ctx context.Context, req *entity.CreateGame) (*entity.Response, error) {
	create := *req
	if create.GameID == "" {
		create.GameID = pkg.GenerateGameID()
	}

	unlock := that.locks.Lock(create.GameID)
	defer unlock()

	existing, err := that.loadGame(ctx, create.GameID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return nil, fmt.Errorf("%w: %s", apperror.ErrGameAlreadyExists, create.GameID)
	}

	game := battleship.Create(&create)
	if err = that.saveGame(ctx, game); err != nil {
		return nil, err
	}

	that.logger.Info("game created", "gameID", game.ID)

	response := &entity.Response{GameID: game.ID, GameUpdate: game}
	that.publish(ctx, response)

	return response, nil
}

func (that *GameManager) getGameStatus(ctx context.Context, req *entity.GetGameStatus) (*entity.Response, error) {
	game, err := that.loadGame(ctx, req.GameID)
	if err != nil {
		return nil, err
	}

	status, err := battleship.GetStatus(game)

	return that.respond(req.GameID, status, err)
}

func (that *GameManager) resign(ctx context.Context, req *entity.Resign) (*entity.Response, error) {
	unlock := that.locks.Lock(req.GameID)
	defer unlock()

	game, err := that.loadGame(ctx, req.GameID)
	if err != nil {
		return nil, err
	}

	next, err := battleship.Resign(game, req.PlayerID)
	if err == nil {
		if err = that.saveGame(ctx, next); err != nil {
			return nil, err
		}

		that.logger.Info("player resigned", "gameID", req.GameID, "playerID", req.PlayerID, "status", next.Status)
	}

	return that.respondAndPublish(ctx, req.GameID, next, err)
}

func (that *GameManager) makeTurn(ctx context.Context, req *entity.Turn) (*entity.Response, error) {
	unlock := that.locks.Lock(req.GameID)
	defer unlock()

	game, err := that.loadGame(ctx, req.GameID)
	if err != nil {
		return nil, err
	}

	next, err := battleship.ApplyTurn(game, req.PlayerID, req.Shot)
	if err == nil {
		if err = that.saveGame(ctx, next); err != nil {
			return nil, err
		}

		if next.IsFinished() {
			that.logger.Info("game finished", "gameID", req.GameID, "status", next.Status)
		}
	}

	return that.respondAndPublish(ctx, req.GameID, next, err)
}

// respondAndPublish - publishes the response of a mutation. Callers hold the
// game lock, so the egress sees updates of one game in the order they were made.
func (that *GameManager) respondAndPublish(
	ctx context.Context, gameID string, game *entity.Game, err error,
) (*entity.Response, error) {
	response, err := that.respond(gameID, game, err)
	if err != nil {
		return nil, err
	}

	that.publish(ctx, response)

	return response, nil
}

// respond - turns an engine result into a response.
func (that *GameManager) respond(gameID string, game *entity.Game, err error) (*entity.Response, error) {
	if err == nil {
		return &entity.Response{GameID: gameID, GameUpdate: game}, nil
	}

	rejection, ok := apperror.AsRejection(err)
	if !ok {
		return nil, fmt.Errorf("engine fault: %w", err)
	}

	that.logger.Debug("request rejected", "gameID", gameID, "code", rejection.Code, "reason", rejection.Description)

	return &entity.Response{
		GameID:  gameID,
		Failure: &entity.Failure{Code: rejection.Code, Description: rejection.Description},
	}, nil
}

// loadGame - returns nil without error when the game does not exist.
func (that *GameManager) loadGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrGameNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *GameManager) saveGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}

	return nil
}

func (that *GameManager) publish(ctx context.Context, response *entity.Response) {
	if that.egress == nil {
		return
	}

	if err := that.egress.Publish(ctx, response); err != nil {
		that.logger.Error("failed to publish response", "gameID", response.GameID, "error", err)
	}
}
