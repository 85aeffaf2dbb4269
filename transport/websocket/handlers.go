package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/battlefun-backend/internal/apperror"
	"github.com/rocketscienceinc/battlefun-backend/internal/battleship"
	"github.com/rocketscienceinc/battlefun-backend/internal/entity"
)

const (
	actionGameCreate = "game:create"
	actionGameStatus = "game:status"
	actionGameTurn   = "game:turn"
	actionGameResign = "game:resign"
	actionGameView   = "game:view"
	actionError      = "error"
)

func (that *Server) handleCreateGame(ctx context.Context, c *client, msg *Message) error {
	payloadReq, err := that.decodeRequest(c, msg)
	if err != nil {
		return err
	}

	if payloadReq.Create == nil {
		that.sendError(c, msg.Action, "create is required")
		return nil
	}

	create := *payloadReq.Create
	create.GameID = c.gameID

	return that.dispatch(ctx, c, msg.Action, &entity.Request{CreateGame: &create})
}

func (that *Server) handleGameStatus(ctx context.Context, c *client, msg *Message) error {
	return that.dispatch(ctx, c, msg.Action, &entity.Request{GetGameStatus: &entity.GetGameStatus{GameID: c.gameID}})
}

func (that *Server) handleGameTurn(ctx context.Context, c *client, msg *Message) error {
	payloadReq, err := that.decodeRequest(c, msg)
	if err != nil {
		return err
	}

	if payloadReq.Shot == nil {
		that.sendError(c, msg.Action, "shot is required")
		return nil
	}

	return that.dispatch(ctx, c, msg.Action, &entity.Request{Turn: &entity.Turn{
		GameID:   c.gameID,
		PlayerID: c.playerID,
		Shot:     *payloadReq.Shot,
	}})
}

func (that *Server) handleGameResign(ctx context.Context, c *client, msg *Message) error {
	return that.dispatch(ctx, c, msg.Action, &entity.Request{Resign: &entity.Resign{
		GameID:   c.gameID,
		PlayerID: c.playerID,
	}})
}

func (that *Server) handleGameView(ctx context.Context, c *client, msg *Message) error {
	view, err := that.gameUseCase.View(ctx, c.gameID, c.playerID)
	if err != nil {
		return that.sendFault(c, msg.Action, err)
	}

	return that.send(c, msg.Action, Payload{GameID: c.gameID, View: view})
}

// dispatch - hands the request to the game use case and replies to the sender.
// The full game never leaves the server, only the sender's view of it.
func (that *Server) dispatch(ctx context.Context, c *client, action string, req *entity.Request) error {
	response, err := that.gameUseCase.Handle(ctx, req)
	if err != nil {
		return that.sendFault(c, action, err)
	}

	payload := Payload{GameID: response.GameID, Failure: response.Failure}
	if response.GameUpdate != nil {
		payload.View, err = viewOf(response.GameUpdate, c.playerID)
		if err != nil {
			return that.sendFault(c, action, err)
		}
	}

	return that.send(c, action, payload)
}

// viewOf - a socket of a non-participant gets no view, only the game id.
func viewOf(game *entity.Game, playerID string) (*entity.PlayerView, error) {
	view, err := battleship.View(game, playerID)
	if errors.Is(err, apperror.ErrUnknownPlayer) {
		return nil, nil
	}

	return view, err
}

func (that *Server) decodeRequest(c *client, msg *Message) (*Request, error) {
	var payloadReq Request
	if len(msg.Payload) == 0 {
		return &payloadReq, nil
	}

	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		that.sendError(c, msg.Action, "invalid payload")
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return &payloadReq, nil
}

func (that *Server) sendFault(c *client, action string, err error) error {
	switch {
	case errors.Is(err, apperror.ErrUnknownGame):
		that.sendError(c, action, apperror.ErrUnknownGame.Description)
		return nil
	case errors.Is(err, apperror.ErrUnknownPlayer),
		errors.Is(err, apperror.ErrGameAlreadyExists),
		errors.Is(err, apperror.ErrCellOutOfRange),
		errors.Is(err, apperror.ErrInvalidRequest):
		that.sendError(c, action, err.Error())
		return nil
	default:
		that.sendError(c, action, "internal error")
		return err
	}
}

func (that *Server) sendError(c *client, action, errorMsg string) {
	if action == "" {
		action = actionError
	}

	if err := that.send(c, action, Payload{GameID: c.gameID, Error: errorMsg}); err != nil {
		that.logger.Error("failed to send error response", "error", err)
	}
}

func (that *Server) send(c *client, action string, payload Payload) error {
	if err := c.writeJSON(newMessage(action, payload)); err != nil {
		return fmt.Errorf("failed to send %s response: %w", action, err)
	}

	return nil
}
