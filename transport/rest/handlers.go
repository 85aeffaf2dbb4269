package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/battlefun-backend/internal/apperror"
	"github.com/rocketscienceinc/battlefun-backend/internal/entity"
)

const maxBodyBytes = 1 << 20

type gameUseCase interface {
	Handle(ctx context.Context, req *entity.Request) (*entity.Response, error)
	View(ctx context.Context, gameID, playerID string) (*entity.PlayerView, error)
}

type handlers struct {
	logger      *slog.Logger
	gameUseCase gameUseCase
}

type turnBody struct {
	PlayerID string       `json:"player_id"`
	Shot     *entity.Cell `json:"shot"`
}

type resignBody struct {
	PlayerID string `json:"player_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *handlers) createGame(w http.ResponseWriter, r *http.Request) {
	var create entity.CreateGame
	if !that.decode(w, r, &create) {
		return
	}

	that.handle(w, r, &entity.Request{CreateGame: &create})
}

func (that *handlers) getGameStatus(w http.ResponseWriter, r *http.Request) {
	that.handle(w, r, &entity.Request{GetGameStatus: &entity.GetGameStatus{GameID: r.PathValue("gameID")}})
}

func (that *handlers) makeTurn(w http.ResponseWriter, r *http.Request) {
	var body turnBody
	if !that.decode(w, r, &body) {
		return
	}

	if body.Shot == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "shot is required"})
		return
	}

	that.handle(w, r, &entity.Request{Turn: &entity.Turn{
		GameID:   r.PathValue("gameID"),
		PlayerID: body.PlayerID,
		Shot:     *body.Shot,
	}})
}

func (that *handlers) resign(w http.ResponseWriter, r *http.Request) {
	var body resignBody
	if !that.decode(w, r, &body) {
		return
	}

	that.handle(w, r, &entity.Request{Resign: &entity.Resign{
		GameID:   r.PathValue("gameID"),
		PlayerID: body.PlayerID,
	}})
}

func (that *handlers) playerView(w http.ResponseWriter, r *http.Request) {
	view, err := that.gameUseCase.View(r.Context(), r.PathValue("gameID"), r.PathValue("playerID"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, view)
}

// handle - rejections are part of a normal response, so only faults change
// the status code.
func (that *handlers) handle(w http.ResponseWriter, r *http.Request, req *entity.Request) {
	response, err := that.gameUseCase.Handle(r.Context(), req)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, response)
}

func (that *handlers) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid Body"})
		return false
	}

	return true
}

func (that *handlers) writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	message := "Internal Server Error"

	switch {
	case errors.Is(err, apperror.ErrUnknownGame):
		code, message = http.StatusNotFound, apperror.ErrUnknownGame.Description
	case errors.Is(err, apperror.ErrUnknownPlayer):
		code, message = http.StatusNotFound, apperror.ErrUnknownPlayer.Error()
	case errors.Is(err, apperror.ErrGameAlreadyExists):
		code, message = http.StatusConflict, apperror.ErrGameAlreadyExists.Error()
	case errors.Is(err, apperror.ErrInvalidRequest), errors.Is(err, apperror.ErrCellOutOfRange):
		code, message = http.StatusBadRequest, err.Error()
	default:
		that.logger.Error("unhandled application error", "error", err)
	}

	that.writeJSON(w, code, errorResponse{Error: message})
}

func (that *handlers) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
