package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

// NewRouter - routes the HTTP API onto the game use case.
func NewRouter(logger *slog.Logger, gameUseCase gameUseCase) http.Handler {
	h := &handlers{
		logger:      logger.With("component", "rest"),
		gameUseCase: gameUseCase,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", pingHandler(h.logger))
	mux.HandleFunc("POST /api/games", h.createGame)
	mux.HandleFunc("GET /api/games/{gameID}", h.getGameStatus)
	mux.HandleFunc("GET /api/games/{gameID}/players/{playerID}", h.playerView)
	mux.HandleFunc("POST /api/games/{gameID}/turn", h.makeTurn)
	mux.HandleFunc("POST /api/games/{gameID}/resign", h.resign)

	return mux
}

// Start - serves handler on port until ctx is canceled.
func Start(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
