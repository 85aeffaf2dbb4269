package rest

import (
	"log/slog"
	"net/http"
)

// pingHandler - liveness probe.
func pingHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)

		if _, err := w.Write([]byte("pong")); err != nil {
			logger.Error("failed to write pong", "error", err)
		}
	}
}
