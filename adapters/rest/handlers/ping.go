package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/AfanKulaglic/TodoApp/pkg/res"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

func NewPingHandler(log *slog.Logger, pingmap map[string]Pinger, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		out := map[string]string{}
		code := http.StatusOK

		for name, p := range pingmap {
			if err := p.Ping(ctx); err != nil {
				log.Warn("ping failed", "dependency", name, "error", err)
				out[name] = "down"
				code = http.StatusServiceUnavailable
			} else {
				out[name] = "ok"
			}
		}

		res.Json(w, map[string]any{"dependencies": out}, code)
	}
}
