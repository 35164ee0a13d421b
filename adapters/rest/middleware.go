package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/AfanKulaglic/TodoApp/core"
	"github.com/AfanKulaglic/TodoApp/pkg/res"
)

type ctxKey int

const accountKey ctxKey = iota

func WithAccount(ctx context.Context, account core.Account) context.Context {
	return context.WithValue(ctx, accountKey, account)
}

// AccountFrom returns the authenticated account the middleware resolved.
func AccountFrom(ctx context.Context) (core.Account, bool) {
	account, ok := ctx.Value(accountKey).(core.Account)
	return account, ok
}

// NewAuthMiddleware resolves the bearer token once per request and passes
// the account through the request context.
func NewAuthMiddleware(log *slog.Logger, svc *core.Service, timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				res.Error(w, core.ErrNoSession.Error(), http.StatusUnauthorized)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			account, err := svc.CurrentAccount(ctx, token)
			if err != nil {
				log.Debug("session rejected", "error", err)
				WriteErr(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), account)))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, prefix))
}
