package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/AfanKulaglic/TodoApp/adapters/rest"
	"github.com/AfanKulaglic/TodoApp/core"
)

func Register(mux *http.ServeMux, log *slog.Logger, svc *core.Service, boards *core.Boards, timeout time.Duration) {
	auth := rest.NewAuthMiddleware(log, svc, timeout)

	// ping
	mux.Handle("GET /api/ping", NewPingHandler(log, map[string]Pinger{"db": svc}, timeout))

	// auth
	mux.Handle("POST /api/auth/signup", NewSignUpHandler(log, svc, timeout))
	mux.Handle("POST /api/auth/signin", NewSignInHandler(log, svc, timeout))
	mux.Handle("POST /api/auth/signout", auth(NewSignOutHandler(log, svc, timeout)))
	mux.Handle("GET /api/me", auth(NewMeHandler(log, svc, timeout)))

	// profiles
	mux.Handle("GET /api/profiles", auth(NewListProfilesHandler(log, svc, timeout)))
	mux.Handle("POST /api/profiles", auth(NewCreateProfileHandler(log, svc, timeout)))
	mux.Handle("DELETE /api/profiles/{id}", auth(NewDeleteProfileHandler(log, svc, boards, timeout)))

	// per-profile board and tasks
	mux.Handle("GET /api/profiles/{id}/board", auth(NewLoadBoardHandler(log, svc, boards, timeout)))
	mux.Handle("POST /api/profiles/{id}/tasks", auth(NewCreateTaskHandler(log, svc, boards, timeout)))
	mux.Handle("POST /api/profiles/{id}/tasks/{taskId}/toggle", auth(NewToggleTaskHandler(log, svc, boards, timeout)))
	mux.Handle("PUT /api/profiles/{id}/tasks/{taskId}", auth(NewUpdateTaskHandler(log, svc, boards, timeout)))
	mux.Handle("DELETE /api/profiles/{id}/tasks/{taskId}", auth(NewDeleteTaskHandler(log, svc, boards, timeout)))

	// superadmin
	mux.Handle("GET /api/admin/profiles", auth(NewAdminListProfilesHandler(log, svc, timeout)))
}
