package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/AfanKulaglic/TodoApp/adapters/rest"
	"github.com/AfanKulaglic/TodoApp/core"
	"github.com/AfanKulaglic/TodoApp/pkg/res"
)

func NewSignUpHandler(_ *slog.Logger, svc *core.Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in rest.SignUpIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		session, err := svc.SignUp(ctx, in.Email, in.Password)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, session, http.StatusCreated)
	}
}

func NewSignInHandler(_ *slog.Logger, svc *core.Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in rest.SignInIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		session, err := svc.SignIn(ctx, in.Email, in.Password)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, session, http.StatusOK)
	}
}

func NewSignOutHandler(_ *slog.Logger, svc *core.Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := rest.AccountFrom(r.Context())
		if !ok {
			rest.WriteErr(w, core.ErrNoSession)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := svc.SignOut(ctx, account); err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, map[string]any{"ok": true}, http.StatusOK)
	}
}

func NewMeHandler(_ *slog.Logger, svc *core.Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := rest.AccountFrom(r.Context())
		if !ok {
			rest.WriteErr(w, core.ErrNoSession)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		roles, err := svc.LookupRoles(ctx, account)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, map[string]any{"account": account, "roles": roles}, http.StatusOK)
	}
}
