package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/AfanKulaglic/TodoApp/adapters/rest"
	"github.com/AfanKulaglic/TodoApp/core"
	"github.com/AfanKulaglic/TodoApp/pkg/res"
)

func NewListProfilesHandler(_ *slog.Logger, svc *core.Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := rest.AccountFrom(r.Context())
		if !ok {
			rest.WriteErr(w, core.ErrNoSession)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		profiles, err := svc.ListProfiles(ctx, account)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, map[string]any{"profiles": profiles}, http.StatusOK)
	}
}

func NewCreateProfileHandler(_ *slog.Logger, svc *core.Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := rest.AccountFrom(r.Context())
		if !ok {
			rest.WriteErr(w, core.ErrNoSession)
			return
		}

		var in rest.CreateProfileIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		profile, err := svc.CreateProfile(ctx, account, in.Username)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, profile, http.StatusCreated)
	}
}

func NewDeleteProfileHandler(_ *slog.Logger, svc *core.Service, boards *core.Boards, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := rest.AccountFrom(r.Context())
		if !ok {
			rest.WriteErr(w, core.ErrNoSession)
			return
		}

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := svc.DeleteProfile(ctx, account, id); err != nil {
			rest.WriteErr(w, err)
			return
		}
		boards.Drop(id)
		res.Json(w, map[string]any{"ok": true}, http.StatusOK)
	}
}

func NewAdminListProfilesHandler(_ *slog.Logger, svc *core.Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := rest.AccountFrom(r.Context())
		if !ok {
			rest.WriteErr(w, core.ErrNoSession)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		profiles, err := svc.ListAllProfiles(ctx, account)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, map[string]any{"profiles": profiles}, http.StatusOK)
	}
}
