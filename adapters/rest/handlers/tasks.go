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

// boardFor authorizes the request's profile and hands out its board. Errors
// are written to the response; the second return value reports success.
func boardFor(ctx context.Context, w http.ResponseWriter, r *http.Request, svc *core.Service, boards *core.Boards) (*core.Board, bool) {
	account, ok := rest.AccountFrom(r.Context())
	if !ok {
		rest.WriteErr(w, core.ErrNoSession)
		return nil, false
	}

	profileID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		res.Error(w, "invalid profile id", http.StatusBadRequest)
		return nil, false
	}

	if _, err := svc.AuthorizeProfile(ctx, account, profileID); err != nil {
		rest.WriteErr(w, err)
		return nil, false
	}

	return boards.Get(profileID), true
}

func NewLoadBoardHandler(log *slog.Logger, svc *core.Service, boards *core.Boards, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		board, ok := boardFor(ctx, w, r, svc, boards)
		if !ok {
			return
		}

		view, err := board.Load(ctx, time.Now())
		if err != nil {
			// callers render an empty state on load failure
			log.Error("board load failed", "profile_id", board.ProfileID(), "error", err)
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, view, http.StatusOK)
	}
}

func NewCreateTaskHandler(_ *slog.Logger, svc *core.Service, boards *core.Boards, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in rest.CreateTaskIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		board, ok := boardFor(ctx, w, r, svc, boards)
		if !ok {
			return
		}

		task, err := board.Create(ctx, in.Title, in.Description, in.DueDate, in.DueTime)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, task, http.StatusCreated)
	}
}

func NewToggleTaskHandler(_ *slog.Logger, svc *core.Service, boards *core.Boards, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID, err := uuid.Parse(r.PathValue("taskId"))
		if err != nil {
			res.Error(w, "invalid task id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		board, ok := boardFor(ctx, w, r, svc, boards)
		if !ok {
			return
		}

		task, err := board.Toggle(ctx, taskID)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, task, http.StatusOK)
	}
}

func NewUpdateTaskHandler(_ *slog.Logger, svc *core.Service, boards *core.Boards, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID, err := uuid.Parse(r.PathValue("taskId"))
		if err != nil {
			res.Error(w, "invalid task id", http.StatusBadRequest)
			return
		}

		var in rest.UpdateTaskIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		board, ok := boardFor(ctx, w, r, svc, boards)
		if !ok {
			return
		}

		account, _ := rest.AccountFrom(r.Context())
		task, err := board.Update(ctx, account, taskID, in.Title, in.Description, in.DueDate, in.DueTime)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, task, http.StatusOK)
	}
}

func NewDeleteTaskHandler(_ *slog.Logger, svc *core.Service, boards *core.Boards, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID, err := uuid.Parse(r.PathValue("taskId"))
		if err != nil {
			res.Error(w, "invalid task id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		board, ok := boardFor(ctx, w, r, svc, boards)
		if !ok {
			return
		}

		if err := board.Remove(ctx, taskID); err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, map[string]any{"ok": true}, http.StatusOK)
	}
}
