package rest

import (
	"errors"
	"net/http"

	"github.com/AfanKulaglic/TodoApp/core"
	"github.com/AfanKulaglic/TodoApp/pkg/res"
)

func WriteErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrTaskInvalidArgs),
		errors.Is(err, core.ErrProfileInvalidArgs),
		errors.Is(err, core.ErrAuthInvalidArgs):
		res.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, core.ErrInvalidCredentials),
		errors.Is(err, core.ErrNoSession):
		res.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, core.ErrForbidden):
		res.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, core.ErrTaskNotFound),
		errors.Is(err, core.ErrProfileNotFound),
		errors.Is(err, core.ErrAccountNotFound):
		res.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, core.ErrEmailTaken),
		errors.Is(err, core.ErrUsernameTaken),
		errors.Is(err, core.ErrProfileLimit),
		errors.Is(err, core.ErrProfileHasTasks):
		res.Error(w, err.Error(), http.StatusConflict)
	default:
		res.Error(w, "internal error", http.StatusInternalServerError)
	}
}
