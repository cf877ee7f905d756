package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ghaggin/taskboard/internal/auth"
	"github.com/ghaggin/taskboard/internal/middleware"
	"github.com/ghaggin/taskboard/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrValidation = errors.New("validation error")
)

type validationError struct {
	msg string
}

func (e *validationError) Error() string {
	return e.msg
}

func (e *validationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(msg string) error {
	return &validationError{msg: msg}
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError converts err to a status code and a small JSON payload.
func writeError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	var (
		status int
		msg    string
		verr   *validationError
	)

	switch {
	case errors.As(err, &verr):
		status, msg = http.StatusBadRequest, verr.msg
	case errors.Is(err, repository.ErrConflict):
		status, msg = http.StatusConflict, "User already exists"
	case errors.Is(err, auth.ErrInvalidCredentials):
		status, msg = http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, middleware.ErrUnauthenticated):
		status, msg = http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, repository.ErrNotFound):
		status, msg = http.StatusNotFound, "Task not found"
	default:
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		status, msg = http.StatusInternalServerError, "Internal server error"
	}

	writeJSON(w, status, errorBody{Error: msg})
}
