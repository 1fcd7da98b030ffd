package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/wellfora/wellfora/internal/forum/objstore"
	"github.com/wellfora/wellfora/internal/forum/service"
	"github.com/wellfora/wellfora/pkg/httpx"
	"github.com/wellfora/wellfora/pkg/slogx"
)

// ErrorResponse is the JSON error body every endpoint returns.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	httpx.WriteJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeServiceError maps service sentinel errors onto HTTP statuses.
// Anything unmapped is logged server-side and reported generically.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRegistration),
		errors.Is(err, service.ErrInvalidPost),
		errors.Is(err, service.ErrInvalidComment):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())

	case errors.Is(err, service.ErrInvalidCategory):
		writeError(w, http.StatusBadRequest, "invalid_category", err.Error())

	case errors.Is(err, service.ErrAlreadyVoted):
		writeError(w, http.StatusBadRequest, "already_voted", err.Error())

	case errors.Is(err, objstore.ErrUnsupportedType):
		writeError(w, http.StatusBadRequest, "unsupported_image_type",
			"image must be jpeg, png, gif or webp")

	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())

	case errors.Is(err, service.ErrNotPostAuthor):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())

	case errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())

	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, "conflict", err.Error())

	default:
		slogx.FromContext(r.Context()).Error("request failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "server_error", "something went wrong")
	}
}
