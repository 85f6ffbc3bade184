package httpadapter

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kirillkom/framework-progress/internal/core/domain"
)

// statusClientClosedRequest marks requests whose caller went away before
// the response was ready. Nothing is written back to a live client.
const statusClientClosedRequest = 499

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case domain.IsKind(err, domain.ErrNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	case domain.IsKind(err, domain.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := mapErrorToHTTPStatus(err)
	message := err.Error()
	if status == statusClientClosedRequest {
		logger.Debug("http_request_abandoned",
			"request_id", requestIDFromContext(r.Context()),
			"path", r.URL.Path,
		)
	}
	if status == http.StatusInternalServerError {
		logger.Error("http_handler_failed",
			"request_id", requestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
		message = "internal server error"
	}
	writeJSON(w, status, map[string]string{"error": message})
}
