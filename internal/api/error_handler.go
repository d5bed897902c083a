package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fitcoach/coaching-platform/internal/api/metrics"
	"github.com/fitcoach/coaching-platform/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error         string   `json:"error"`
	MissingFields []string `json:"missing_fields,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Keeps denial responses generic: an ErrRecordNotFound is a plain
//     404 whether the record is missing or merely not the caller's,
//     and an ErrUnauthorized never says why.
//   - Logs unexpected errors internally without leaking details.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// A rejected write names exactly the fields the caller must supply.
	var ie *domain.DataIntegrityError
	if errors.As(err, &ie) {
		metrics.IntegrityRejectionsTotal.WithLabelValues(ie.Collection.String()).Inc()
		return http.StatusUnprocessableEntity, errorResponse{
			Error:         "record is missing required fields",
			MissingFields: ie.MissingFields,
		}
	}

	switch {
	case errors.Is(err, domain.ErrInvalidAuthContext):
		metrics.AccessDeniedTotal.WithLabelValues("invalid_context").Inc()
		return http.StatusUnauthorized, errorResponse{Error: "invalid auth context"}
	case errors.Is(err, domain.ErrNotProtectedCollection):
		metrics.AccessDeniedTotal.WithLabelValues("not_protected").Inc()
		return http.StatusBadRequest, errorResponse{Error: "unknown collection"}
	case errors.Is(err, domain.ErrUnauthorized):
		metrics.AccessDeniedTotal.WithLabelValues("unauthorized").Inc()
		return http.StatusForbidden, errorResponse{Error: "no access"}
	case errors.Is(err, domain.ErrRecordNotFound):
		metrics.AccessDeniedTotal.WithLabelValues("not_found").Inc()
		return http.StatusNotFound, errorResponse{Error: "not found"}
	case errors.Is(err, domain.ErrOwnershipImmutable):
		return http.StatusConflict, errorResponse{Error: "ownership fields cannot be changed"}
	case errors.Is(err, domain.ErrAssignmentNotFound):
		return http.StatusNotFound, errorResponse{Error: "assignment not found"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrAccountExists):
		return http.StatusConflict, errorResponse{Error: "account already exists"}
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, errorResponse{Error: "account not found"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
