package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/forgo/devcamper/api/internal/database"
	"github.com/forgo/devcamper/api/internal/middleware"
	"github.com/forgo/devcamper/api/internal/model"
	"github.com/forgo/devcamper/api/internal/query"
	"github.com/forgo/devcamper/api/internal/service"
)

// MapError converts any error returned by a service or repository into the
// APIError written to the client. It is the only place storage and service
// errors become HTTP statuses.
func MapError(err error) *model.APIError {
	if err == nil {
		return nil
	}

	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var invalidID *model.InvalidIDError
	if errors.As(err, &invalidID) {
		return model.NewNotFoundError(invalidID.Error())
	}

	var validation *model.ValidationError
	if errors.As(err, &validation) {
		return model.NewValidationError(validation.Messages)
	}

	switch {
	case errors.Is(err, database.ErrDuplicate):
		return model.NewBadRequestError("Duplicate field entered")
	case errors.Is(err, query.ErrInvalidFilter):
		return model.NewBadRequestError(err.Error())
	case errors.Is(err, service.ErrMissingCredentials):
		return model.NewBadRequestError("Please provide email and password")
	case errors.Is(err, service.ErrInvalidCredentials):
		return model.NewUnauthorizedError("Invalid credentials")
	case errors.Is(err, service.ErrInvalidPassword):
		return model.NewUnauthorizedError("Invalid password")
	case errors.Is(err, database.ErrNotFound):
		return model.NewNotFoundError("Resource not found")
	default:
		return model.NewInternalError(err.Error())
	}
}

// WriteError normalizes err and writes the failure envelope. Server errors
// are logged with the request id; client errors are left to the request log.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := MapError(err)
	if apiErr.Status >= http.StatusInternalServerError {
		slog.Error("request failed",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
	}
	apiErr.WriteJSON(w)
}
