package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/forgo/devcamper/api/internal/database"
	"github.com/forgo/devcamper/api/internal/model"
	"github.com/forgo/devcamper/api/internal/query"
	"github.com/forgo/devcamper/api/internal/service"
)

// ============================================================================
// MapError Tests
// ============================================================================

func TestMapError_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "api error passes through",
			err:     model.NewForbiddenError("User user:1 is not authorized to update bootcamp bootcamp:2"),
			status:  http.StatusForbidden,
			message: "User user:1 is not authorized to update bootcamp bootcamp:2",
		},
		{
			name:    "wrapped api error passes through",
			err:     fmt.Errorf("loading: %w", model.NewNotFoundError("Bootcamp not found with id bootcamp:x")),
			status:  http.StatusNotFound,
			message: "Bootcamp not found with id bootcamp:x",
		},
		{
			name:    "invalid id is not found",
			err:     &model.InvalidIDError{Value: "garbage"},
			status:  http.StatusNotFound,
			message: "Resource not found with id garbage",
		},
		{
			name:    "duplicate key",
			err:     fmt.Errorf("%w: index review_bootcamp_user", database.ErrDuplicate),
			status:  http.StatusBadRequest,
			message: "Duplicate field entered",
		},
		{
			name:    "invalid filter",
			err:     fmt.Errorf("%w: unknown field %q", query.ErrInvalidFilter, "nope"),
			status:  http.StatusBadRequest,
			message: `invalid query: unknown field "nope"`,
		},
		{
			name:    "missing credentials",
			err:     service.ErrMissingCredentials,
			status:  http.StatusBadRequest,
			message: "Please provide email and password",
		},
		{
			name:    "invalid credentials",
			err:     service.ErrInvalidCredentials,
			status:  http.StatusUnauthorized,
			message: "Invalid credentials",
		},
		{
			name:    "invalid password",
			err:     service.ErrInvalidPassword,
			status:  http.StatusUnauthorized,
			message: "Invalid password",
		},
		{
			name:    "storage not found",
			err:     database.ErrNotFound,
			status:  http.StatusNotFound,
			message: "Resource not found",
		},
		{
			name:    "unknown error keeps its message",
			err:     errors.New("connection reset"),
			status:  http.StatusInternalServerError,
			message: "connection reset",
		},
		{
			name:    "empty message becomes server error",
			err:     errors.New(""),
			status:  http.StatusInternalServerError,
			message: "Server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := MapError(tt.err)
			if got.Status != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, got.Status)
			}
			if got.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, got.Message)
			}
		})
	}
}

func TestMapError_Validation_JoinsMessages(t *testing.T) {
	t.Parallel()

	got := MapError(&model.ValidationError{Messages: []string{"Please add a name", "Please add a description"}})

	if got.Status != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", got.Status)
	}
	if got.Message != "Please add a name,Please add a description" {
		t.Errorf("unexpected message %q", got.Message)
	}
	if len(got.Details) != 2 {
		t.Errorf("expected 2 details, got %d", len(got.Details))
	}
}

func TestMapError_Nil_ReturnsNil(t *testing.T) {
	t.Parallel()

	if got := MapError(nil); got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

// ============================================================================
// WriteError Tests
// ============================================================================

func TestWriteError_WritesEnvelope(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bootcamps", nil)

	WriteError(rr, req, &model.ValidationError{Messages: []string{"Please add a title"}})

	expectError(t, rr, http.StatusBadRequest, "Please add a title")
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %q", ct)
	}
	env := decode(t, rr)
	if len(env.Errors) != 1 || env.Errors[0] != "Please add a title" {
		t.Errorf("expected errors list, got %v", env.Errors)
	}
}

func TestWriteError_ServerError_OmitsErrorsList(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bootcamps", nil)

	WriteError(rr, req, errors.New(""))

	expectError(t, rr, http.StatusInternalServerError, "Server error")
	if env := decode(t, rr); env.Errors != nil {
		t.Errorf("expected no errors list, got %v", env.Errors)
	}
}
