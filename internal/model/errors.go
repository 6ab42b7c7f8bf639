package model

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is an error that carries its own HTTP status. Handlers and
// services return it for explicit business-rule failures; the error
// normalizer passes it through unchanged.
type APIError struct {
	Status  int
	Message string
	Details []string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// ErrorResponse is the failure envelope written for every error
type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Errors  []string `json:"errors,omitempty"`
}

// Envelope returns the JSON body for this error
func (e *APIError) Envelope() ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error:   e.Message,
		Errors:  e.Details,
	}
}

// WriteJSON writes the error envelope as JSON response
func (e *APIError) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status)
	_ = json.NewEncoder(w).Encode(e.Envelope())
}

// Common error constructors

func NewUnauthorizedError(message string) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Message: message}
}

func NewForbiddenError(message string) *APIError {
	return &APIError{Status: http.StatusForbidden, Message: message}
}

func NewNotFoundError(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Message: message}
}

func NewBadRequestError(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: message}
}

func NewValidationError(messages []string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Message: strings.Join(messages, ","),
		Details: messages,
	}
}

func NewInternalError(message string) *APIError {
	if message == "" {
		message = "Server error"
	}
	return &APIError{Status: http.StatusInternalServerError, Message: message}
}

func NewRateLimitError(retryAfter int) *APIError {
	return &APIError{
		Status:  http.StatusTooManyRequests,
		Message: fmt.Sprintf("Too many requests, retry after %d seconds", retryAfter),
	}
}

// InvalidIDError reports an identifier that is not a record id of the
// expected table.
type InvalidIDError struct {
	Value string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("Resource not found with id %s", e.Value)
}

// ValidationError carries one message per failed field
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ",")
}
