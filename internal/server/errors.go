// Package server provides the HTTP API for the job board.
package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/web3-jobboard/internal/search"
)

// FieldDetail describes one invalid request field.
type FieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
	Details []FieldDetail
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnauthorized indicates a missing or invalid caller identity
type ErrUnauthorized struct {
	Reason string
}

func (e *ErrUnauthorized) Error() string {
	if e.Reason == "" {
		return "unauthorized"
	}
	return "unauthorized: " + e.Reason
}

// ErrNotFound indicates the requested resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Wrapped errors map the same as the error they wrap.
func HTTPStatus(err error) int {
	var validationErr *ErrValidation
	var unauthorizedErr *ErrUnauthorized
	var notFoundErr *ErrNotFound
	var storeErr *search.StoreError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &unauthorizedErr):
		return http.StatusUnauthorized
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &storeErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string        `json:"error"`
	Details []FieldDetail `json:"details,omitempty"`
}

// writeError maps err to a status and writes the error body.
// Internal failures are logged and reported without their cause.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	body := errorBody{Error: err.Error()}

	var validationErr *ErrValidation
	if errors.As(err, &validationErr) {
		body.Details = validationErr.Details
	}

	if status == http.StatusInternalServerError {
		log.Printf("[server] %s %s failed: %v", r.Method, r.URL.Path, err)
		body.Error = "internal error"
		var storeErr *search.StoreError
		if errors.As(err, &storeErr) {
			body.Error = "store failure"
		}
	}

	s.jsonResponse(w, status, body)
}

// validationError converts validator errors into an ErrValidation carrying
// every failing field.
func validationError(err error) *ErrValidation {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return &ErrValidation{Field: "body", Message: "invalid request"}
	}

	details := make([]FieldDetail, 0, len(validationErrors))
	for _, fe := range validationErrors {
		details = append(details, FieldDetail{Field: fe.Field(), Message: validationMessage(fe)})
	}
	return &ErrValidation{
		Field:   details[0].Field,
		Message: details[0].Message,
		Details: details,
	}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return fe.Tag()
	}
}
