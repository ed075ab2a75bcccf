package httpapi

import (
	"database/sql"
	"errors"
	"net/http"

	"sushiwave-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type FieldError struct {
	Field       string `json:"field,omitempty"`
	ProductID   string `json:"productId,omitempty"`
	ProductName string `json:"productName,omitempty"`
	Message     string `json:"message"`
}

// Error is the one error kind handlers surface to clients. Anything else
// falls through to a generic 500.
type Error struct {
	Status  int
	Message string
	Fields  []FieldError
}

func (e *Error) Error() string {
	return e.Message
}

func NewError(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func BadRequest(message string) *Error {
	return NewError(http.StatusBadRequest, message)
}

func Unauthorized(message string) *Error {
	return NewError(http.StatusUnauthorized, message)
}

func Forbidden(message string) *Error {
	return NewError(http.StatusForbidden, message)
}

func NotFound(message string) *Error {
	return NewError(http.StatusNotFound, message)
}

func Conflict(message string) *Error {
	return NewError(http.StatusConflict, message)
}

func ValidationError(fields []FieldError) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Message: "Validation error",
		Fields:  fields,
	}
}

// Postgres error codes surfaced as client errors.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

// WriteError maps err to a status code and the uniform envelope. Unknown
// errors become a generic 500 with details kept out of the response.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		writeEnvelope(w, apiErr.Status, Envelope{
			Success: false,
			Message: apiErr.Message,
			Errors:  apiErr.Fields,
		})
		return
	}

	if errors.Is(err, sql.ErrNoRows) {
		writeEnvelope(w, http.StatusNotFound, Envelope{Success: false, Message: "Record not found"})
		return
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			writeEnvelope(w, http.StatusConflict, Envelope{Success: false, Message: "Resource already exists"})
			return
		case pqForeignKeyViolation:
			writeEnvelope(w, http.StatusBadRequest, Envelope{Success: false, Message: "Referenced record does not exist"})
			return
		}
	}

	logger.FromCtx(r.Context()).Error("unhandled error",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeEnvelope(w, http.StatusInternalServerError, Envelope{
		Success: false,
		Message: "Internal server error",
	})
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation, optionally on the named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != pqUniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}
