package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"database/sql"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(2, 10, 25)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 10, meta.Limit)
	assert.Equal(t, 25, meta.Total)
	assert.Equal(t, 3, meta.TotalPages)

	meta = NewMeta(1, 0, 5)
	assert.Equal(t, 5, meta.TotalPages, "zero limit must not divide by zero")
}

func TestWriteData(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteData(rec, http.StatusOK, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	env := decodeBody(t, rec)
	assert.True(t, env.Success)
}

func TestWriteError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	t.Run("APIError", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, req, NotFound("Order not found"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		env := decodeBody(t, rec)
		assert.False(t, env.Success)
		assert.Equal(t, "Order not found", env.Message)
	})

	t.Run("ValidationError", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, req, ValidationError([]FieldError{
			{Field: "email", Message: "email is required"},
		}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeBody(t, rec)
		require.Len(t, env.Errors, 1)
		assert.Equal(t, "email", env.Errors[0].Field)
	})

	t.Run("NoRows", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, req, sql.ErrNoRows)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("UniqueViolation", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, req, &pq.Error{Code: "23505", Constraint: "products_slug_key"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("ForeignKeyViolation", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, req, &pq.Error{Code: "23503"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Unknown", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, req, errors.New("boom"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		env := decodeBody(t, rec)
		assert.Equal(t, "Internal server error", env.Message, "internals must stay hidden")
	})
}

func TestIsUniqueViolation(t *testing.T) {
	err := &pq.Error{Code: "23505", Constraint: "users_email_key"}

	assert.True(t, IsUniqueViolation(err, ""))
	assert.True(t, IsUniqueViolation(err, "users_email_key"))
	assert.False(t, IsUniqueViolation(err, "orders_order_number_key"))
	assert.False(t, IsUniqueViolation(errors.New("other"), ""))
}
