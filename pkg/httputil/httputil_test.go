package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/falahatiali/MoneyMentor/pkg/errors"
	"github.com/falahatiali/MoneyMentor/pkg/logger"
	"github.com/falahatiali/MoneyMentor/pkg/validator"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"ok": "yes"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":"yes"}`, rec.Body.String())
}

func TestWriteError_AppError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req = req.WithContext(logger.WithCorrelationID(req.Context(), "corr-7"))
	rec := httptest.NewRecorder()

	WriteError(rec, req, apperrors.Unauthorized("Invalid credentials"), nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	env := decode(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "UNAUTHORIZED", env.Code)
	assert.Equal(t, "Invalid credentials", env.Message)
	assert.Equal(t, "corr-7", env.RequestID)
	assert.False(t, env.Timestamp.IsZero())
}

func TestWriteError_UnknownErrorIsLoggedAndHidden(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewJSONHandler(&buf, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	WriteError(rec, req, fmt.Errorf("query users: %w", errors.New("pq: password authentication failed")), l)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", env.Code)
	assert.NotContains(t, env.Message, "password authentication")
	assert.Contains(t, buf.String(), "password authentication failed")
}

func TestWriteError_UsesRequestLogger(t *testing.T) {
	var scoped, fallback bytes.Buffer
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(logger.NewContext(context.Background(), slog.New(slog.NewJSONHandler(&scoped, nil))))

	WriteError(httptest.NewRecorder(), req, errors.New("boom"), slog.New(slog.NewJSONHandler(&fallback, nil)))

	assert.NotEmpty(t, scoped.String())
	assert.Empty(t, fallback.String())
}

func TestWriteValidationError(t *testing.T) {
	type body struct {
		Email string `json:"email" validate:"required,email"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	rec := httptest.NewRecorder()
	WriteValidationError(rec, req, validator.Validate(body{Email: "x"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)
	assert.Equal(t, []string{"email must be a valid email address"}, env.Errors)

	rec = httptest.NewRecorder()
	WriteValidationError(rec, req, errors.New("decode request body: unexpected EOF"))
	env = decode(t, rec)
	assert.Equal(t, "INVALID_INPUT", env.Code)
	assert.Empty(t, env.Errors)
}
