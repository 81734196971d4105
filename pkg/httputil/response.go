package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	apperrors "github.com/falahatiali/MoneyMentor/pkg/errors"
	"github.com/falahatiali/MoneyMentor/pkg/logger"
	"github.com/falahatiali/MoneyMentor/pkg/validator"
)

// Envelope is the body shape of every JSON response the service writes.
type Envelope struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      any       `json:"data,omitempty"`
	Errors    []string  `json:"errors,omitempty"`
	Code      string    `json:"code,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; an encode failure cannot be reported.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError renders err as a failed envelope. AppErrors keep their code,
// message and status. Anything else is logged and reported as a generic 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() && fallback != nil {
		l = fallback
	}

	env := Envelope{
		RequestID: logger.CorrelationIDFromContext(r.Context()),
		Timestamp: time.Now().UTC(),
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		env.Code = appErr.Code
		env.Message = appErr.Message
		WriteJSON(w, appErr.Status, env)
		return
	}

	status := apperrors.HTTPStatus(err)
	env.Code = apperrors.Code(err)
	env.Message = http.StatusText(status)
	if status >= http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "request failed",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}
	WriteJSON(w, status, env)
}

// WriteValidationError renders a 400 with one entry per failing field.
func WriteValidationError(w http.ResponseWriter, r *http.Request, err error) {
	env := Envelope{
		Message:   "Validation failed",
		Code:      "VALIDATION_ERROR",
		RequestID: logger.CorrelationIDFromContext(r.Context()),
		Timestamp: time.Now().UTC(),
	}

	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		env.Errors = valErr.Messages()
	} else {
		env.Code = "INVALID_INPUT"
		env.Message = "Malformed request body"
	}
	WriteJSON(w, http.StatusBadRequest, env)
}
