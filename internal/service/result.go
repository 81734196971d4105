package service

import (
	"errors"
	"time"

	apperrors "github.com/falahatiali/MoneyMentor/pkg/errors"
)

const unexpectedErrorMessage = "An unexpected error occurred"

// Result is the envelope every auth operation returns. Failures are carried
// in the envelope rather than returned as errors; Err exposes the tagged
// failure so transport can pick a status code.
type Result[T any] struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      *T        `json:"data,omitempty"`
	Errors    []string  `json:"errors,omitempty"`
	Code      string    `json:"code,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	err error
}

// Err returns the failure behind an unsuccessful result, or nil.
func (r Result[T]) Err() error {
	return r.err
}

// OK builds a successful result.
func OK[T any](at time.Time, message string, data *T) Result[T] {
	return Result[T]{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: at,
	}
}

// Fail builds a failed result. Application errors contribute their code and
// message; anything else is reported generically.
func Fail[T any](at time.Time, err error) Result[T] {
	res := Result[T]{
		Message:   unexpectedErrorMessage,
		Code:      "INTERNAL_ERROR",
		Timestamp: at,
		err:       err,
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		res.Message = appErr.Message
		res.Code = appErr.Code
	}
	return res
}
