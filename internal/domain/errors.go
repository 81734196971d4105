package domain

import (
	"net/http"

	apperrors "github.com/falahatiali/MoneyMentor/pkg/errors"
)

// Authentication failures. Each carries a stable code and the message shown
// to clients; compare with errors.Is.
var (
	ErrDuplicateEmail = apperrors.New("DUPLICATE_EMAIL",
		"User with this email already exists", http.StatusConflict, apperrors.ErrAlreadyExists)
	ErrDuplicateUsername = apperrors.New("DUPLICATE_USERNAME",
		"Username already taken", http.StatusConflict, apperrors.ErrAlreadyExists)
	ErrDuplicateMobile = apperrors.New("DUPLICATE_MOBILE",
		"Mobile number already registered", http.StatusConflict, apperrors.ErrAlreadyExists)
	ErrUserNotFound = apperrors.New("NOT_FOUND",
		"User not found", http.StatusNotFound, apperrors.ErrNotFound)
	ErrInactiveAccount = apperrors.New("INACTIVE_ACCOUNT",
		"Account is not active. Please verify your email or contact support.", http.StatusForbidden, apperrors.ErrForbidden)
	ErrAccountLocked = apperrors.New("ACCOUNT_LOCKED",
		"Account is temporarily locked due to multiple failed login attempts.", http.StatusLocked, apperrors.ErrLocked)
	ErrInvalidCredentials = apperrors.New("INVALID_CREDENTIALS",
		"Invalid credentials", http.StatusUnauthorized, apperrors.ErrUnauthorized)
	ErrInvalidToken = apperrors.New("INVALID_TOKEN",
		"Invalid or expired token", http.StatusUnauthorized, apperrors.ErrUnauthorized)
	ErrInvalidRefreshToken = apperrors.New("INVALID_REFRESH_TOKEN",
		"Invalid refresh token", http.StatusUnauthorized, apperrors.ErrUnauthorized)
	ErrCollaboratorUnavailable = apperrors.New("SERVICE_UNAVAILABLE",
		"Service temporarily unavailable. Please try again later.", http.StatusServiceUnavailable, apperrors.ErrServiceUnavail)
)
