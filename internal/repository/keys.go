package repository

import (
	"strconv"
	"time"
)

// Lifetimes of the one-time tokens kept in the TokenCache.
const (
	EmailVerificationTTL = 24 * time.Hour
	PasswordResetTTL     = time.Hour
)

// RefreshTokenKey is the cache key holding the single live refresh token of
// a user.
func RefreshTokenKey(userID int64) string {
	return "refresh_token:" + strconv.FormatInt(userID, 10)
}

// EmailVerificationKey maps a verification token to the user id it verifies.
func EmailVerificationKey(token string) string {
	return "email_verification:" + token
}

// PasswordResetKey maps a reset token to the user id whose password it resets.
func PasswordResetKey(token string) string {
	return "password_reset:" + token
}
