// Package lockout decides when repeated failed logins lock an account.
// The functions are pure: they return an updated copy and leave persistence
// to the caller.
package lockout

import (
	"time"

	"github.com/falahatiali/MoneyMentor/internal/domain"
)

const (
	DefaultMaxAttempts = 5
	DefaultDuration    = 30 * time.Minute
)

// Policy configures the lockout threshold. The zero value uses the defaults.
type Policy struct {
	MaxAttempts int
	Duration    time.Duration
}

func (p Policy) maxAttempts() int {
	if p.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return p.MaxAttempts
}

func (p Policy) duration() time.Duration {
	if p.Duration <= 0 {
		return DefaultDuration
	}
	return p.Duration
}

// OnFailedLogin counts one more failure. Reaching the threshold locks the
// account until now+Duration. Below the threshold an existing lock is left
// as it is. An expired lock does not reset the counter, so the first failure
// after expiry locks again; only a successful login or Reset clears it.
func (p Policy) OnFailedLogin(u domain.User, now time.Time) domain.User {
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= p.maxAttempts() {
		until := now.Add(p.duration())
		u.LockedUntil = &until
	}
	u.UpdatedAt = now
	return u
}

// OnSuccessfulLogin clears the failure counter and lock and records the login.
func (p Policy) OnSuccessfulLogin(u domain.User, ip string, now time.Time) domain.User {
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	at := now
	u.LastLoginAt = &at
	u.LastLoginIP = ip
	u.UpdatedAt = now
	return u
}

// IsLocked reports whether a lock is in force at now.
func (p Policy) IsLocked(u domain.User, now time.Time) bool {
	return u.IsLockedAt(now)
}

// JustLocked reports whether the failure that produced after is the one that
// locked the account.
func (p Policy) JustLocked(before, after domain.User, now time.Time) bool {
	return !before.IsLockedAt(now) && after.IsLockedAt(now)
}

// Reset clears the counter and lock without recording a login, as after a
// password reset.
func (p Policy) Reset(u domain.User, now time.Time) domain.User {
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	u.UpdatedAt = now
	return u
}
