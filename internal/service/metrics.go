package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	outcomeSuccess            = "success"
	outcomeNotFound           = "not_found"
	outcomeInactive           = "inactive"
	outcomeLocked             = "locked"
	outcomeInvalidCredentials = "invalid_credentials"
	outcomeInvalidToken       = "invalid_token"
	outcomeDuplicate          = "duplicate"
	outcomeError              = "error"
)

var (
	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "moneymentor",
		Subsystem: "auth",
		Name:      "login_attempts_total",
		Help:      "Login attempts by outcome.",
	}, []string{"outcome"})

	accountLockouts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "moneymentor",
		Subsystem: "auth",
		Name:      "account_lockouts_total",
		Help:      "Accounts locked after repeated failed logins.",
	})

	tokenRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "moneymentor",
		Subsystem: "auth",
		Name:      "token_refreshes_total",
		Help:      "Refresh token exchanges by outcome.",
	}, []string{"outcome"})

	registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "moneymentor",
		Subsystem: "auth",
		Name:      "registrations_total",
		Help:      "Registration attempts by outcome.",
	}, []string{"outcome"})
)
