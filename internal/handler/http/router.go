package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/falahatiali/MoneyMentor/pkg/health"
	"github.com/falahatiali/MoneyMentor/pkg/middleware"
)

// Health check names registered by the application and exposed under
// /api/health.
const (
	CheckPostgres = "postgres"
	CheckRedis    = "redis"
	CheckKafka    = "kafka"
)

// RouterConfig holds the transport settings that vary per deployment.
type RouterConfig struct {
	ServiceName string
	CORS        middleware.CORSConfig
}

// NewRouter creates a chi router with all auth service routes registered.
func NewRouter(
	authService AuthService,
	verifier middleware.TokenVerifier,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/api/health/database", healthHandler.CheckHandler(CheckPostgres))
	r.Get("/api/health/redis", healthHandler.CheckHandler(CheckRedis))
	r.Get("/api/health/all", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	authHandler := NewAuthHandler(authService, logger)
	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)

			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password", authHandler.ResetPassword)
			r.Post("/verify-email", authHandler.VerifyEmail)
			r.Post("/resend-verification", authHandler.ResendVerification)
		})

		// Logout and me take no body.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(verifier))

			r.Post("/logout", authHandler.Logout)
			r.With(ContentTypeJSON).Post("/change-password", authHandler.ChangePassword)
			r.Get("/me", authHandler.Me)
		})
	})

	return r
}
