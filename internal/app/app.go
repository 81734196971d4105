package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"github.com/falahatiali/MoneyMentor/internal/auth"
	"github.com/falahatiali/MoneyMentor/internal/config"
	handler "github.com/falahatiali/MoneyMentor/internal/handler/http"
	"github.com/falahatiali/MoneyMentor/internal/lockout"
	"github.com/falahatiali/MoneyMentor/internal/notify"
	"github.com/falahatiali/MoneyMentor/internal/repository/postgres"
	"github.com/falahatiali/MoneyMentor/internal/repository/redis"
	"github.com/falahatiali/MoneyMentor/internal/service"
	"github.com/falahatiali/MoneyMentor/migrations"
	"github.com/falahatiali/MoneyMentor/pkg/database"
	"github.com/falahatiali/MoneyMentor/pkg/health"
	pkgkafka "github.com/falahatiali/MoneyMentor/pkg/kafka"
	"github.com/falahatiali/MoneyMentor/pkg/middleware"
	"github.com/falahatiali/MoneyMentor/pkg/tracing"
)

// Version is reported to the tracer provider.
const Version = "0.1.0"

// App wires together all dependencies and runs the auth service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redis          *goredis.Client
	producer       *pkgkafka.Producer
	authService    *service.AuthService
	httpServer     *http.Server
	tracerShutdown tracing.Shutdown
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}
	if err := a.init(ctx); err != nil {
		a.closeClients()
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	cfg, logger := a.cfg, a.logger

	tracerShutdown, err := tracing.Init(ctx, cfg.Tracing(Version))
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	a.tracerShutdown = tracerShutdown

	// PostgreSQL
	pool, err := database.NewPostgresPool(ctx, cfg.Postgres(), logger)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	a.pool = pool
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, cfg.ServiceName); err != nil {
		logger.Warn("pool metrics not registered", slog.String("error", err.Error()))
	}

	applied, err := database.RunMigrations(ctx, pool, migrations.FS, logger)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed", slog.Int("applied", applied))

	if cfg.DBSlowQueryThreshold > 0 {
		database.SetSlowQueryLogging(cfg.DBSlowQueryThreshold, logger)
	}

	// Redis
	redisClient, err := database.NewRedisClient(ctx, cfg.Redis())
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	a.redis = redisClient
	logger.Info("connected to Redis", slog.String("addr", cfg.Redis().Addr()))

	// Notifications
	renderer := notify.Renderer{
		From:         cfg.MailFrom,
		FrontendURL:  cfg.FrontendURL,
		LockDuration: cfg.LockoutDuration,
	}
	var notifier notify.Notifier = notify.NewLogNotifier(renderer, logger)
	if cfg.KafkaEnabled {
		a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		notifier = notify.NewKafkaNotifier(a.producer, renderer, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Build the dependency graph.
	clock := auth.SystemClock{}
	jwtManager := auth.NewJWTManager(auth.Config{
		Secret:     cfg.JWTSecret,
		AccessTTL:  cfg.JWTAccessExpiry,
		RefreshTTL: cfg.JWTRefreshExpiry,
		Issuer:     cfg.JWTIssuer,
	}, clock)
	userRepo := postgres.NewUserRepository(pool)
	tokenCache := redis.NewTokenCache(redisClient, cfg.RedisPrefix)
	a.authService = service.NewAuthService(
		userRepo,
		tokenCache,
		auth.NewBcryptHasher(cfg.BcryptCost),
		jwtManager,
		notifier,
		service.Options{
			Lockout: lockout.Policy{MaxAttempts: cfg.LockoutMaxAttempts, Duration: cfg.LockoutDuration},
			Clock:   clock,
		},
		logger,
	)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical(handler.CheckPostgres, userRepo.Ping)
	healthHandler.RegisterCritical(handler.CheckRedis, tokenCache.Ping)
	if a.producer != nil {
		healthHandler.RegisterNonCritical(handler.CheckKafka, a.producer.Ping)
	}

	router := handler.NewRouter(a.authService, jwtManager, healthHandler, logger, handler.RouterConfig{
		ServiceName: cfg.ServiceName,
		CORS: middleware.CORSConfig{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowCredentials: true,
		},
	})

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return errors.Join(err, a.Shutdown())
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in order: drain HTTP, wait for
// pending notifications, flush spans, then close the clients.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	var errs []error

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// Notifications started by drained requests still need the producer.
	if err := a.authService.Wait(ctx); err != nil {
		a.logger.Error("pending notifications abandoned", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(ctx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	errs = append(errs, a.closeClients())

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

func (a *App) closeClients() error {
	var errs []error
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
	return errors.Join(errs...)
}
