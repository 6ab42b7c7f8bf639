package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/forgo/devcamper/api/internal/config"
	"github.com/forgo/devcamper/api/internal/database"
	"github.com/forgo/devcamper/api/internal/handler"
	"github.com/forgo/devcamper/api/internal/jobs"
	"github.com/forgo/devcamper/api/internal/middleware"
	"github.com/forgo/devcamper/api/internal/repository"
	"github.com/forgo/devcamper/api/internal/service"
	"github.com/forgo/devcamper/api/migrations"
	"github.com/forgo/devcamper/api/pkg/jwt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
		TLS:       cfg.Database.TLS,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	if cfg.Database.Migrate {
		if err := database.Migrate(ctx, db, migrations.Files); err != nil {
			slog.Error("failed to apply migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// Initialize JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		Secret:     []byte(cfg.JWT.Secret),
		Issuer:     cfg.JWT.Issuer,
		Expiration: cfg.JWT.Expiration,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	revocations, err := newRevocationStore(ctx, cfg, jwtService.GetExpiration())
	if err != nil {
		slog.Error("failed to initialize token revocation", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = revocations.Close() }()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	bootcampRepo := repository.NewBootcampRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	// Initialize services
	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:    userRepo,
		JWTService:  jwtService,
		Revocations: revocations,
	})
	userService := service.NewUserService(service.UserServiceConfig{
		UserRepo: userRepo,
	})
	bootcampService := service.NewBootcampService(service.BootcampServiceConfig{
		BootcampRepo: bootcampRepo,
	})
	courseService := service.NewCourseService(service.CourseServiceConfig{
		CourseRepo:   courseRepo,
		BootcampRepo: bootcampRepo,
	})
	reviewService := service.NewReviewService(service.ReviewServiceConfig{
		ReviewRepo:   reviewRepo,
		BootcampRepo: bootcampRepo,
	})

	// Start background jobs
	runner := jobs.NewRunner(jobs.RunnerConfig{Logger: logger})
	if cfg.Jobs.ReconcileSchedule != "" {
		aggregates := service.NewAggregateService(service.AggregateServiceConfig{
			BootcampRepo: bootcampRepo,
			CourseRepo:   courseRepo,
			ReviewRepo:   reviewRepo,
		})
		if err := runner.Schedule(cfg.Jobs.ReconcileSchedule, jobs.NewAggregateReconciler(aggregates)); err != nil {
			slog.Error("failed to schedule aggregate reconciler", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
	runner.Start()
	defer runner.Stop()

	// Create router and register routes
	mux := http.NewServeMux()
	// The global limiter only sees the remote address; this one runs behind
	// Auth and buckets authenticated callers by user id.
	principalLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RPS:   cfg.RateLimit.RPS,
		Burst: cfg.RateLimit.Burst,
	})
	defer principalLimiter.Stop()

	guard := handler.Guard{
		Auth:  middleware.Auth(authService),
		Limit: middleware.RateLimit(principalLimiter),
	}

	handler.NewHealthHandler(db).RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	handler.NewAuthHandler(handler.AuthHandlerConfig{
		AuthService:  authService,
		CookieMaxAge: cfg.CookieMaxAge(),
		SecureCookie: cfg.IsProduction(),
	}).RegisterRoutes(mux, guard)
	handler.NewUserHandler(userService).RegisterRoutes(mux, guard)
	handler.NewBootcampHandler(bootcampService).RegisterRoutes(mux, guard)
	handler.NewCourseHandler(courseService).RegisterRoutes(mux, guard)
	handler.NewReviewHandler(reviewService).RegisterRoutes(mux, guard)
	mux.HandleFunc("/", handler.NotFound)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RPS:   cfg.RateLimit.RPS,
		Burst: cfg.RateLimit.Burst,
	})
	defer rateLimiter.Stop()

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.Metrics,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.RateLimit(rateLimiter),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}

// newRevocationStore picks Redis when REDIS_URL is set and an in-process
// LRU otherwise. Entries never need to outlive a token, so the LRU expires
// them after tokenTTL.
func newRevocationStore(ctx context.Context, cfg *config.Config, tokenTTL time.Duration) (service.RevocationStore, error) {
	if cfg.UseRedisRevocation() {
		store, err := service.NewRedisRevocationStore(ctx, cfg.Revocation.RedisURL)
		if err != nil {
			return nil, err
		}
		slog.Info("token revocation backed by redis")
		return store, nil
	}
	slog.Info("token revocation backed by in-memory cache",
		slog.Int("size", cfg.Revocation.CacheSize),
	)
	return service.NewMemoryRevocationStore(cfg.Revocation.CacheSize, tokenTTL), nil
}
