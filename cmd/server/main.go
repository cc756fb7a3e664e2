package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"google.golang.org/grpc/health"

	auth_service "landing/internal/application/service/auth"
	post_service "landing/internal/application/service/post"
	auth_port "landing/internal/domain/ports/input/auth"
	post_port "landing/internal/domain/ports/input/post"
	"landing/internal/infrastructure/config"
	grpc_server "landing/internal/infrastructure/inbound/grpc"
	"landing/internal/infrastructure/inbound/httpserver"
	"landing/internal/infrastructure/inbound/httpserver/middleware"
	metrics_server "landing/internal/infrastructure/inbound/metrics"
	"landing/internal/infrastructure/logger"
	redis_cache "landing/internal/infrastructure/outbound/cache/redis"
	prometheus_metrics "landing/internal/infrastructure/outbound/metrics/prometheus"
	post_postgres "landing/internal/infrastructure/outbound/repository/post/postgres"
	"landing/internal/infrastructure/outbound/repository/postgres"
	session_postgres "landing/internal/infrastructure/outbound/repository/session/postgres"
	user_postgres "landing/internal/infrastructure/outbound/repository/user/postgres"
	"landing/internal/infrastructure/outbound/security/password"
	"landing/internal/infrastructure/outbound/security/token"
)

const (
	shutdownTimeout       = 30 * time.Second
	healthCheckInterval   = 15 * time.Second
	limiterCleanupEvery   = time.Minute
	limiterIdleExpiration = 10 * time.Minute
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	migrator, err := postgres.NewMigrator(cfg.Database.DSN(), cfg.Database.MigrationsPath, log)
	if err != nil {
		log.Error("Failed to create migrator", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := migrator.Up(); err != nil {
		log.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := migrator.Close(); err != nil {
		log.Warn("Failed to close migrator", slog.String("error", err.Error()))
	}

	pool, err := postgres.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Error("Failed to create postgres pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	metrics := prometheus_metrics.NewPrometheusMetricsProvider()
	metrics.SetServiceHealth(true)

	unitOfWork := postgres.NewPostgresUOW(pool, log, metrics)
	userRepo := user_postgres.NewUserRepository(pool, log, metrics)
	sessionRepo := session_postgres.NewSessionRepository(pool, log, metrics)
	postRepo := post_postgres.NewPostRepository(pool, log, metrics)

	tokens := token.NewGenerator()
	var authService auth_port.Service = auth_service.NewAuthService(
		unitOfWork,
		userRepo,
		sessionRepo,
		password.NewBcryptHasher(cfg.Auth.BcryptCost),
		tokens,
		cfg.Auth.SessionTTL,
		log,
		metrics,
	)
	var postService post_port.Service = post_service.NewPostService(postRepo, log, metrics)

	healthChecks := map[string]grpc_server.Pinger{"postgres": pool}

	if cfg.Redis.Enabled {
		log.Info("Connecting to Redis",
			slog.String("address", cfg.Redis.Address),
			slog.Int("port", cfg.Redis.Port),
			slog.Int("db", cfg.Redis.DB))
		redisClient, err := redis_cache.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Error("Failed to create Redis client", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", slog.String("error", err.Error()))
			}
		}()

		sessionCache := redis_cache.NewSessionCache(redisClient, cfg.Redis.SessionTTL, log)
		postCache := redis_cache.NewPostCache(redisClient, log)
		authService = auth_service.NewAuthServiceCacheDecorator(authService, sessionCache, tokens, log, metrics)
		postService = post_service.NewPostServiceCacheDecorator(postService, postCache, log, metrics)
		healthChecks["redis"] = redisClient
	}

	loginLimiter := middleware.NewLimiterRegistry(cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateBurst)
	router := httpserver.NewRouter(httpserver.RouterDeps{
		AuthService:    authService,
		PostService:    postService,
		Validate:       validator.New(),
		Log:            log,
		Metrics:        metrics,
		LoginLimiter:   loginLimiter,
		AllowedOrigins: cfg.HTTPServer.AllowedOrigins,
		SecureCookies:  cfg.HTTPServer.SecureCookies,
		TrustProxy:     cfg.HTTPServer.TrustProxy,
	})

	httpServer := httpserver.NewServer(router, cfg.HTTPServer, log)
	metricsServer := metrics_server.NewServer(cfg.Prometheus.Address, cfg.Prometheus.Port, log)

	healthServer := health.NewServer()
	grpcServer := grpc_server.NewServer(healthServer, cfg.GRPCServer.Address, cfg.GRPCServer.Port, log, metrics)
	healthChecker := grpc_server.NewHealthChecker(healthServer, healthChecks, log, metrics)

	go auth_service.RunSessionJanitor(ctx, authService, cfg.Auth.SessionCleanupInterval, log)
	go healthChecker.Run(ctx, healthCheckInterval)
	go func() {
		ticker := time.NewTicker(limiterCleanupEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := loginLimiter.Cleanup(limiterIdleExpiration); removed > 0 {
					log.Debug("Dropped idle login limiters", slog.Int("count", removed))
				}
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	httpDone := make(chan bool, 1)
	grpcDone := make(chan bool, 1)
	metricsDone := make(chan bool, 1)

	go func() {
		if err := httpServer.Run(); err != nil {
			log.Error("HTTP server error", slog.String("error", err.Error()))
		}
		httpDone <- true
	}()

	go func() {
		if err := grpcServer.Run(); err != nil {
			log.Error("gRPC server error", slog.String("error", err.Error()))
		}
		grpcDone <- true
	}()

	go func() {
		if err := metricsServer.Run(); err != nil {
			log.Error("Metrics server error", slog.String("error", err.Error()))
		}
		metricsDone <- true
	}()

	<-quit
	log.Info("Shutting down servers...")

	metrics.SetServiceHealth(false)
	cancel()

	timeout := cfg.HTTPServer.ShutdownTimeout
	if timeout <= 0 {
		timeout = shutdownTimeout
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", slog.String("error", err.Error()))
	}

	if err := grpcServer.Shutdown(); err != nil {
		log.Error("gRPC server shutdown error", slog.String("error", err.Error()))
	}

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Metrics server shutdown error", slog.String("error", err.Error()))
	}

	<-httpDone
	<-grpcDone
	<-metricsDone

	log.Info("Server exited")
}
