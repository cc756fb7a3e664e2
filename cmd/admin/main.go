package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	auth_service "landing/internal/application/service/auth"
	"landing/internal/infrastructure/config"
	admin_cli "landing/internal/infrastructure/inbound/cli"
	"landing/internal/infrastructure/logger"
	prometheus_metrics "landing/internal/infrastructure/outbound/metrics/prometheus"
	"landing/internal/infrastructure/outbound/repository/postgres"
	session_postgres "landing/internal/infrastructure/outbound/repository/session/postgres"
	user_postgres "landing/internal/infrastructure/outbound/repository/user/postgres"
	"landing/internal/infrastructure/outbound/security/password"
	"landing/internal/infrastructure/outbound/security/token"
)

func loadConfig(c *cli.Context) (*config.Config, error) {
	return config.Load(c.String("config-dir"))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := admin_cli.NewApp(admin_cli.Deps{
		Services: func(c *cli.Context) (*admin_cli.Services, func(), error) {
			cfg, err := loadConfig(c)
			if err != nil {
				return nil, nil, err
			}
			log := logger.New(cfg.Env)
			metrics := prometheus_metrics.NewPrometheusMetricsProvider()

			pool, err := postgres.NewPool(c.Context, cfg.Database, log)
			if err != nil {
				return nil, nil, err
			}

			users := user_postgres.NewUserRepository(pool, log, metrics)
			sessions := session_postgres.NewSessionRepository(pool, log, metrics)
			auth := auth_service.NewAuthService(
				postgres.NewPostgresUOW(pool, log, metrics),
				users,
				sessions,
				password.NewBcryptHasher(cfg.Auth.BcryptCost),
				token.NewGenerator(),
				cfg.Auth.SessionTTL,
				log,
				metrics,
			)
			return &admin_cli.Services{Auth: auth, Users: users}, pool.Close, nil
		},
		Migrator: func(c *cli.Context) (admin_cli.Migrator, error) {
			cfg, err := loadConfig(c)
			if err != nil {
				return nil, err
			}
			m, err := postgres.NewMigrator(cfg.Database.DSN(), cfg.Database.MigrationsPath, logger.New(cfg.Env))
			if err != nil {
				return nil, err
			}
			return m, nil
		},
	})

	code := admin_cli.Run(ctx, app, os.Args)
	stop()
	os.Exit(code)
}
