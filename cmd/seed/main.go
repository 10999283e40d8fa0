package main

import (
	"context"
	"log/slog"
	"os"

	"salescrm/internal/auth"
	"salescrm/internal/bootstrap"
	"salescrm/internal/config"
	"salescrm/internal/db"
	"salescrm/internal/logging"
	"salescrm/internal/repository"
	"salescrm/internal/service"
)

func main() {
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.LogLevel)

	logger.Info("starting seed script")
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	gormDB, err := db.Open(cfg, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("connected to database", slog.String("driver", cfg.DBDriver))

	credentials := service.NewCredentialService(
		repository.NewUserRepository(gormDB),
		auth.NewArgon2Hasher(auth.DefaultArgon2Params),
		logger,
	)

	report, err := bootstrap.Run(context.Background(), gormDB, credentials, bootstrap.Options{
		AdminUsername:        cfg.AdminUsername,
		AdminPassword:        cfg.AdminPassword,
		Reset:                cfg.ResetDB,
		DefaultAdminPassword: config.DefaultAdminPassword,
	}, logger)
	if err != nil {
		logger.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if report.ProductsSeeded == 0 {
		logger.Info("products table already populated, sample data skipped")
	}
	logger.Info("seed completed",
		slog.Bool("admin_created", report.AdminCreated),
		slog.Int("products", report.ProductsSeeded),
		slog.Int("sales", report.SalesSeeded),
		slog.Int("inventory_logs", report.LogsSeeded),
	)
}
