package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"salescrm/docs" // swagger docs
	"salescrm/internal/auth"
	"salescrm/internal/bootstrap"
	"salescrm/internal/cache"
	"salescrm/internal/config"
	"salescrm/internal/db"
	"salescrm/internal/handler"
	"salescrm/internal/logging"
	"salescrm/internal/repository"
	"salescrm/internal/router"
	"salescrm/internal/service"
)

// @title Sales CRM API
// @version 1.0
// @description Sales CRM API with product catalog, customer feedback, an admin SQL console and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.Open(cfg, logger)
	if err != nil {
		return err
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		logger.Warn("redis unavailable; caching and token revocation are disabled", slog.String("error", err.Error()))
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)
	feedbackRepo := repository.NewFeedbackRepository(gormDB)
	consoleRepo := repository.NewConsoleRepository(gormDB)

	// Initialize auth components
	hasher := auth.NewArgon2Hasher(auth.DefaultArgon2Params)
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	credentialService := service.NewCredentialService(userRepo, hasher, logger)
	authService := service.NewAuthService(credentialService, jwtService, tokenStore, logger)
	catalogService := service.NewCatalogService(productRepo, cacheClient)
	feedbackService := service.NewFeedbackService(feedbackRepo, logger)
	dashboardService := service.NewDashboardService(productRepo, feedbackRepo)
	consoleService := service.NewConsoleService(consoleRepo, cfg.ConsoleTimeout, func(ctx context.Context) {
		if err := catalogService.InvalidateCache(ctx); err != nil {
			logger.Warn("catalog cache invalidation failed", slog.String("error", err.Error()))
		}
	}, logger)

	if _, err := bootstrap.Run(ctx, gormDB, credentialService, bootstrap.Options{
		AdminUsername:        cfg.AdminUsername,
		AdminPassword:        cfg.AdminPassword,
		Reset:                cfg.ResetDB,
		DefaultAdminPassword: config.DefaultAdminPassword,
	}, logger); err != nil {
		return err
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	productHandler := handler.NewProductHandler(catalogService, feedbackService)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService, catalogService)
	consoleHandler := handler.NewConsoleHandler(consoleService, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Register routes
	router.Register(
		e,
		logger,
		jwtService,
		tokenStore,
		authHandler,
		dashboardHandler,
		productHandler,
		feedbackHandler,
		consoleHandler,
	)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "http://"), "https://")
	}
	logger.Info("swagger documentation available",
		slog.String("url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html"))

	addr := ":" + cfg.ServerPort
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
