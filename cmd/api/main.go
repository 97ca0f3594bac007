package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/veriface-labs/veriface/internal/api"
	"github.com/veriface-labs/veriface/internal/auth"
	"github.com/veriface-labs/veriface/internal/config"
	"github.com/veriface-labs/veriface/internal/database"
	"github.com/veriface-labs/veriface/internal/face"
	"github.com/veriface-labs/veriface/internal/liveness"
	"github.com/veriface-labs/veriface/internal/ratelimit"
	"github.com/veriface-labs/veriface/internal/repository"
	"github.com/veriface-labs/veriface/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting VeriFace API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.String("face_locator", cfg.FaceLocator),
		slog.Bool("depth_enabled", cfg.DepthEnabled),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database pool
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	// Providers are mandatory at startup: a locator that cannot load its
	// model must abort here, not fail requests later
	registry, err := face.NewRegistry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build providers: %w", err)
	}

	// Liveness engine
	engine := liveness.NewEngine(registry.Locator, registry.Depth, cfg.LivenessConfig(), logger)

	// Repositories and services
	userRepo := repository.NewUserRepository(pool)
	attemptRepo := repository.NewAuthAttemptRepository(pool)
	limiter := ratelimit.NewRateLimiter(pool, cfg.LoginRateWindow)

	jwtService := auth.NewJWTService(
		cfg.AccessTokenSecret,
		cfg.RefreshTokenSecret,
		"veriface-api",
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
	)

	authService := service.NewAuthService(
		userRepo,
		attemptRepo,
		limiter,
		engine,
		registry.Embedder,
		jwtService,
		logger,
	).
		WithThreshold(cfg.SimilarityThreshold).
		WithAdaptiveAlpha(cfg.AdaptiveAlpha).
		WithLoginLimit(cfg.LoginRateLimit)

	// Setup router
	router := api.NewRouter(logger, &api.Dependencies{
		AuthService: authService,
		JWTService:  jwtService,
		DB:          pool,
		Config:      cfg,
	})
	router.Setup()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down server...")
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	<-shutdownCtx.Done()
	logger.Info("server stopped")

	return nil
}
