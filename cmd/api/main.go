package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/fitmeal/mealplan-backend/config"
	"github.com/fitmeal/mealplan-backend/internal/api"
	"github.com/fitmeal/mealplan-backend/internal/app"
	"github.com/fitmeal/mealplan-backend/internal/logging"
	"github.com/fitmeal/mealplan-backend/internal/middleware"
	"github.com/fitmeal/mealplan-backend/internal/router"
	"github.com/fitmeal/mealplan-backend/internal/server"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// .env is optional; real deployments use secrets and the environment
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.Env.GinMode())

	ctx := context.Background()
	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer a.Close()

	var limiter *middleware.RateLimiter
	if a.Redis != nil {
		limiter = middleware.NewPlanRateLimiter(a.Redis, cfg.RateLimit.Requests, cfg.RateLimit.Window, logger)
	}

	r := router.SetupRouter(router.Handlers{
		Plans:    api.NewPlanHandler(a.Plans, logger),
		Foods:    api.NewFoodHandler(a.Preferences, logger),
		Pairings: api.NewPairingHandler(a.Pairings, logger),
		Health:   api.NewHealthHandler(a.DB, a.Redis),
	}, router.Options{
		Auth:           a.Tokens,
		PlanLimiter:    limiter,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	})

	srv := server.New(cfg, r, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal("Server error", zap.Error(err))
		}
		return
	case sig := <-quit:
		logger.Info("Received signal", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
	logger.Info("Server stopped")
}
