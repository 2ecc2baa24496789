// Package app wires configuration into the database, redis, S3 and the
// services shared by the binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fitmeal/mealplan-backend/config"
	"github.com/fitmeal/mealplan-backend/internal/database"
	"github.com/fitmeal/mealplan-backend/internal/planner"
	"github.com/fitmeal/mealplan-backend/internal/service"
)

// App holds the connections and services built from a Config.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *gorm.DB
	Redis  *redis.Client
	S3     *config.S3Config

	Foods       *service.FoodService
	Preferences *service.PreferenceService
	MealLogs    *service.MealLogService
	Pairings    *service.PairingService
	Plans       *service.PlanService
	Tokens      *service.TokenService
}

// Build connects to every configured backend and migrates the schema. Redis
// and S3 are skipped when unconfigured.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	db, err := database.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Logger: logger, DB: db}

	if cfg.RedisEnabled() {
		a.Redis, err = database.NewRedisClient(cfg, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
	} else {
		logger.Warn("redis not configured; pair cache and rate limiting disabled, plan drafts kept in memory")
	}

	if cfg.S3Enabled() {
		a.S3, err = config.NewS3Config(ctx, cfg)
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	plannerOpts, err := plannerOptions(cfg.Planner)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Foods = service.NewFoodService(db)
	a.Preferences = service.NewPreferenceService(db, a.Foods)
	a.MealLogs = service.NewMealLogService(db)
	a.Tokens = service.NewTokenService(cfg.JWTSecret)

	var pairOpts []service.PairingOption
	var drafts service.DraftStore = service.NewMemoryDraftStore()
	if a.Redis != nil {
		pairOpts = append(pairOpts, service.WithPairCache(a.Redis, 0))
		drafts = service.NewRedisDraftStore(a.Redis)
	}
	if a.S3 != nil {
		pairOpts = append(pairOpts, service.WithSnapshotStore(a.S3.Client, a.S3.BucketName, a.S3.PairKey))
	}
	a.Pairings = service.NewPairingService(db, a.MealLogs, a.Foods, logger, pairOpts...)
	a.Plans = service.NewPlanService(a.Foods, a.Preferences, a.Pairings, a.MealLogs, drafts, cfg.PlanDraftTTL, logger, plannerOpts...)

	return a, nil
}

func plannerOptions(cfg config.PlannerConfig) ([]planner.Option, error) {
	opts := []planner.Option{
		planner.WithRetryLimit(cfg.RetryLimit),
		planner.WithTolRatio(cfg.TolRatio),
		planner.WithSeed(cfg.Seed),
	}
	if cfg.RulesPath != "" {
		f, err := os.Open(cfg.RulesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open planner rules: %w", err)
		}
		defer f.Close()
		rules, err := planner.LoadRules(f)
		if err != nil {
			return nil, fmt.Errorf("failed to load planner rules %s: %w", cfg.RulesPath, err)
		}
		opts = append(opts, planner.WithRules(rules))
	}
	return opts, nil
}

// Close releases the database and redis connections.
func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
