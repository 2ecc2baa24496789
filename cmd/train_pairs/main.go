package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/fitmeal/mealplan-backend/config"
	"github.com/fitmeal/mealplan-backend/internal/app"
	"github.com/fitmeal/mealplan-backend/internal/logging"
)

func main() {
	export := flag.Bool("export", false, "Upload the trained pairs to the S3 snapshot object")
	urlTTL := flag.Duration("url-ttl", 15*time.Minute, "Lifetime of the presigned snapshot URL printed after export")
	timeout := flag.Duration("timeout", 10*time.Minute, "Overall time limit")
	flag.Parse()

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

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer a.Close()

	res, err := a.Pairings.Retrain(ctx)
	if err != nil {
		logger.Fatal("Retrain failed", zap.Error(err))
	}
	logger.Info("Retrain finished",
		zap.Int("meals", res.Meals),
		zap.Int("pairs", res.Pairs),
		zap.Time("trained_at", res.TrainedAt),
	)

	if !*export {
		return
	}
	if a.S3 == nil {
		logger.Fatal("Export requested but S3 is not configured", zap.Error(config.ErrS3Disabled))
	}
	n, err := a.Pairings.ExportToS3(ctx)
	if err != nil {
		logger.Fatal("Export failed", zap.Error(err))
	}
	url, err := a.S3.GeneratePresignedURL(ctx, a.S3.PairKey, *urlTTL)
	if err != nil {
		logger.Fatal("Failed to presign snapshot URL", zap.Error(err))
	}
	logger.Info("Snapshot exported", zap.Int("pairs", n), zap.String("bucket", a.S3.BucketName), zap.String("url", url))
}
