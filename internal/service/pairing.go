package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fitmeal/mealplan-backend/internal/learning"
	"github.com/fitmeal/mealplan-backend/internal/model"
	"github.com/fitmeal/mealplan-backend/internal/models"
	"github.com/fitmeal/mealplan-backend/internal/types"
)

const (
	pairCacheKey     = "mealplan:pairs:snapshot"
	defaultPairTTL   = time.Hour
	pairBatchSize    = 500
	snapshotMimeType = "application/json"
)

// ObjectStore is the subset of the S3 client used for pair snapshots.
type ObjectStore interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// pairSnapshot is the JSON document cached in redis and exported to S3.
type pairSnapshot struct {
	TrainedAt time.Time         `json:"trained_at"`
	Pairs     []model.PairScore `json:"pairs"`
}

// PairingService serves learned pair affinities. Reads go redis, then the
// database, then the S3 snapshot; retraining replaces the table and drops the
// cached copy.
type PairingService struct {
	db       *gorm.DB
	logs     *MealLogService
	foods    *FoodService
	redis    *redis.Client
	cacheTTL time.Duration
	objects  ObjectStore
	bucket   string
	key      string
	logger   *zap.Logger
	now      func() time.Time
}

// PairingOption configures optional PairingService backends.
type PairingOption func(*PairingService)

// WithPairCache caches snapshots in redis for ttl.
func WithPairCache(client *redis.Client, ttl time.Duration) PairingOption {
	return func(s *PairingService) {
		s.redis = client
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithSnapshotStore reads and writes snapshots at bucket/key.
func WithSnapshotStore(store ObjectStore, bucket, key string) PairingOption {
	return func(s *PairingService) {
		s.objects = store
		s.bucket = bucket
		s.key = key
	}
}

func NewPairingService(db *gorm.DB, logs *MealLogService, foods *FoodService, logger *zap.Logger, opts ...PairingOption) *PairingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &PairingService{
		db:       db,
		logs:     logs,
		foods:    foods,
		cacheTTL: defaultPairTTL,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current pairing table. An empty table is not an error.
func (s *PairingService) Snapshot(ctx context.Context) (model.PairingTable, error) {
	pairs, err := s.Pairs(ctx)
	if err != nil {
		return nil, err
	}
	return model.NewPairingTable(pairs), nil
}

// Pairs returns every stored pair score.
func (s *PairingService) Pairs(ctx context.Context) ([]model.PairScore, error) {
	if snap, ok := s.cached(ctx); ok {
		return snap.Pairs, nil
	}

	snap, err := s.fromDB(ctx)
	if err != nil {
		return nil, err
	}
	if len(snap.Pairs) == 0 && s.objects != nil {
		fromS3, err := s.fromS3(ctx)
		if err != nil {
			// a missing snapshot object only means nothing has been exported yet
			s.logger.Warn("pair snapshot unavailable in S3", zap.String("bucket", s.bucket), zap.Error(err))
		} else {
			snap = fromS3
		}
	}

	s.cache(ctx, snap)
	return snap.Pairs, nil
}

// Retrain rebuilds the pair table from every logged meal.
func (s *PairingService) Retrain(ctx context.Context) (*types.RetrainResponse, error) {
	meals, err := s.logs.Meals(ctx)
	if err != nil {
		return nil, err
	}
	names, err := s.foods.Names(ctx)
	if err != nil {
		return nil, err
	}

	pairs := learning.TrainPairs(meals, learning.TrainOptions{ValidNames: names})
	trainedAt := s.now().UTC()

	rows := make([]models.FoodPairScore, len(pairs))
	for i, p := range pairs {
		rows[i] = models.PairScoreRow(p, trainedAt)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.FoodPairScore{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(&rows, pairBatchSize).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to replace pair scores: %w", err)
	}

	s.invalidate(ctx)
	s.logger.Info("pair scores retrained", zap.Int("meals", len(meals)), zap.Int("pairs", len(pairs)))

	return &types.RetrainResponse{Pairs: len(pairs), Meals: len(meals), TrainedAt: trainedAt}, nil
}

// ExportToS3 writes the stored pairs to the snapshot object and returns the
// number of pairs written.
func (s *PairingService) ExportToS3(ctx context.Context) (int, error) {
	if s.objects == nil {
		return 0, errors.New("no snapshot store configured")
	}
	snap, err := s.fromDB(ctx)
	if err != nil {
		return 0, err
	}
	body, err := json.Marshal(snap)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal pair snapshot: %w", err)
	}

	_, err = s.objects.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(snapshotMimeType),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to upload pair snapshot: %w", err)
	}
	return len(snap.Pairs), nil
}

func (s *PairingService) fromDB(ctx context.Context) (pairSnapshot, error) {
	var rows []models.FoodPairScore
	if err := s.db.WithContext(ctx).Order("score DESC, food_a, food_b").Find(&rows).Error; err != nil {
		return pairSnapshot{}, fmt.Errorf("failed to load pair scores: %w", err)
	}
	snap := pairSnapshot{Pairs: make([]model.PairScore, len(rows))}
	for i, r := range rows {
		snap.Pairs[i] = r.PairScore()
		if r.TrainedAt.After(snap.TrainedAt) {
			snap.TrainedAt = r.TrainedAt
		}
	}
	return snap, nil
}

func (s *PairingService) fromS3(ctx context.Context) (pairSnapshot, error) {
	out, err := s.objects.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return pairSnapshot{}, err
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return pairSnapshot{}, fmt.Errorf("failed to read pair snapshot: %w", err)
	}
	var snap pairSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return pairSnapshot{}, fmt.Errorf("failed to decode pair snapshot: %w", err)
	}
	return snap, nil
}

func (s *PairingService) cached(ctx context.Context) (pairSnapshot, bool) {
	if s.redis == nil {
		return pairSnapshot{}, false
	}
	data, err := s.redis.Get(ctx, pairCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("pair cache read failed", zap.Error(err))
		}
		return pairSnapshot{}, false
	}
	var snap pairSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn("pair cache entry corrupt", zap.Error(err))
		return pairSnapshot{}, false
	}
	return snap, true
}

func (s *PairingService) cache(ctx context.Context, snap pairSnapshot) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, pairCacheKey, data, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("pair cache write failed", zap.Error(err))
	}
}

func (s *PairingService) invalidate(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, pairCacheKey).Err(); err != nil {
		s.logger.Warn("pair cache invalidation failed", zap.Error(err))
	}
}
