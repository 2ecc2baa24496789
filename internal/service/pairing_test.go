package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fitmeal/mealplan-backend/internal/model"
	"github.com/fitmeal/mealplan-backend/internal/models"
)

type mockObjectStore struct {
	mock.Mock
}

func (m *mockObjectStore) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.PutObjectOutput)
	return out, args.Error(1)
}

func (m *mockObjectStore) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.GetObjectOutput)
	return out, args.Error(1)
}

func newPairing(t *testing.T, opts ...PairingOption) (*PairingService, *MealLogService) {
	t.Helper()
	db, foods := seededDB(t, scenarioFoods()...)
	logs := NewMealLogService(db)
	return NewPairingService(db, logs, foods, nil, opts...), logs
}

func logMeals(t *testing.T, logs *MealLogService, meals ...model.MealPlan) {
	t.Helper()
	day := model.DayPlan{Meals: meals}
	require.NoError(t, logs.Record(context.Background(), uuid.New(), uuid.New(), model.GoalLean, day))
}

func TestPairingRetrain(t *testing.T) {
	ctx := context.Background()
	svc, logs := newPairing(t)

	table, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, table)

	logMeals(t, logs,
		mealOf(1, "현미밥", "닭가슴살", "샐러드"),
		mealOf(2, "현미밥", "닭가슴살", "샐러드"),
		mealOf(3, "현미밥", "닭가슴살", "샐러드"),
		mealOf(4, "현미밥", "미확인음식"),
		mealOf(5, "현미밥", "미확인음식"),
	)

	res, err := svc.Retrain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Pairs)
	assert.Equal(t, 5, res.Meals)

	table, err = svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Greater(t, table.Affinity("현미밥", "닭가슴살"), 0.0)
	assert.Equal(t, table.Affinity("현미밥", "닭가슴살"), table.Affinity("닭가슴살", "현미밥"))
	assert.Zero(t, table.Affinity("현미밥", "미확인음식"))

	// retraining replaces rather than appends
	_, err = svc.Retrain(ctx)
	require.NoError(t, err)
	var count int64
	require.NoError(t, svc.db.Model(&models.FoodPairScore{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestPairingFallsBackToS3(t *testing.T) {
	ctx := context.Background()
	store := new(mockObjectStore)
	svc, _ := newPairing(t, WithSnapshotStore(store, "snapshots", "pairings/latest.json"))

	body, err := json.Marshal(pairSnapshot{
		TrainedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		Pairs:     []model.PairScore{{FoodA: "닭가슴살", FoodB: "현미밥", CountAB: 4, Score: 0.4}},
	})
	require.NoError(t, err)

	store.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return aws.ToString(in.Bucket) == "snapshots" && aws.ToString(in.Key) == "pairings/latest.json"
	})).Return(&s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil).Once()

	table, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.4, table.Affinity("현미밥", "닭가슴살"))
	store.AssertExpectations(t)
}

func TestPairingMissingS3Snapshot(t *testing.T) {
	store := new(mockObjectStore)
	svc, _ := newPairing(t, WithSnapshotStore(store, "snapshots", "pairings/latest.json"))
	store.On("GetObject", mock.Anything, mock.Anything).Return(nil, errors.New("NoSuchKey")).Once()

	table, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, table)
}

func TestPairingExportToS3(t *testing.T) {
	ctx := context.Background()
	store := new(mockObjectStore)
	svc, logs := newPairing(t, WithSnapshotStore(store, "snapshots", "pairings/latest.json"))

	logMeals(t, logs, mealOf(1, "현미밥", "닭가슴살"), mealOf(2, "현미밥", "닭가슴살"))
	_, err := svc.Retrain(ctx)
	require.NoError(t, err)

	var uploaded pairSnapshot
	store.On("PutObject", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		in := args.Get(1).(*s3.PutObjectInput)
		assert.Equal(t, "pairings/latest.json", aws.ToString(in.Key))
		data, err := io.ReadAll(in.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, &uploaded))
	}).Return(&s3.PutObjectOutput{}, nil).Once()

	n, err := svc.ExportToS3(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, uploaded.Pairs, 1)
	assert.Equal(t, "닭가슴살", uploaded.Pairs[0].FoodA)
	assert.False(t, uploaded.TrainedAt.IsZero())
	store.AssertExpectations(t)
}

func TestPairingExportWithoutStore(t *testing.T) {
	svc, _ := newPairing(t)
	_, err := svc.ExportToS3(context.Background())
	assert.Error(t, err)
}

func TestPairingRedisCache(t *testing.T) {
	ctx := context.Background()
	client := redisClient(t)
	svc, logs := newPairing(t, WithPairCache(client, time.Minute))
	require.NoError(t, client.Del(ctx, pairCacheKey).Err())

	logMeals(t, logs, mealOf(1, "현미밥", "샐러드"), mealOf(2, "현미밥", "샐러드"))
	_, err := svc.Retrain(ctx)
	require.NoError(t, err)

	pairs, err := svc.Pairs(ctx)
	require.NoError(t, err)
	require.Len(t, pairs, 1)

	cached, ok := svc.cached(ctx)
	require.True(t, ok)
	assert.Equal(t, pairs, cached.Pairs)

	_, err = svc.Retrain(ctx)
	require.NoError(t, err)
	_, ok = svc.cached(ctx)
	assert.False(t, ok)
}
