package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitmeal/mealplan-backend/internal/model"
)

func TestFoodUpsertAndLoadPool(t *testing.T) {
	ctx := context.Background()
	_, svc := seededDB(t)

	score := 88.0
	rice := food("현미밥", 300, 6, 1, 65)
	rice.HealthScore = &score
	n, err := svc.Upsert(ctx, []model.FoodRecord{
		food("닭가슴살", 100, 20, 2, 0),
		rice,
		food("  ", 1, 1, 1, 1),
		food("닭가슴살", 165, 31, 3.6, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	pool, err := svc.LoadPool(ctx)
	require.NoError(t, err)
	require.Len(t, pool, 2)
	assert.Equal(t, "닭가슴살", pool[0].FoodName)
	assert.Equal(t, 165.0, pool[0].EnergyKcal)
	require.NotNil(t, pool[1].HealthScore)
	assert.Equal(t, 88.0, *pool[1].HealthScore)

	_, err = svc.Upsert(ctx, []model.FoodRecord{food("현미밥", 320, 7, 1, 68)})
	require.NoError(t, err)
	pool, err = svc.LoadPool(ctx)
	require.NoError(t, err)
	require.Len(t, pool, 2)
	assert.Equal(t, 320.0, pool[1].EnergyKcal)

	names, err := svc.Names(ctx)
	require.NoError(t, err)
	assert.Len(t, names, 2)
	assert.Contains(t, names, "현미밥")

	ok, err := svc.Exists(ctx, "샐러드")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFoodUpsertNothing(t *testing.T) {
	_, svc := seededDB(t)
	n, err := svc.Upsert(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
