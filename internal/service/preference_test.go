package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferenceRate(t *testing.T) {
	ctx := context.Background()
	db, foods := seededDB(t, scenarioFoods()...)
	svc := NewPreferenceService(db, foods)
	user := uuid.New()

	pref, err := svc.Rate(ctx, user, "현미밥", 5)
	require.NoError(t, err)
	assert.Equal(t, 100.0, pref.Score)
	assert.Equal(t, 1, pref.RatingCount)

	pref, err = svc.Rate(ctx, user, "현미밥", 1)
	require.NoError(t, err)
	assert.Equal(t, 50.0, pref.Score)
	assert.Equal(t, 2, pref.RatingCount)
	assert.Equal(t, 1, pref.LastRating)

	_, err = svc.Rate(ctx, uuid.New(), "샐러드", 3)
	require.NoError(t, err)

	prefs, err := svc.PreferenceMap(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"현미밥": 50}, map[string]float64(prefs))
}

func TestPreferenceRateRejects(t *testing.T) {
	ctx := context.Background()
	db, foods := seededDB(t, scenarioFoods()...)
	svc := NewPreferenceService(db, foods)

	_, err := svc.Rate(ctx, uuid.New(), "현미밥", 0)
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = svc.Rate(ctx, uuid.New(), "현미밥", 6)
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = svc.Rate(ctx, uuid.New(), "마라탕", 4)
	assert.ErrorIs(t, err, ErrFoodNotFound)
}
