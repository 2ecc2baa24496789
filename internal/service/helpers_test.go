package service

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fitmeal/mealplan-backend/internal/model"
	"github.com/fitmeal/mealplan-backend/internal/testdb"
)

func food(name string, kcal, protein, fat, carb float64) model.FoodRecord {
	return model.FoodRecord{
		FoodName:     name,
		EnergyKcal:   kcal,
		ProteinG:     protein,
		FatG:         fat,
		CarbG:        carb,
		ServingSizeG: 100,
	}
}

func scenarioFoods() []model.FoodRecord {
	return []model.FoodRecord{
		food("현미밥", 300, 6, 1, 65),
		food("닭가슴살", 165, 31, 3.6, 0),
		food("샐러드", 80, 2, 5, 6),
	}
}

var scenarioTarget = model.NutritionTarget{Kcal: 545, ProteinG: 39, FatG: 9.6, CarbG: 71}

func seededDB(t *testing.T, foods ...model.FoodRecord) (*gorm.DB, *FoodService) {
	t.Helper()
	db := testdb.SQLite(t)
	svc := NewFoodService(db)
	if len(foods) > 0 {
		_, err := svc.Upsert(context.Background(), foods)
		require.NoError(t, err)
	}
	return db, svc
}

// redisClient connects to REDIS_HOST or skips the test.
func redisClient(t *testing.T) *redis.Client {
	t.Helper()
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		t.Skip("REDIS_HOST not set")
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}
	client := redis.NewClient(&redis.Options{Addr: host + ":" + port, Password: os.Getenv("REDIS_PASSWORD")})
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = client.Close() })
	return client
}
