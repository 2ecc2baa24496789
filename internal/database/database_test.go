package database

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fitmeal/mealplan-backend/config"
	"github.com/fitmeal/mealplan-backend/internal/models"
)

func TestNewSQLiteAndMigrate(t *testing.T) {
	cfg := &config.Config{Env: config.Test, DBDriver: config.DriverSQLite, SQLitePath: ":memory:"}

	db, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	require.NoError(t, HealthCheck(context.Background(), db))

	food := models.Food{Name: "현미밥", EnergyKcal: 150, ProteinG: 3, FatG: 1, CarbG: 32, ServingSizeG: 200}
	require.NoError(t, db.Create(&food).Error)
	assert.NotZero(t, food.ID)

	log := models.MealLog{UserID: food.ID, Foods: []string{"현미밥", "닭가슴살"}}
	require.NoError(t, db.Create(&log).Error)

	var got models.MealLog
	require.NoError(t, db.First(&got, "id = ?", log.ID).Error)
	assert.Equal(t, []string{"현미밥", "닭가슴살"}, got.Foods)
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(&config.Config{DBDriver: "mysql"}, zap.NewNop())
	assert.Error(t, err)
}

func TestNewRedisClient(t *testing.T) {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		t.Skip("REDIS_HOST not set")
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	client, err := NewRedisClient(&config.Config{RedisHost: host, RedisPort: port}, zap.NewNop())
	require.NoError(t, err)
	defer client.Close()
	assert.NoError(t, client.Ping(context.Background()).Err())
}

func TestNewRedisClientBadURL(t *testing.T) {
	_, err := NewRedisClient(&config.Config{RedisURL: "://nope"}, zap.NewNop())
	assert.Error(t, err)
}
