package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fitmeal/mealplan-backend/config"
	"github.com/fitmeal/mealplan-backend/internal/service"
	"github.com/fitmeal/mealplan-backend/internal/types"
)

func sqliteConfig() *config.Config {
	return &config.Config{
		Env:          config.Test,
		DBDriver:     config.DriverSQLite,
		SQLitePath:   ":memory:",
		JWTSecret:    "secret",
		Planner:      config.PlannerConfig{RetryLimit: 3, TolRatio: 0.08, Seed: 11},
		PlanDraftTTL: time.Hour,
	}
}

func TestBuildWithoutRedis(t *testing.T) {
	a, err := Build(context.Background(), sqliteConfig(), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Redis)
	assert.Nil(t, a.S3)
	require.NotNil(t, a.Plans)
	require.NotNil(t, a.Pairings)

	_, err = a.Plans.GetPlan(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrPlanNotFound)

	token, err := a.Tokens.GenerateToken(&types.TokenClaims{UserID: uuid.New(), Username: "jun"})
	require.NoError(t, err)
	claims, err := a.Tokens.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "jun", claims.Username)
}

func TestBuildRejectsBadRules(t *testing.T) {
	cfg := sqliteConfig()
	cfg.Planner.RulesPath = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := Build(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("roles: [unterminated"), 0o600))
	cfg.Planner.RulesPath = bad
	_, err = Build(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, "planner rules")
}
