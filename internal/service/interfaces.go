package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/fitmeal/mealplan-backend/internal/model"
	"github.com/fitmeal/mealplan-backend/internal/models"
	"github.com/fitmeal/mealplan-backend/internal/types"
)

var (
	ErrPlanNotFound  = errors.New("plan not found")
	ErrFoodNotFound  = errors.New("food not found")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	ErrInvalidToken  = errors.New("invalid token")
)

// IFoodService defines the interface for food pool operations
type IFoodService interface {
	LoadPool(ctx context.Context) ([]model.FoodRecord, error)
	Upsert(ctx context.Context, foods []model.FoodRecord) (int, error)
	Names(ctx context.Context) (map[string]struct{}, error)
}

// IPreferenceService defines the interface for per-user food ratings
type IPreferenceService interface {
	Rate(ctx context.Context, userID uuid.UUID, food string, rating int) (*models.UserFoodPreference, error)
	PreferenceMap(ctx context.Context, userID uuid.UUID) (model.PreferenceMap, error)
}

// IPairingService defines the interface for learned food pair affinities
type IPairingService interface {
	Snapshot(ctx context.Context) (model.PairingTable, error)
	Retrain(ctx context.Context) (*types.RetrainResponse, error)
}

// IPlanService defines the interface for plan generation and retrieval
type IPlanService interface {
	PlanDay(ctx context.Context, userID uuid.UUID, req *types.PlanRequest) (*types.StoredPlan, error)
	PlanWeek(ctx context.Context, userID uuid.UUID, req *types.PlanRequest) (*types.StoredPlan, error)
	GetPlan(ctx context.Context, id uuid.UUID) (*types.StoredPlan, error)
}

// ITokenService defines the interface for JWT handling
type ITokenService interface {
	GenerateToken(claims *types.TokenClaims) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}
