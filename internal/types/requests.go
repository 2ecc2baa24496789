package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/fitmeal/mealplan-backend/internal/model"
)

// DefaultPlanDays is used when a week request leaves days unset.
const DefaultPlanDays = 7

// MaxPlanDays bounds a single week request.
const MaxPlanDays = 14

// TargetRequest is a daily macro target in the request body
type TargetRequest struct {
	Kcal     float64 `json:"kcal"`
	ProteinG float64 `json:"protein_g"`
	FatG     float64 `json:"fat_g"`
	CarbG    float64 `json:"carb_g"`
}

// Macros converts the request into the planner's target type.
func (t TargetRequest) Macros() model.NutritionTarget {
	return model.NutritionTarget{Kcal: t.Kcal, ProteinG: t.ProteinG, FatG: t.FatG, CarbG: t.CarbG}
}

// PlanRequest represents the request body for generating a day or week plan
type PlanRequest struct {
	Target      TargetRequest `json:"target"`
	MealsPerDay int           `json:"meals_per_day"`
	Goal        string        `json:"goal" binding:"required"`
	Days        int           `json:"days,omitempty" binding:"omitempty,min=1,max=14"`
}

// RatingRequest represents the request body for rating a food
type RatingRequest struct {
	Rating int `json:"rating" binding:"required,min=1,max=5"`
}

// PlanKind distinguishes stored day plans from week plans.
type PlanKind string

const (
	PlanKindDay  PlanKind = "day"
	PlanKindWeek PlanKind = "week"
)

// StoredPlan is a generated plan kept as a draft for later retrieval.
type StoredPlan struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Kind      PlanKind        `json:"kind"`
	Goal      model.Goal      `json:"goal"`
	CreatedAt time.Time       `json:"created_at"`
	Day       *model.DayPlan  `json:"day,omitempty"`
	Week      *model.WeekPlan `json:"week,omitempty"`
}

// RatingResponse reports a food's updated preference score
type RatingResponse struct {
	FoodName    string  `json:"food_name"`
	Score       float64 `json:"score"`
	RatingCount int     `json:"rating_count"`
}

// RetrainResponse summarizes a pairing retrain run
type RetrainResponse struct {
	Pairs     int       `json:"pairs"`
	Meals     int       `json:"meals"`
	TrainedAt time.Time `json:"trained_at"`
}
