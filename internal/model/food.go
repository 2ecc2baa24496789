package model

import (
	"fmt"
	"strings"
)

// Goal is the user's body-composition goal.
type Goal string

const (
	GoalLean     Goal = "lean"
	GoalDiet     Goal = "diet"
	GoalBulk     Goal = "bulk"
	GoalMaintain Goal = "maintain"
)

// ParseGoal normalizes s and validates it against the known goals.
func ParseGoal(s string) (Goal, error) {
	g := Goal(strings.ToLower(strings.TrimSpace(s)))
	switch g {
	case GoalLean, GoalDiet, GoalBulk, GoalMaintain:
		return g, nil
	}
	return "", fmt.Errorf("unknown goal %q", s)
}

// Role is the dietary function a food fills inside a meal.
type Role string

const (
	RoleMain    Role = "main"
	RoleProtein Role = "protein"
	RoleSide    Role = "side"
	RoleMisc    Role = "misc"
)

// SourceNone marks a food whose role does not carry a source tag.
const SourceNone = "none"

// SourceOther marks a food whose role carries a tag but no keyword matched.
const SourceOther = "other"

// FoodRecord is the raw pool entry supplied by the storage layer. Macros are
// per 100g; ServingSizeG converts them to a serving.
type FoodRecord struct {
	FoodName          string   `json:"food_name" yaml:"food_name"`
	EnergyKcal        float64  `json:"energy_kcal" yaml:"energy_kcal"`
	ProteinG          float64  `json:"protein_g" yaml:"protein_g"`
	FatG              float64  `json:"fat_g" yaml:"fat_g"`
	CarbG             float64  `json:"carb_g" yaml:"carb_g"`
	ServingSizeG      float64  `json:"serving_size_g" yaml:"serving_size_g"`
	IsFlexible        bool     `json:"is_flexible" yaml:"is_flexible"`
	ServingMinG       float64  `json:"serving_min_g" yaml:"serving_min_g"`
	ServingMaxG       float64  `json:"serving_max_g" yaml:"serving_max_g"`
	HealthScore       *float64 `json:"health_score,omitempty" yaml:"health_score,omitempty"`
	MLHealthScore     *float64 `json:"ml_health_score,omitempty" yaml:"ml_health_score,omitempty"`
	HybridHealthScore *float64 `json:"hybrid_health_score,omitempty" yaml:"hybrid_health_score,omitempty"`
}

// FoodCandidate is a pool entry with per-serving macros and derived tags.
type FoodCandidate struct {
	FoodName          string   `json:"food_name"`
	PerServing        Macros   `json:"per_serving"`
	ServingSizeG      float64  `json:"serving_size_g"`
	IsFlexible        bool     `json:"is_flexible"`
	ServingMinG       float64  `json:"serving_min_g"`
	ServingMaxG       float64  `json:"serving_max_g"`
	HealthScore       *float64 `json:"health_score,omitempty"`
	MLHealthScore     *float64 `json:"ml_health_score,omitempty"`
	HybridHealthScore *float64 `json:"hybrid_health_score,omitempty"`
	Role              Role     `json:"role"`
	CarbSourceTag     string   `json:"carb_source_tag"`
	ProteinSourceTag  string   `json:"protein_source_tag"`
}

// DefaultQuality is used when a food carries no quality score.
const DefaultQuality = 60.0

// Quality returns the best available quality score: hybrid, then ML, then
// the rule-based score.
func (f FoodCandidate) Quality() float64 {
	for _, s := range []*float64{f.HybridHealthScore, f.MLHealthScore, f.HealthScore} {
		if s != nil {
			return *s
		}
	}
	return DefaultQuality
}

// Resized returns a copy scaled by ratio, with serving grams and macros
// adjusted together.
func (f FoodCandidate) Resized(ratio float64) FoodCandidate {
	out := f
	out.PerServing = f.PerServing.Scale(ratio)
	out.ServingSizeG = f.ServingSizeG * ratio
	return out
}

// ScaledFoodItem is a chosen food with the portion multiplier applied by the
// optimizer.
type ScaledFoodItem struct {
	FoodCandidate
	Multiplier float64 `json:"multiplier"`
}

// Contribution returns the macros this item adds to its meal.
func (s ScaledFoodItem) Contribution() Macros {
	return s.PerServing.Scale(s.Multiplier)
}

// SumItems returns the multiplier-weighted macro sum of items.
func SumItems(items []ScaledFoodItem) Macros {
	var total Macros
	for _, it := range items {
		total = total.Add(it.Contribution())
	}
	return total
}
