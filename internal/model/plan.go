package model

// RoleTargets holds the per-role kcal budget of a meal.
type RoleTargets struct {
	MainKcal    float64 `json:"main_kcal"`
	ProteinKcal float64 `json:"protein_kcal"`
	SideKcal    float64 `json:"side_kcal"`
}

// For returns the kcal budget for r. Misc has no budget.
func (rt RoleTargets) For(r Role) float64 {
	switch r {
	case RoleMain:
		return rt.MainKcal
	case RoleProtein:
		return rt.ProteinKcal
	case RoleSide:
		return rt.SideKcal
	}
	return 0
}

// MealPlan is one finalized meal.
type MealPlan struct {
	MealNumber  int              `json:"meal_number"`
	Targets     NutritionTarget  `json:"targets"`
	RoleTargets RoleTargets      `json:"role_targets"`
	Actuals     Macros           `json:"actuals"`
	Items       []ScaledFoodItem `json:"items"`
	Fallback    bool             `json:"fallback,omitempty"`
}

// HasRole reports whether any item fills r.
func (m MealPlan) HasRole(r Role) bool {
	for _, it := range m.Items {
		if it.Role == r {
			return true
		}
	}
	return false
}

// DayPlan is the ordered set of meals for one day.
type DayPlan struct {
	Day         int             `json:"day,omitempty"`
	TargetDaily NutritionTarget `json:"target_daily"`
	ActualDaily Macros          `json:"actual_daily"`
	Meals       []MealPlan      `json:"meals"`
}

// WeekPlan is a sequence of independently planned days.
type WeekPlan struct {
	Days          []DayPlan `json:"weekly_plan"`
	WeeklyAverage Macros    `json:"weekly_average"`
}
