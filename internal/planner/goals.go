package planner

import "github.com/fitmeal/mealplan-backend/internal/model"

// goalProfile holds every goal-dependent constant of the engine.
type goalProfile struct {
	mainShare, proteinShare, sideShare float64

	// macro_term = proteinCoef*P + fatCoef*F + carbCoef*C
	proteinCoef, fatCoef, carbCoef float64

	wQuality, wFit, wMacro float64

	// per-meal protein ceiling in grams
	proteinCap float64
}

var goalProfiles = map[model.Goal]goalProfile{
	model.GoalLean: {
		mainShare: 0.45, proteinShare: 0.35, sideShare: 0.20,
		proteinCoef: 2.0, fatCoef: -0.5, carbCoef: -0.15,
		wQuality: 0.55, wFit: 0.30, wMacro: 0.15,
		proteinCap: 60,
	},
	model.GoalDiet: {
		mainShare: 0.45, proteinShare: 0.35, sideShare: 0.20,
		proteinCoef: 2.0, fatCoef: -0.5, carbCoef: -0.15,
		wQuality: 0.55, wFit: 0.30, wMacro: 0.15,
		proteinCap: 60,
	},
	model.GoalBulk: {
		mainShare: 0.50, proteinShare: 0.30, sideShare: 0.20,
		proteinCoef: 2.2, fatCoef: 0, carbCoef: 0.7,
		wQuality: 0.50, wFit: 0.30, wMacro: 0.20,
		proteinCap: 80,
	},
	model.GoalMaintain: {
		mainShare: 0.45, proteinShare: 0.30, sideShare: 0.25,
		proteinCoef: 1.5, fatCoef: -0.2, carbCoef: 0.4,
		wQuality: 0.55, wFit: 0.25, wMacro: 0.20,
		proteinCap: 70,
	},
}

func profileFor(g model.Goal) goalProfile {
	if p, ok := goalProfiles[g]; ok {
		return p
	}
	return goalProfiles[model.GoalMaintain]
}

// RoleTargets splits a meal's kcal across main, protein and side.
func RoleTargets(mealKcal float64, g model.Goal) model.RoleTargets {
	p := profileFor(g)
	return model.RoleTargets{
		MainKcal:    mealKcal * p.mainShare,
		ProteinKcal: mealKcal * p.proteinShare,
		SideKcal:    mealKcal * p.sideShare,
	}
}
