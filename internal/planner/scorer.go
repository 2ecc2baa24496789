package planner

import (
	"math"

	"github.com/fitmeal/mealplan-backend/internal/model"
)

const (
	roleKcalBand        = 0.40
	processedPenalty    = -20.0
	snackDrinkPenalty   = -15.0
	pairingMultiplier   = 30.0
	preferenceMaxBonus  = 15.0
	preferenceScaleBase = 100.0
)

// ScoreBreakdown exposes the individual terms of a desirability score.
type ScoreBreakdown struct {
	Quality         float64
	KcalFit         float64
	MacroTerm       float64
	Penalty         float64
	PairingBonus    float64
	PreferenceBonus float64
	Total           float64
}

// Scorer ranks candidates for a role. The pairing table and preference map
// are read-only snapshots.
type Scorer struct {
	classifier *Classifier
	pairs      model.PairingTable
	prefs      model.PreferenceMap
}

// NewScorer creates a Scorer.
func NewScorer(classifier *Classifier, pairs model.PairingTable, prefs model.PreferenceMap) *Scorer {
	return &Scorer{classifier: classifier, pairs: pairs, prefs: prefs}
}

// Score returns the composite desirability of cand for role given the items
// already chosen for the meal.
func (s *Scorer) Score(cand model.FoodCandidate, goal model.Goal, roleTargetKcal float64, selected []model.FoodCandidate) float64 {
	return s.Breakdown(cand, goal, roleTargetKcal, selected).Total
}

// Breakdown computes every term of the score.
func (s *Scorer) Breakdown(cand model.FoodCandidate, goal model.Goal, roleTargetKcal float64, selected []model.FoodCandidate) ScoreBreakdown {
	p := profileFor(goal)
	m := cand.PerServing

	b := ScoreBreakdown{
		Quality:   math.Max(0, math.Min(100, cand.Quality())),
		KcalFit:   kcalFit(m.Kcal, roleTargetKcal),
		MacroTerm: p.proteinCoef*m.ProteinG + p.fatCoef*m.FatG + p.carbCoef*m.CarbG,
	}

	if s.classifier.IsHighlyProcessed(cand.FoodName) {
		b.Penalty += processedPenalty
	}
	if s.classifier.IsSnackOrDrink(cand.FoodName) {
		b.Penalty += snackDrinkPenalty
	}

	for _, sel := range selected {
		b.PairingBonus += s.pairs.Affinity(cand.FoodName, sel.FoodName) * pairingMultiplier
	}

	b.PreferenceBonus = s.prefs.Score(cand.FoodName) / preferenceScaleBase * preferenceMaxBonus

	b.Total = p.wQuality*b.Quality +
		p.wFit*(b.KcalFit*100) +
		p.wMacro*b.MacroTerm +
		b.Penalty + b.PairingBonus + b.PreferenceBonus
	return b
}

// kcalFit is 1 inside ±40% of target and decays linearly to 0 outside.
func kcalFit(kcal, target float64) float64 {
	low := target * (1 - roleKcalBand)
	high := target * (1 + roleKcalBand)
	fit := 1.0
	switch {
	case kcal < low:
		fit = 1.0 - (low-kcal)/math.Max(low, 1.0)
	case kcal > high:
		fit = 1.0 - (kcal-high)/math.Max(high, 1.0)
	}
	return math.Max(0, math.Min(1, fit))
}
