package planner

import (
	"math"

	"go.uber.org/zap"

	"github.com/fitmeal/mealplan-backend/internal/model"
)

const (
	flexLowerBound = 0.5
	flexUpperBound = 2.0

	// DefaultTolRatio is the tolerance logged against optimized meals.
	DefaultTolRatio = 0.08
)

// Deviation weights in kcal, protein, fat, carb order.
var slackWeights = [4]float64{10, 5, 3, 3}

// Constraint is a single linear row. It reads Coeffs·x <= RHS in
// Problem.Constraints and Coeffs·x = RHS in Problem.Equalities.
type Constraint struct {
	Coeffs []float64
	RHS    float64
}

// Problem is a bounded linear program: minimize Objective·x subject to every
// constraint and Lower <= x <= Upper. An infinite Upper means unbounded above.
type Problem struct {
	Objective   []float64
	Constraints []Constraint
	Equalities  []Constraint
	Lower       []float64
	Upper       []float64
}

// Solver minimizes a linear program over continuous variables.
type Solver interface {
	Solve(p Problem) ([]float64, error)
}

// Optimizer tunes portion multipliers so a meal's macros approach a target.
type Optimizer struct {
	solver   Solver
	tolRatio float64
	logger   *zap.Logger
}

// NewOptimizer creates an Optimizer backed by solver.
func NewOptimizer(solver Solver, tolRatio float64, logger *zap.Logger) *Optimizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Optimizer{solver: solver, tolRatio: tolRatio, logger: logger}
}

// MultiplierBounds returns the allowed multiplier range of f. Fixed foods are
// pinned to 1.
func MultiplierBounds(f model.FoodCandidate) (lo, hi float64) {
	if !f.IsFlexible || f.ServingSizeG <= 0 {
		return 1, 1
	}
	lo = math.Max(flexLowerBound, f.ServingMinG/f.ServingSizeG)
	hi = math.Min(flexUpperBound, f.ServingMaxG/f.ServingSizeG)
	if lo > hi {
		return 1, 1
	}
	return lo, hi
}

// Optimize returns items with multipliers and their recomputed totals. It
// never fails: solver errors fall back to multiplier 1 for every item.
func (o *Optimizer) Optimize(items []model.FoodCandidate, target model.NutritionTarget) ([]model.ScaledFoodItem, model.Macros) {
	n := len(items)
	lower := make([]float64, n)
	upper := make([]float64, n)
	allFixed := true
	for i, it := range items {
		lower[i], upper[i] = MultiplierBounds(it)
		if lower[i] != upper[i] {
			allFixed = false
		}
	}

	mult := make([]float64, n)
	for i := range mult {
		mult[i] = 1
	}

	if !allFixed {
		x, err := o.solver.Solve(buildProblem(items, target, lower, upper))
		if err != nil {
			o.logger.Debug("portion optimization failed, keeping base servings",
				zap.Int("items", n), zap.Error(err))
		} else {
			for i := range mult {
				v := math.Round(x[i]*1000) / 1000
				mult[i] = math.Max(lower[i], math.Min(upper[i], v))
			}
		}
	}

	scaled := make([]model.ScaledFoodItem, n)
	for i, it := range items {
		scaled[i] = model.ScaledFoodItem{FoodCandidate: it, Multiplier: mult[i]}
	}
	totals := model.SumItems(scaled)

	if dev := maxRelErr(totals, target); dev > o.tolRatio {
		o.logger.Debug("optimized meal outside tolerance",
			zap.Float64("max_rel_err", dev), zap.Float64("tol_ratio", o.tolRatio))
	}
	return scaled, totals
}

// buildProblem lays out n multipliers followed by an over and an under
// deviation per macro, so each macro row reads
// sum(a_i*x_i) - over_j + under_j = target_j.
func buildProblem(items []model.FoodCandidate, target model.NutritionTarget, lower, upper []float64) Problem {
	n := len(items)
	nv := n + 8
	p := Problem{
		Objective: make([]float64, nv),
		Lower:     make([]float64, nv),
		Upper:     make([]float64, nv),
	}
	copy(p.Lower, lower)
	copy(p.Upper, upper)
	for j := 0; j < 8; j++ {
		p.Objective[n+j] = slackWeights[j%4]
		p.Upper[n+j] = math.Inf(1)
	}

	t := target.Slice()
	for j := 0; j < 4; j++ {
		row := make([]float64, nv)
		for i, it := range items {
			row[i] = it.PerServing.Slice()[j]
		}
		row[n+j] = -1
		row[n+4+j] = 1
		p.Equalities = append(p.Equalities, Constraint{Coeffs: row, RHS: t[j]})
	}
	return p
}

func maxRelErr(actual, target model.Macros) float64 {
	a, t := actual.Slice(), target.Slice()
	var worst float64
	for j := range a {
		worst = math.Max(worst, model.RelErr(a[j], t[j]))
	}
	return worst
}
