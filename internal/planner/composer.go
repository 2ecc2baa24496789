package planner

import (
	"math"
	"sort"

	"github.com/fitmeal/mealplan-backend/internal/model"
)

const (
	scanDepth          = 10
	kcalOvershootRatio = 1.15
	kcalGate           = 0.15
	proteinGate        = 0.30
	minMealItems       = 2
)

// DayState is the mutable bookkeeping of one day being planned.
type DayState struct {
	Used     map[string]struct{}
	Counters *DailyCounters
}

// NewDayState returns an empty day.
func NewDayState() *DayState {
	return &DayState{
		Used:     make(map[string]struct{}),
		Counters: NewDailyCounters(),
	}
}

// Composition is the outcome of one composer attempt. Items holds whatever
// was selected even when the attempt was rejected.
type Composition struct {
	Items       []model.FoodCandidate
	RoleTargets model.RoleTargets
	Totals      model.Macros
}

// Composer greedily fills the roles of a single meal.
type Composer struct {
	scorer    *Scorer
	diversity *DiversityTracker
}

// NewComposer creates a Composer.
func NewComposer(scorer *Scorer, diversity *DiversityTracker) *Composer {
	return &Composer{scorer: scorer, diversity: diversity}
}

// Compose selects main, protein and optionally side for a meal. The boolean
// is false when the selection fails the acceptance gate. exclude is a soft
// filter that is ignored for a role it would leave empty.
func (c *Composer) Compose(pool []model.FoodCandidate, target model.NutritionTarget, goal model.Goal, day *DayState, exclude map[string]struct{}) (Composition, bool) {
	comp := Composition{RoleTargets: RoleTargets(target.Kcal, goal)}

	for _, role := range []model.Role{model.RoleMain, model.RoleProtein} {
		cand, ok := c.pick(pool, role, comp.RoleTargets.For(role), goal, day, exclude, comp.Items, true)
		if !ok {
			comp.Totals = totalsOf(comp.Items)
			return comp, false
		}
		comp.Items = append(comp.Items, cand)
	}
	if cand, ok := c.pick(pool, model.RoleSide, comp.RoleTargets.SideKcal, goal, day, exclude, comp.Items, false); ok {
		comp.Items = append(comp.Items, cand)
	}

	comp.Totals = totalsOf(comp.Items)

	if comp.Totals.Kcal > target.Kcal*kcalOvershootRatio && len(comp.Items) >= 3 {
		comp.Items = dropRole(comp.Items, model.RoleSide)
		comp.Totals = totalsOf(comp.Items)
	}

	if comp.Totals.ProteinG > profileFor(goal).proteinCap && len(comp.Items) >= 3 {
		comp.Items = dropDensestProtein(comp.Items)
		comp.Totals = totalsOf(comp.Items)
	}

	return comp, accepted(comp, target)
}

// Commit marks items as used and records them in the day's counters.
func (c *Composer) Commit(items []model.FoodCandidate, day *DayState) {
	for _, it := range items {
		day.Used[it.FoodName] = struct{}{}
	}
	c.diversity.Update(items, day.Counters)
}

type scoredCandidate struct {
	cand  model.FoodCandidate
	score float64
}

func (c *Composer) pick(pool []model.FoodCandidate, role model.Role, roleKcal float64, goal model.Goal, day *DayState, exclude map[string]struct{}, selected []model.FoodCandidate, mandatory bool) (model.FoodCandidate, bool) {
	ranked := c.rank(roleCandidates(pool, role, day.Used, exclude), goal, roleKcal, selected)
	if len(ranked) == 0 {
		return model.FoodCandidate{}, false
	}

	n := min(scanDepth, len(ranked))
	for _, sc := range ranked[:n] {
		cand := resizeToward(sc.cand, roleKcal)
		if c.diversity.Violates([]model.FoodCandidate{cand}, day.Counters) {
			continue
		}
		if c.diversity.SharesCoreKeyword(cand, selected) {
			continue
		}
		return cand, true
	}

	if mandatory {
		return resizeToward(ranked[0].cand, roleKcal), true
	}
	return model.FoodCandidate{}, false
}

func (c *Composer) rank(cands []model.FoodCandidate, goal model.Goal, roleKcal float64, selected []model.FoodCandidate) []scoredCandidate {
	ranked := make([]scoredCandidate, 0, len(cands))
	for _, cand := range cands {
		ranked = append(ranked, scoredCandidate{
			cand:  cand,
			score: c.scorer.Score(cand, goal, roleKcal, selected),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].cand.FoodName < ranked[j].cand.FoodName
	})
	return ranked
}

func roleCandidates(pool []model.FoodCandidate, role model.Role, used, exclude map[string]struct{}) []model.FoodCandidate {
	var strict, loose []model.FoodCandidate
	for _, f := range pool {
		if f.Role != role {
			continue
		}
		if _, ok := used[f.FoodName]; ok {
			continue
		}
		loose = append(loose, f)
		if _, ok := exclude[f.FoodName]; !ok {
			strict = append(strict, f)
		}
	}
	if len(strict) > 0 {
		return strict
	}
	return loose
}

// resizeToward scales a flexible candidate's serving toward roleKcal, within
// its gram bounds. Fixed candidates are returned unchanged.
func resizeToward(f model.FoodCandidate, roleKcal float64) model.FoodCandidate {
	if !f.IsFlexible || f.PerServing.Kcal <= 0 || f.ServingSizeG <= 0 || roleKcal <= 0 {
		return f
	}
	lo := f.ServingMinG / f.ServingSizeG
	hi := f.ServingMaxG / f.ServingSizeG
	if lo > hi {
		return f
	}
	ratio := math.Max(lo, math.Min(hi, roleKcal/f.PerServing.Kcal))
	return f.Resized(ratio)
}

func totalsOf(items []model.FoodCandidate) model.Macros {
	var total model.Macros
	for _, it := range items {
		total = total.Add(it.PerServing)
	}
	return total
}

func dropRole(items []model.FoodCandidate, role model.Role) []model.FoodCandidate {
	out := items[:0:0]
	for _, it := range items {
		if it.Role != role {
			out = append(out, it)
		}
	}
	return out
}

func dropDensestProtein(items []model.FoodCandidate) []model.FoodCandidate {
	worst, worstDensity := -1, math.Inf(-1)
	for i, it := range items {
		d := it.PerServing.ProteinG / math.Max(1.0, it.PerServing.Kcal)
		if d > worstDensity {
			worst, worstDensity = i, d
		}
	}
	out := make([]model.FoodCandidate, 0, len(items)-1)
	out = append(out, items[:worst]...)
	return append(out, items[worst+1:]...)
}

func accepted(comp Composition, target model.NutritionTarget) bool {
	if len(comp.Items) < minMealItems {
		return false
	}
	var hasMain, hasProtein bool
	for _, it := range comp.Items {
		hasMain = hasMain || it.Role == model.RoleMain
		hasProtein = hasProtein || it.Role == model.RoleProtein
	}
	if !hasMain || !hasProtein {
		return false
	}
	return model.RelErr(comp.Totals.Kcal, target.Kcal) < kcalGate &&
		model.RelErr(comp.Totals.ProteinG, target.ProteinG) < proteinGate
}
