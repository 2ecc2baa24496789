package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitmeal/mealplan-backend/internal/model"
)

func newComposer(t *testing.T, recs []model.FoodRecord) (*Composer, []model.FoodCandidate) {
	t.Helper()
	rules := DefaultRules()
	c := NewClassifier(rules)
	eligible, _ := c.BuildPool(recs)
	return NewComposer(NewScorer(c, nil, nil), NewDiversityTracker(c, rules.DailyCaps)), eligible
}

func names(items []model.FoodCandidate) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.FoodName
	}
	return out
}

func TestComposeScenario(t *testing.T) {
	comp, pool := newComposer(t, scenarioPool())
	day := NewDayState()

	got, ok := comp.Compose(pool, scenarioTarget, model.GoalLean, day, nil)
	require.True(t, ok)
	assert.Equal(t, []string{"현미밥", "닭가슴살", "샐러드"}, names(got.Items))
	assert.InDelta(t, 545.0, got.Totals.Kcal, 1e-9)
	assert.InDelta(t, 245.25, got.RoleTargets.MainKcal, 1e-9)

	// composing does not mutate the day
	assert.Empty(t, day.Used)
	comp.Commit(got.Items, day)
	assert.Len(t, day.Used, 3)
	assert.Contains(t, day.Counters.CoreKeywords, "밥")
}

func TestComposeSkipsUsedFoods(t *testing.T) {
	comp, pool := newComposer(t, scenarioPool())
	day := NewDayState()
	day.Used["닭가슴살"] = struct{}{}

	got, ok := comp.Compose(pool, scenarioTarget, model.GoalLean, day, nil)
	assert.False(t, ok)
	assert.Equal(t, []string{"현미밥"}, names(got.Items))
}

func TestComposeForcesMandatoryRole(t *testing.T) {
	comp, pool := newComposer(t, scenarioPool())
	day := NewDayState()
	day.Counters.CoreKeywords["밥"] = struct{}{}

	got, _ := comp.Compose(pool, scenarioTarget, model.GoalLean, day, nil)
	require.NotEmpty(t, got.Items)
	assert.Equal(t, "현미밥", got.Items[0].FoodName)
}

func TestComposeWithoutSide(t *testing.T) {
	recs := scenarioPool()[:2]
	comp, pool := newComposer(t, recs)

	target := model.NutritionTarget{Kcal: 465, ProteinG: 37, FatG: 4.6, CarbG: 65}
	got, ok := comp.Compose(pool, target, model.GoalLean, NewDayState(), nil)
	require.True(t, ok)
	assert.Equal(t, []string{"현미밥", "닭가슴살"}, names(got.Items))
}

func TestComposeDropsSideOnOvershoot(t *testing.T) {
	recs := scenarioPool()
	recs[2] = fixedRecord("샐러드", 200, 2, 12, 15)
	comp, pool := newComposer(t, recs)

	target := model.NutritionTarget{Kcal: 500, ProteinG: 39, FatG: 9.6, CarbG: 71}
	got, ok := comp.Compose(pool, target, model.GoalLean, NewDayState(), nil)
	require.True(t, ok)
	assert.Equal(t, []string{"현미밥", "닭가슴살"}, names(got.Items))
	assert.InDelta(t, 465.0, got.Totals.Kcal, 1e-9)
}

func TestComposeProteinCeiling(t *testing.T) {
	recs := []model.FoodRecord{
		fixedRecord("현미밥", 300, 6, 1, 65),
		fixedRecord("닭가슴살", 250, 50, 5, 0),
		fixedRecord("시금치나물", 80, 15, 1, 3),
	}
	comp, pool := newComposer(t, recs)

	target := model.NutritionTarget{Kcal: 630, ProteinG: 60, FatG: 7, CarbG: 68}
	got, ok := comp.Compose(pool, target, model.GoalLean, NewDayState(), nil)
	assert.False(t, ok)
	assert.Equal(t, []string{"현미밥", "시금치나물"}, names(got.Items))
}

func TestComposeRejectsPoorFit(t *testing.T) {
	comp, pool := newComposer(t, scenarioPool())

	target := model.NutritionTarget{Kcal: 2000, ProteinG: 150, FatG: 60, CarbG: 200}
	got, ok := comp.Compose(pool, target, model.GoalLean, NewDayState(), nil)
	assert.False(t, ok)
	assert.Len(t, got.Items, 3)
}

func TestComposeSoftExclusion(t *testing.T) {
	recs := append(scenarioPool(), fixedRecord("고구마", 260, 3, 0.3, 62))
	comp, pool := newComposer(t, recs)

	first, _ := comp.Compose(pool, scenarioTarget, model.GoalLean, NewDayState(), nil)
	require.NotEmpty(t, first.Items)
	excluded := first.Items[0].FoodName

	second, _ := comp.Compose(pool, scenarioTarget, model.GoalLean, NewDayState(), map[string]struct{}{excluded: {}})
	require.NotEmpty(t, second.Items)
	assert.NotEqual(t, excluded, second.Items[0].FoodName)

	// excluding every main falls back to the full role list
	all := map[string]struct{}{"현미밥": {}, "고구마": {}}
	third, _ := comp.Compose(pool, scenarioTarget, model.GoalLean, NewDayState(), all)
	require.NotEmpty(t, third.Items)
	assert.Equal(t, model.RoleMain, third.Items[0].Role)
}

func TestResizeToward(t *testing.T) {
	flex := candidate("현미밥", model.RoleMain, 100, 2, 0.5, 22)
	flex.IsFlexible = true

	got := resizeToward(flex, 245.25)
	assert.InDelta(t, 245.25, got.PerServing.Kcal, 1e-9)
	assert.InDelta(t, 245.25, got.ServingSizeG, 1e-9)

	capped := resizeToward(flex, 1000)
	assert.InDelta(t, 300.0, capped.PerServing.Kcal, 1e-9)
	assert.InDelta(t, 300.0, capped.ServingSizeG, 1e-9)

	fixed := candidate("현미밥", model.RoleMain, 100, 2, 0.5, 22)
	assert.Equal(t, fixed, resizeToward(fixed, 245.25))
}
