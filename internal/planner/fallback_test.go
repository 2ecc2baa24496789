package planner

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitmeal/mealplan-backend/internal/model"
)

func newFallback(templates ...[]string) *FallbackSelector {
	rules := *DefaultRules()
	if len(templates) > 0 {
		rules.FallbackTemplates = templates
	}
	return NewFallbackSelector(&rules)
}

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestFallbackTemplateMatch(t *testing.T) {
	c := NewClassifier(DefaultRules())
	eligible, all := c.BuildPool(scenarioPool())
	f := newFallback([]string{"현미밥", "닭가슴살", "샐러드"})

	items, err := f.Select(eligible, all, map[string]struct{}{}, testRand())
	require.NoError(t, err)
	assert.Equal(t, []string{"현미밥", "닭가슴살", "샐러드"}, names(items))
}

func TestFallbackPrefersUnusedFoods(t *testing.T) {
	c := NewClassifier(DefaultRules())
	eligible, all := c.BuildPool([]model.FoodRecord{
		fixedRecord("현미밥", 300, 6, 1, 65),
		fixedRecord("현미밥정식", 450, 15, 8, 70),
	})
	f := newFallback([]string{"현미밥"})

	items, err := f.Select(eligible, all, map[string]struct{}{"현미밥": {}}, testRand())
	require.NoError(t, err)
	assert.Equal(t, []string{"현미밥정식"}, names(items))

	items, err = f.Select(eligible, all, map[string]struct{}{"현미밥": {}, "현미밥정식": {}}, testRand())
	require.NoError(t, err)
	assert.Equal(t, []string{"현미밥"}, names(items))
}

func TestFallbackTemplateSwapsServedFoodForSameRole(t *testing.T) {
	brown := candidate("현미밥", model.RoleMain, 300, 6, 1, 65)
	oat := candidate("귀리밥", model.RoleMain, 320, 8, 3, 62)
	chicken := candidate("닭가슴살", model.RoleProtein, 165, 31, 3.6, 0)
	eligible := []model.FoodCandidate{brown, chicken, oat}
	f := newFallback([]string{"현미밥", "닭가슴살"})

	items, err := f.Select(eligible, eligible, map[string]struct{}{"현미밥": {}}, testRand())
	require.NoError(t, err)
	assert.Equal(t, []string{"귀리밥", "닭가슴살"}, names(items))

	// no unused main left, so the served one repeats
	used := map[string]struct{}{"현미밥": {}, "귀리밥": {}}
	items, err = f.Select(eligible, eligible, used, testRand())
	require.NoError(t, err)
	assert.Equal(t, []string{"현미밥", "닭가슴살"}, names(items))
}

func TestFallbackSamplesStaples(t *testing.T) {
	c := NewClassifier(DefaultRules())
	eligible, all := c.BuildPool([]model.FoodRecord{
		fixedRecord("귀리", 380, 13, 7, 66),
		fixedRecord("소고기", 250, 26, 15, 0),
		fixedRecord("배추김치", 30, 2, 0.5, 5),
		fixedRecord("알수없음", 100, 1, 1, 1),
	})
	f := newFallback([]string{"존재하지않는음식"})

	items, err := f.Select(eligible, all, map[string]struct{}{}, testRand())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"귀리", "소고기", "배추김치"}, names(items))
}

func TestFallbackUsesRawPool(t *testing.T) {
	c := NewClassifier(DefaultRules())
	low, high := 20.0, 45.0
	pizza := fixedRecord("치즈피자", 280, 12, 10, 33)
	pizza.HealthScore = &low
	burger := fixedRecord("불고기버거", 300, 15, 12, 30)
	burger.HealthScore = &high
	eligible, all := c.BuildPool([]model.FoodRecord{pizza, burger, fixedRecord("소시지", 200, 8, 16, 4)})
	require.Empty(t, eligible)

	items, err := newFallback().Select(eligible, all, map[string]struct{}{}, testRand())
	require.NoError(t, err)
	assert.Equal(t, []string{"소시지", "불고기버거", "치즈피자"}, names(items))
}

func TestFallbackEmptyPool(t *testing.T) {
	_, err := newFallback().Select(nil, nil, map[string]struct{}{}, testRand())
	assert.ErrorIs(t, err, ErrEmptyPool)
}
