package planner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitmeal/mealplan-backend/internal/model"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(DefaultRules())

	tests := []struct {
		name string
		want model.Role
	}{
		{"현미밥", model.RoleMain},
		{"소고기덮밥", model.RoleMain},
		{"잔치국수", model.RoleMain},
		{"닭가슴살", model.RoleProtein},
		{"연어구이", model.RoleProtein},
		{"두부조림", model.RoleProtein},
		{"샐러드", model.RoleSide},
		{"된장국", model.RoleSide},
		{"카레", model.RoleMain},
		{"초콜릿", model.RoleMisc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.name))
		})
	}
}

func TestClassifyIsPure(t *testing.T) {
	c := NewClassifier(DefaultRules())
	for _, name := range []string{"현미밥", "닭가슴살", "샐러드", "카레", "알수없음"} {
		first := c.Candidate(fixedRecord(name, 100, 1, 1, 1))
		for i := 0; i < 5; i++ {
			again := c.Candidate(fixedRecord(name, 100, 1, 1, 1))
			assert.Equal(t, first.Role, again.Role)
			assert.Equal(t, first.CarbSourceTag, again.CarbSourceTag)
			assert.Equal(t, first.ProteinSourceTag, again.ProteinSourceTag)
		}
	}
}

func TestSourceTags(t *testing.T) {
	c := NewClassifier(DefaultRules())

	main := c.Candidate(fixedRecord("현미밥", 300, 6, 1, 65))
	assert.Equal(t, "rice_grain", main.CarbSourceTag)
	assert.Equal(t, model.SourceNone, main.ProteinSourceTag)

	protein := c.Candidate(fixedRecord("닭가슴살", 165, 31, 3.6, 0))
	assert.Equal(t, "poultry", protein.ProteinSourceTag)
	assert.Equal(t, model.SourceNone, protein.CarbSourceTag)

	curry := c.Candidate(fixedRecord("카레", 200, 5, 8, 25))
	assert.Equal(t, model.RoleMain, curry.Role)
	assert.Equal(t, model.SourceOther, curry.CarbSourceTag)

	side := c.Candidate(fixedRecord("샐러드", 80, 2, 5, 6))
	assert.Equal(t, model.SourceNone, side.CarbSourceTag)
	assert.Equal(t, model.SourceNone, side.ProteinSourceTag)
}

func TestCoreKeyword(t *testing.T) {
	c := NewClassifier(DefaultRules())
	assert.Equal(t, "밥", c.CoreKeyword("현미밥"))
	assert.Equal(t, "밥", c.CoreKeyword("잡곡밥"))
	assert.Equal(t, "국수", c.CoreKeyword("잔치국수"))
	assert.Equal(t, "닭", c.CoreKeyword("닭가슴살"))
	assert.Equal(t, "", c.CoreKeyword("샐러드"))
}

func TestIsEligible(t *testing.T) {
	c := NewClassifier(DefaultRules())

	for _, name := range []string{"현미밥", "닭가슴살", "샐러드", "된장국"} {
		assert.True(t, c.IsEligible(name), name)
	}
	for _, name := range []string{"치즈피자", "프로틴쉐이크", "아메리카노커피", "감자칩", "도넛", "소시지볶음"} {
		assert.False(t, c.IsEligible(name), name)
	}
}

func TestCandidateServing(t *testing.T) {
	c := NewClassifier(DefaultRules())

	rec := fixedRecord("현미밥", 200, 4, 1, 40)
	rec.ServingSizeG = 150
	cand := c.Candidate(rec)
	assert.InDelta(t, 300.0, cand.PerServing.Kcal, 1e-9)
	assert.InDelta(t, 6.0, cand.PerServing.ProteinG, 1e-9)
	assert.Equal(t, defaultServingMinG, cand.ServingMinG)
	assert.Equal(t, defaultServingMaxG, cand.ServingMaxG)

	rec.ServingSizeG = 0
	assert.Equal(t, defaultServingG, c.Candidate(rec).ServingSizeG)

	rec.ServingSizeG = 1000
	assert.Equal(t, maxServingG, c.Candidate(rec).ServingSizeG)

	rec.ServingSizeG = 5
	assert.Equal(t, minServingG, c.Candidate(rec).ServingSizeG)
}

func TestBuildPool(t *testing.T) {
	c := NewClassifier(DefaultRules())

	recs := []model.FoodRecord{
		fixedRecord("현미밥", 300, 6, 1, 65),
		fixedRecord("현미밥", 999, 99, 99, 99),
		fixedRecord("치즈피자", 280, 12, 10, 33),
		fixedRecord("", 100, 1, 1, 1),
	}
	eligible, all := c.BuildPool(recs)

	require.Len(t, all, 2)
	require.Len(t, eligible, 1)
	assert.Equal(t, "현미밥", eligible[0].FoodName)
	assert.InDelta(t, 300.0, eligible[0].PerServing.Kcal, 1e-9)
}

func TestLoadRules(t *testing.T) {
	_, err := LoadRules(strings.NewReader("roles: []"))
	assert.Error(t, err)

	_, err = LoadRules(strings.NewReader("roles: [{role: dessert, keywords: [케이크]}]"))
	assert.Error(t, err)

	rules := DefaultRules()
	assert.Len(t, rules.FallbackTemplates, 5)
	assert.Equal(t, 1, rules.DailyCaps.BreadMains)
	assert.Equal(t, 2, rules.DailyCaps.Processed)
}
