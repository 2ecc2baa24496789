package planner

import "github.com/fitmeal/mealplan-backend/internal/model"

func fixedRecord(name string, kcal, protein, fat, carb float64) model.FoodRecord {
	return model.FoodRecord{
		FoodName:     name,
		EnergyKcal:   kcal,
		ProteinG:     protein,
		FatG:         fat,
		CarbG:        carb,
		ServingSizeG: 100,
	}
}

func flexRecord(name string, kcal, protein, fat, carb, quality float64) model.FoodRecord {
	r := fixedRecord(name, kcal, protein, fat, carb)
	r.IsFlexible = true
	r.ServingMinG = 50
	r.ServingMaxG = 300
	r.HealthScore = &quality
	return r
}

func candidate(name string, role model.Role, kcal, protein, fat, carb float64) model.FoodCandidate {
	return model.FoodCandidate{
		FoodName:     name,
		Role:         role,
		PerServing:   model.Macros{Kcal: kcal, ProteinG: protein, FatG: fat, CarbG: carb},
		ServingSizeG: 100,
		ServingMinG:  50,
		ServingMaxG:  300,
	}
}

func scenarioPool() []model.FoodRecord {
	return []model.FoodRecord{
		fixedRecord("현미밥", 300, 6, 1, 65),
		fixedRecord("닭가슴살", 165, 31, 3.6, 0),
		fixedRecord("샐러드", 80, 2, 5, 6),
	}
}

var scenarioTarget = model.NutritionTarget{Kcal: 545, ProteinG: 39, FatG: 9.6, CarbG: 71}

// richPool has role-uniform macros so flexible resizing lands every meal on
// 600 kcal / 40 P / 17.1 F / 68.8 C.
func richPool() []model.FoodRecord {
	var pool []model.FoodRecord
	mains := []struct {
		name string
		q    float64
	}{
		{"잔치국수", 95}, {"비빔면", 94}, {"쌀국수", 93}, {"메밀면", 92},
		{"현미밥", 80}, {"고구마", 79}, {"귀리", 78}, {"감자", 77},
	}
	for _, m := range mains {
		pool = append(pool, flexRecord(m.name, 150, 6, 1.5, 30, m.q))
	}
	for i, name := range []string{"닭가슴살", "소고기", "연어", "두부", "계란"} {
		pool = append(pool, flexRecord(name, 150, 18, 6, 2, 90-float64(i)))
	}
	for i, name := range []string{"샐러드", "시금치나물", "브로콜리", "오이무침", "배추김치"} {
		pool = append(pool, flexRecord(name, 60, 2, 3, 6, 85-float64(i)))
	}
	return pool
}

var richMealTarget = model.NutritionTarget{Kcal: 600, ProteinG: 40, FatG: 17.1, CarbG: 68.8}
