package model

import "math"

// Macros represents energy and macronutrient amounts.
type Macros struct {
	Kcal     float64 `json:"kcal"`
	ProteinG float64 `json:"protein_g"`
	FatG     float64 `json:"fat_g"`
	CarbG    float64 `json:"carb_g"`
}

// Add returns the element-wise sum of m and o.
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Kcal:     m.Kcal + o.Kcal,
		ProteinG: m.ProteinG + o.ProteinG,
		FatG:     m.FatG + o.FatG,
		CarbG:    m.CarbG + o.CarbG,
	}
}

// Scale multiplies every field by f.
func (m Macros) Scale(f float64) Macros {
	return Macros{
		Kcal:     m.Kcal * f,
		ProteinG: m.ProteinG * f,
		FatG:     m.FatG * f,
		CarbG:    m.CarbG * f,
	}
}

// Slice returns the fields in kcal, protein, fat, carb order.
func (m Macros) Slice() [4]float64 {
	return [4]float64{m.Kcal, m.ProteinG, m.FatG, m.CarbG}
}

// NutritionTarget is the macro goal for a day or a single meal.
type NutritionTarget = Macros

// Valid reports whether every field is a positive finite number.
func (m Macros) Valid() bool {
	for _, v := range m.Slice() {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// RelErr returns |actual-target| / max(1, target).
func RelErr(actual, target float64) float64 {
	return math.Abs(actual-target) / math.Max(1.0, target)
}
