package model

// PairingTable maps a food name to its learned co-occurrence affinity with
// other foods. It is read-only once handed to the planner.
type PairingTable map[string]map[string]float64

// NewPairingTable builds a symmetric table from scored pairs.
func NewPairingTable(pairs []PairScore) PairingTable {
	t := make(PairingTable)
	for _, p := range pairs {
		if p.Score <= 0 || p.FoodA == "" || p.FoodB == "" {
			continue
		}
		t.set(p.FoodA, p.FoodB, p.Score)
		t.set(p.FoodB, p.FoodA, p.Score)
	}
	return t
}

func (t PairingTable) set(a, b string, score float64) {
	row, ok := t[a]
	if !ok {
		row = make(map[string]float64)
		t[a] = row
	}
	row[b] = score
}

// Affinity returns the recorded score between a and b, or 0.
func (t PairingTable) Affinity(a, b string) float64 {
	if t == nil {
		return 0
	}
	return t[a][b]
}

// PairScore is one learned pair affinity.
type PairScore struct {
	FoodA   string  `json:"food_a"`
	FoodB   string  `json:"food_b"`
	CountAB int     `json:"count_ab"`
	CountA  int     `json:"count_a"`
	CountB  int     `json:"count_b"`
	PMI     float64 `json:"pmi"`
	Lift    float64 `json:"lift"`
	Score   float64 `json:"score"`
}

// PreferenceMap maps a food name to the user's 0-100 EMA rating.
type PreferenceMap map[string]float64

// Score returns the user's rating for name, or 0 when unrated.
func (p PreferenceMap) Score(name string) float64 {
	if p == nil {
		return 0
	}
	return p[name]
}
