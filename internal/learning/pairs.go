// Package learning derives pairing affinities and preference scores from
// user history. It performs no I/O.
package learning

import (
	"math"
	"sort"

	"github.com/fitmeal/mealplan-backend/internal/model"
)

const (
	minSingleCount = 2
	minPairCount   = 2
	smoothing      = 1.0
	supportScale   = 5.0
	minProbRatio   = 1e-12
)

// TrainOptions tunes TrainPairs.
type TrainOptions struct {
	// ValidNames restricts training to known foods when non-empty.
	ValidNames map[string]struct{}
}

type pairKey struct{ a, b string }

func orderedPair(a, b string) pairKey {
	if a <= b {
		return pairKey{a, b}
	}
	return pairKey{b, a}
}

// TrainPairs scores every food pair that co-occurs in at least two logged
// meals. Each meal is a list of food names. Results are sorted by score,
// highest first.
func TrainPairs(meals [][]string, opts TrainOptions) []model.PairScore {
	single := make(map[string]int)
	pair := make(map[pairKey]int)

	for _, meal := range meals {
		names := distinct(meal)
		for _, n := range names {
			single[n]++
		}
		for i := 0; i < len(names); i++ {
			for j := i + 1; j < len(names); j++ {
				pair[orderedPair(names[i], names[j])]++
			}
		}
	}

	for n, c := range single {
		if c < minSingleCount || !opts.valid(n) {
			delete(single, n)
		}
	}
	for k, c := range pair {
		_, okA := single[k.a]
		_, okB := single[k.b]
		if c < minPairCount || !okA || !okB {
			delete(pair, k)
		}
	}

	n := math.Max(1, float64(len(meals)))
	denom := n + smoothing*float64(len(single))
	prob := func(c int) float64 { return (float64(c) + smoothing) / denom }

	out := make([]model.PairScore, 0, len(pair))
	for k, cab := range pair {
		ca, cb := single[k.a], single[k.b]
		lift := prob(cab) / (prob(ca) * prob(cb))
		pmi := math.Log(math.Max(minProbRatio, lift))
		score := sigmoid(pmi) * (1 - math.Exp(-float64(cab)/supportScale))
		out = append(out, model.PairScore{
			FoodA:   k.a,
			FoodB:   k.b,
			CountAB: cab,
			CountA:  ca,
			CountB:  cb,
			PMI:     pmi,
			Lift:    lift,
			Score:   score,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].FoodA != out[j].FoodA {
			return out[i].FoodA < out[j].FoodA
		}
		return out[i].FoodB < out[j].FoodB
	})
	return out
}

// MealsFromDays flattens day plans into per-meal name lists for training.
func MealsFromDays(days []model.DayPlan) [][]string {
	var meals [][]string
	for _, d := range days {
		for _, m := range d.Meals {
			names := make([]string, 0, len(m.Items))
			for _, it := range m.Items {
				names = append(names, it.FoodName)
			}
			meals = append(meals, names)
		}
	}
	return meals
}

func (o TrainOptions) valid(name string) bool {
	if len(o.ValidNames) == 0 {
		return true
	}
	_, ok := o.ValidNames[name]
	return ok
}

func distinct(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
