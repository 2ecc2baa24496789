package planner

import (
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/fitmeal/mealplan-backend/internal/model"
)

const (
	fallbackItems   = 3
	fallbackTopPool = 60
)

// FallbackSelector supplies a curated meal when composition keeps failing.
// It ignores scoring and diversity.
type FallbackSelector struct {
	templates [][]string
}

// NewFallbackSelector creates a selector over the rule set's templates.
func NewFallbackSelector(rules *Rules) *FallbackSelector {
	return &FallbackSelector{templates: rules.FallbackTemplates}
}

// Select picks up to three foods. It tries a random template first, then a
// sample of the best eligible staples, then the best foods in the raw pool.
func (f *FallbackSelector) Select(eligible, all []model.FoodCandidate, used map[string]struct{}, rng *rand.Rand) ([]model.FoodCandidate, error) {
	if len(f.templates) > 0 {
		tpl := f.templates[rng.IntN(len(f.templates))]
		if items := matchTemplate(tpl, eligible, all, used); len(items) > 0 {
			return items, nil
		}
	}

	var staples []model.FoodCandidate
	for _, c := range eligible {
		switch c.Role {
		case model.RoleMain, model.RoleProtein, model.RoleSide:
			staples = append(staples, c)
		}
	}
	if len(staples) > 0 {
		top := byQuality(preferUnused(staples, used))
		if len(top) > fallbackTopPool {
			top = top[:fallbackTopPool]
		}
		k := min(fallbackItems, len(top))
		items := make([]model.FoodCandidate, 0, k)
		for _, i := range rng.Perm(len(top))[:k] {
			items = append(items, top[i])
		}
		return items, nil
	}

	if len(all) > 0 {
		top := byQuality(preferUnused(all, used))
		return top[:min(fallbackItems, len(top))], nil
	}
	return nil, ErrEmptyPool
}

func matchTemplate(tpl []string, eligible, all []model.FoodCandidate, used map[string]struct{}) []model.FoodCandidate {
	chosen := make(map[string]struct{}, len(tpl))
	var items []model.FoodCandidate
	for _, kw := range tpl {
		if len(items) == fallbackItems {
			break
		}
		if c, ok := findKeyword(kw, chosen, used, eligible, all); ok {
			chosen[c.FoodName] = struct{}{}
			items = append(items, c)
		}
	}
	return items
}

// findKeyword returns the first food containing kw, preferring unused foods
// and the eligible pool over the raw one. When every match was already served,
// an unused eligible food of the same role stands in before a repeat.
func findKeyword(kw string, chosen, used map[string]struct{}, eligible, all []model.FoodCandidate) (model.FoodCandidate, bool) {
	var (
		repeat model.FoodCandidate
		found  bool
	)
	for _, pool := range [][]model.FoodCandidate{eligible, all} {
		for _, c := range pool {
			if !strings.Contains(c.FoodName, kw) {
				continue
			}
			if _, dup := chosen[c.FoodName]; dup {
				continue
			}
			if _, u := used[c.FoodName]; !u {
				return c, true
			}
			if !found {
				repeat, found = c, true
			}
		}
	}
	if !found {
		return model.FoodCandidate{}, false
	}
	if alt, ok := freshOfRole(repeat.Role, chosen, used, eligible); ok {
		return alt, true
	}
	return repeat, true
}

// freshOfRole returns the best eligible food of role that is neither chosen
// nor used.
func freshOfRole(role model.Role, chosen, used map[string]struct{}, eligible []model.FoodCandidate) (model.FoodCandidate, bool) {
	var same []model.FoodCandidate
	for _, c := range eligible {
		if c.Role != role {
			continue
		}
		if _, dup := chosen[c.FoodName]; dup {
			continue
		}
		if _, u := used[c.FoodName]; u {
			continue
		}
		same = append(same, c)
	}
	if len(same) == 0 {
		return model.FoodCandidate{}, false
	}
	return byQuality(same)[0], true
}

func preferUnused(cands []model.FoodCandidate, used map[string]struct{}) []model.FoodCandidate {
	var fresh []model.FoodCandidate
	for _, c := range cands {
		if _, u := used[c.FoodName]; !u {
			fresh = append(fresh, c)
		}
	}
	if len(fresh) > 0 {
		return fresh
	}
	return cands
}

func byQuality(cands []model.FoodCandidate) []model.FoodCandidate {
	out := append([]model.FoodCandidate(nil), cands...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Quality() > out[j].Quality()
	})
	return out
}
