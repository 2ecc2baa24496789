package planner

import (
	"math"
	"strings"

	"github.com/fitmeal/mealplan-backend/internal/model"
)

const (
	carbTagBread  = "bread"
	carbTagNoodle = "noodle"
)

// Pool loading defaults for records with missing serving data.
const (
	defaultServingG    = 100.0
	minServingG        = 30.0
	maxServingG        = 400.0
	defaultServingMinG = 50.0
	defaultServingMaxG = 300.0
)

// Classifier tags food names by keyword rules. All methods are pure.
type Classifier struct {
	rules       *Rules
	coreBuckets []string
}

// NewClassifier creates a Classifier over rules.
func NewClassifier(rules *Rules) *Classifier {
	var buckets []string
	for _, s := range rules.CarbSources {
		buckets = append(buckets, s.Keywords...)
	}
	for _, s := range rules.ProteinSources {
		buckets = append(buckets, s.Keywords...)
	}
	return &Classifier{rules: rules, coreBuckets: buckets}
}

func matchAny(name string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

// Classify returns the dietary role of name. Unmatched names are misc.
func (c *Classifier) Classify(name string) model.Role {
	for _, rr := range c.rules.Roles {
		if matchAny(name, rr.Keywords) {
			return rr.Role
		}
	}
	for _, rr := range c.rules.SecondaryRoles {
		if matchAny(name, rr.Keywords) {
			return rr.Role
		}
	}
	return model.RoleMisc
}

func sourceTag(name string, rules []SourceRule) string {
	for _, s := range rules {
		if matchAny(name, s.Keywords) {
			return s.Tag
		}
	}
	return model.SourceOther
}

// CarbSourceTag returns the carb-source rotation tag of name.
func (c *Classifier) CarbSourceTag(name string) string {
	return sourceTag(name, c.rules.CarbSources)
}

// ProteinSourceTag returns the protein-source rotation tag of name.
func (c *Classifier) ProteinSourceTag(name string) string {
	return sourceTag(name, c.rules.ProteinSources)
}

// CoreKeyword returns the single strongest identity keyword in name, or "".
func (c *Classifier) CoreKeyword(name string) string {
	for _, kw := range c.coreBuckets {
		if strings.Contains(name, kw) {
			return kw
		}
	}
	return ""
}

func (c *Classifier) IsSupplement(name string) bool {
	return matchAny(name, c.rules.Deny.Supplement)
}

func (c *Classifier) IsDrinkOrDessert(name string) bool {
	return matchAny(name, c.rules.Deny.DrinkDessert)
}

func (c *Classifier) IsHighlyProcessed(name string) bool {
	return matchAny(name, c.rules.Deny.HighlyProcessed)
}

// IsSnackOrDrink counts toward the daily snack/drink cap.
func (c *Classifier) IsSnackOrDrink(name string) bool {
	return c.IsSupplement(name) || c.IsDrinkOrDessert(name)
}

// IsBread reports whether name is a bread-type carb.
func (c *Classifier) IsBread(name string) bool {
	return matchAny(name, c.rules.carbKeywords(carbTagBread))
}

// IsNoodle reports whether name is a noodle-type carb.
func (c *Classifier) IsNoodle(name string) bool {
	return matchAny(name, c.rules.carbKeywords(carbTagNoodle))
}

// IsEligible is the hard deny-list check applied before any meal logic.
func (c *Classifier) IsEligible(name string) bool {
	if c.IsSupplement(name) || c.IsDrinkOrDessert(name) || c.IsHighlyProcessed(name) {
		return false
	}
	return !matchAny(name, c.rules.Deny.Snack)
}

// Candidate converts a per-100g record into a tagged per-serving candidate.
func (c *Classifier) Candidate(rec model.FoodRecord) model.FoodCandidate {
	serving := rec.ServingSizeG
	if serving <= 0 {
		serving = defaultServingG
	}
	serving = math.Max(minServingG, math.Min(maxServingG, serving))
	mult := serving / 100.0

	minG, maxG := rec.ServingMinG, rec.ServingMaxG
	if minG <= 0 {
		minG = defaultServingMinG
	}
	if maxG <= 0 {
		maxG = defaultServingMaxG
	}

	role := c.Classify(rec.FoodName)
	carbTag, proteinTag := model.SourceNone, model.SourceNone
	if role == model.RoleMain {
		carbTag = c.CarbSourceTag(rec.FoodName)
	}
	if role == model.RoleProtein {
		proteinTag = c.ProteinSourceTag(rec.FoodName)
	}

	return model.FoodCandidate{
		FoodName: rec.FoodName,
		PerServing: model.Macros{
			Kcal:     rec.EnergyKcal * mult,
			ProteinG: rec.ProteinG * mult,
			FatG:     rec.FatG * mult,
			CarbG:    rec.CarbG * mult,
		},
		ServingSizeG:      serving,
		IsFlexible:        rec.IsFlexible,
		ServingMinG:       minG,
		ServingMaxG:       maxG,
		HealthScore:       rec.HealthScore,
		MLHealthScore:     rec.MLHealthScore,
		HybridHealthScore: rec.HybridHealthScore,
		Role:              role,
		CarbSourceTag:     carbTag,
		ProteinSourceTag:  proteinTag,
	}
}

// BuildPool tags every record and splits the result into the eligible pool
// and the full pool. Duplicate names keep their first occurrence.
func (c *Classifier) BuildPool(recs []model.FoodRecord) (eligible, all []model.FoodCandidate) {
	seen := make(map[string]struct{}, len(recs))
	for _, rec := range recs {
		if rec.FoodName == "" {
			continue
		}
		if _, dup := seen[rec.FoodName]; dup {
			continue
		}
		seen[rec.FoodName] = struct{}{}

		cand := c.Candidate(rec)
		all = append(all, cand)
		if c.IsEligible(rec.FoodName) {
			eligible = append(eligible, cand)
		}
	}
	return eligible, all
}
