package planner

import (
	_ "embed"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/fitmeal/mealplan-backend/internal/model"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// RoleRule maps a keyword list to a role.
type RoleRule struct {
	Role     model.Role `yaml:"role"`
	Keywords []string   `yaml:"keywords"`
}

// SourceRule maps a keyword list to a carb or protein source tag.
type SourceRule struct {
	Tag      string   `yaml:"tag"`
	Keywords []string `yaml:"keywords"`
}

// DenyLists holds the keyword sets that mark a food unfit for a meal.
type DenyLists struct {
	Supplement      []string `yaml:"supplement"`
	DrinkDessert    []string `yaml:"drink_dessert"`
	HighlyProcessed []string `yaml:"highly_processed"`
	Snack           []string `yaml:"snack"`
}

// DailyCaps are the per-day diversity limits.
type DailyCaps struct {
	BreadMains  int `yaml:"bread_mains"`
	NoodleMains int `yaml:"noodle_mains"`
	Processed   int `yaml:"processed"`
	SnackDrink  int `yaml:"snack_drink"`
}

// Rules is the full keyword configuration of the engine.
type Rules struct {
	Roles             []RoleRule   `yaml:"roles"`
	SecondaryRoles    []RoleRule   `yaml:"secondary_roles"`
	CarbSources       []SourceRule `yaml:"carb_sources"`
	ProteinSources    []SourceRule `yaml:"protein_sources"`
	Deny              DenyLists    `yaml:"deny"`
	DailyCaps         DailyCaps    `yaml:"daily_caps"`
	FallbackTemplates [][]string   `yaml:"fallback_templates"`
}

// DefaultRules returns the embedded rule set.
func DefaultRules() *Rules {
	rules, err := parseRules(defaultRulesYAML)
	if err != nil {
		panic(fmt.Sprintf("planner: embedded rules are invalid: %v", err))
	}
	return rules
}

// LoadRules reads a rule set from r.
func LoadRules(r io.Reader) (*Rules, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading rules: %w", err)
	}
	return parseRules(data)
}

func parseRules(data []byte) (*Rules, error) {
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("error parsing rules: %w", err)
	}
	if err := rules.validate(); err != nil {
		return nil, err
	}
	return &rules, nil
}

func (r *Rules) validate() error {
	if len(r.Roles) == 0 {
		return fmt.Errorf("rules: at least one role rule is required")
	}
	for _, rr := range append(append([]RoleRule{}, r.Roles...), r.SecondaryRoles...) {
		switch rr.Role {
		case model.RoleMain, model.RoleProtein, model.RoleSide:
		default:
			return fmt.Errorf("rules: unsupported role %q", rr.Role)
		}
	}
	if !r.hasCarbTag(carbTagBread) || !r.hasCarbTag(carbTagNoodle) {
		return fmt.Errorf("rules: carb sources must define %q and %q", carbTagBread, carbTagNoodle)
	}
	if len(r.FallbackTemplates) == 0 {
		return fmt.Errorf("rules: at least one fallback template is required")
	}
	c := r.DailyCaps
	if c.BreadMains < 0 || c.NoodleMains < 0 || c.Processed < 0 || c.SnackDrink < 0 {
		return fmt.Errorf("rules: daily caps must not be negative")
	}
	return nil
}

func (r *Rules) hasCarbTag(tag string) bool {
	for _, s := range r.CarbSources {
		if s.Tag == tag {
			return true
		}
	}
	return false
}

func (r *Rules) carbKeywords(tag string) []string {
	for _, s := range r.CarbSources {
		if s.Tag == tag {
			return s.Keywords
		}
	}
	return nil
}
