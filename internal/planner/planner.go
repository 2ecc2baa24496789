package planner

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fitmeal/mealplan-backend/internal/model"
)

const (
	// DefaultRetryLimit is the number of composer attempts per meal.
	DefaultRetryLimit = 3
	weekConcurrency   = 4
)

// Option configures a Planner.
type Option func(*Planner)

// WithLogger sets the planner's logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Planner) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithSolver replaces the LP backend.
func WithSolver(s Solver) Option {
	return func(p *Planner) {
		if s != nil {
			p.solver = s
		}
	}
}

// WithRetryLimit sets the composer attempts per meal before falling back.
func WithRetryLimit(n int) Option {
	return func(p *Planner) {
		if n > 0 {
			p.retryLimit = n
		}
	}
}

// WithTolRatio sets the optimizer's logged tolerance.
func WithTolRatio(r float64) Option {
	return func(p *Planner) {
		if r > 0 {
			p.tolRatio = r
		}
	}
}

// WithSeed fixes the random source. Zero keeps a time-based seed.
func WithSeed(seed int64) Option {
	return func(p *Planner) {
		if seed != 0 {
			p.seed = seed
		}
	}
}

// WithRules replaces the embedded keyword rules.
func WithRules(r *Rules) Option {
	return func(p *Planner) {
		if r != nil {
			p.rules = r
		}
	}
}

// Planner builds day and week plans from a food pool snapshot. A Planner is
// safe for concurrent use: every call owns its own day state.
type Planner struct {
	rules      *Rules
	solver     Solver
	logger     *zap.Logger
	retryLimit int
	tolRatio   float64
	seed       int64

	classifier *Classifier
	composer   *Composer
	optimizer  *Optimizer
	fallback   *FallbackSelector

	eligible []model.FoodCandidate
	all      []model.FoodCandidate
}

// New creates a Planner over pool. pairs and prefs may be nil.
func New(pool []model.FoodRecord, pairs model.PairingTable, prefs model.PreferenceMap, opts ...Option) *Planner {
	p := &Planner{
		solver:     SimplexSolver{},
		logger:     zap.NewNop(),
		retryLimit: DefaultRetryLimit,
		tolRatio:   DefaultTolRatio,
		seed:       time.Now().UnixNano(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rules == nil {
		p.rules = DefaultRules()
	}

	p.classifier = NewClassifier(p.rules)
	scorer := NewScorer(p.classifier, pairs, prefs)
	p.composer = NewComposer(scorer, NewDiversityTracker(p.classifier, p.rules.DailyCaps))
	p.optimizer = NewOptimizer(p.solver, p.tolRatio, p.logger)
	p.fallback = NewFallbackSelector(p.rules)
	p.eligible, p.all = p.classifier.BuildPool(pool)
	return p
}

// Classifier exposes the planner's food classifier.
func (p *Planner) Classifier() *Classifier {
	return p.classifier
}

// PlanDay plans one day of mealsPerDay meals.
func (p *Planner) PlanDay(target model.NutritionTarget, mealsPerDay int, goal model.Goal) (*model.DayPlan, error) {
	if err := p.validate(target, mealsPerDay, goal); err != nil {
		return nil, err
	}
	return p.planDay(0, target, mealsPerDay, goal)
}

// PlanWeek plans days independent days concurrently and averages their
// totals.
func (p *Planner) PlanWeek(ctx context.Context, target model.NutritionTarget, mealsPerDay int, goal model.Goal, days int) (*model.WeekPlan, error) {
	if err := p.validate(target, mealsPerDay, goal); err != nil {
		return nil, err
	}
	if days < 1 {
		return nil, fmt.Errorf("%w: days must be at least 1, got %d", ErrInvalidTarget, days)
	}

	plans := make([]model.DayPlan, days)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(weekConcurrency)
	for d := 0; d < days; d++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			plan, err := p.planDay(d, target, mealsPerDay, goal)
			if err != nil {
				return fmt.Errorf("day %d: %w", d+1, err)
			}
			plan.Day = d + 1
			plans[d] = *plan
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var sum model.Macros
	for _, dp := range plans {
		sum = sum.Add(dp.ActualDaily)
	}
	return &model.WeekPlan{
		Days:          plans,
		WeeklyAverage: sum.Scale(1 / float64(days)),
	}, nil
}

func (p *Planner) validate(target model.NutritionTarget, mealsPerDay int, goal model.Goal) error {
	if !target.Valid() {
		return fmt.Errorf("%w: every macro must be positive, got %+v", ErrInvalidTarget, target)
	}
	if mealsPerDay < 1 {
		return fmt.Errorf("%w: meals per day must be at least 1, got %d", ErrInvalidTarget, mealsPerDay)
	}
	if _, ok := goalProfiles[goal]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownGoal, goal)
	}
	if len(p.all) == 0 {
		return ErrEmptyPool
	}
	return nil
}

func (p *Planner) planDay(dayIndex int, target model.NutritionTarget, mealsPerDay int, goal model.Goal) (*model.DayPlan, error) {
	rng := rand.New(rand.NewPCG(uint64(p.seed), uint64(dayIndex)))
	day := NewDayState()
	mealTarget := target.Scale(1 / float64(mealsPerDay))

	plan := &model.DayPlan{TargetDaily: target}
	for n := 1; n <= mealsPerDay; n++ {
		meal, err := p.planMeal(n, mealTarget, goal, day, rng)
		if err != nil {
			return nil, fmt.Errorf("meal %d: %w", n, err)
		}
		plan.Meals = append(plan.Meals, meal)
		plan.ActualDaily = plan.ActualDaily.Add(meal.Actuals)
	}
	return plan, nil
}

type mealState int

const (
	stateCompose mealState = iota
	stateValidate
	stateRetry
	stateAccept
	stateFallback
)

func (s mealState) String() string {
	switch s {
	case stateCompose:
		return "compose"
	case stateValidate:
		return "validate"
	case stateRetry:
		return "retry"
	case stateAccept:
		return "accept"
	case stateFallback:
		return "fallback"
	}
	return "unknown"
}

// planMeal runs Compose -> Validate -> Accept | Retry | Fallback.
func (p *Planner) planMeal(n int, target model.NutritionTarget, goal model.Goal, day *DayState, rng *rand.Rand) (model.MealPlan, error) {
	var (
		comp    Composition
		ok      bool
		attempt int
		exclude = make(map[string]struct{})
	)

	state := stateCompose
	for {
		switch state {
		case stateCompose:
			attempt++
			comp, ok = p.composer.Compose(p.eligible, target, goal, day, exclude)
			state = stateValidate

		case stateValidate:
			switch {
			case ok:
				state = stateAccept
			case attempt < p.retryLimit:
				state = stateRetry
			default:
				state = stateFallback
			}

		case stateRetry:
			p.logger.Debug("meal composition rejected, retrying",
				zap.Int("meal", n),
				zap.Int("attempt", attempt),
				zap.Float64("kcal", comp.Totals.Kcal),
				zap.Float64("protein_g", comp.Totals.ProteinG))
			for _, it := range comp.Items {
				if it.Role == model.RoleMain || it.Role == model.RoleProtein {
					exclude[it.FoodName] = struct{}{}
				}
			}
			state = stateCompose

		case stateAccept:
			items, totals := p.optimizer.Optimize(comp.Items, target)
			p.composer.Commit(comp.Items, day)
			return model.MealPlan{
				MealNumber:  n,
				Targets:     target,
				RoleTargets: comp.RoleTargets,
				Actuals:     totals,
				Items:       items,
			}, nil

		case stateFallback:
			p.logger.Debug("falling back to template meal",
				zap.Int("meal", n), zap.Int("attempts", attempt))
			picked, err := p.fallback.Select(p.eligible, p.all, day.Used, rng)
			if err != nil {
				return model.MealPlan{}, err
			}
			items, totals := p.optimizer.Optimize(picked, target)
			p.composer.Commit(picked, day)
			return model.MealPlan{
				MealNumber:  n,
				Targets:     target,
				RoleTargets: RoleTargets(target.Kcal, goal),
				Actuals:     totals,
				Items:       items,
				Fallback:    true,
			}, nil

		default:
			return model.MealPlan{}, fmt.Errorf("planner: unexpected state %s", state)
		}
	}
}
