package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fitmeal/mealplan-backend/internal/model"
	"github.com/fitmeal/mealplan-backend/internal/planner"
	"github.com/fitmeal/mealplan-backend/internal/types"
)

const defaultDraftTTL = 24 * time.Hour

// DraftStore keeps generated plans for later retrieval.
type DraftStore interface {
	Save(ctx context.Context, plan *types.StoredPlan, ttl time.Duration) error
	Get(ctx context.Context, id uuid.UUID) (*types.StoredPlan, error)
}

// RedisDraftStore stores plans as JSON under mealplan:plan:<id>.
type RedisDraftStore struct {
	client *redis.Client
}

func NewRedisDraftStore(client *redis.Client) *RedisDraftStore {
	return &RedisDraftStore{client: client}
}

func draftKey(id uuid.UUID) string {
	return fmt.Sprintf("mealplan:plan:%s", id)
}

// Save stores plan with the given expiry.
func (s *RedisDraftStore) Save(ctx context.Context, plan *types.StoredPlan, ttl time.Duration) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	if err := s.client.Set(ctx, draftKey(plan.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save plan to Redis: %w", err)
	}
	return nil
}

// Get loads a stored plan, returning ErrPlanNotFound once it has expired.
func (s *RedisDraftStore) Get(ctx context.Context, id uuid.UUID) (*types.StoredPlan, error) {
	data, err := s.client.Get(ctx, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan from Redis: %w", err)
	}

	var plan types.StoredPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan: %w", err)
	}
	return &plan, nil
}

// MemoryDraftStore keeps plans in process. It is used when redis is not
// configured and loses every draft on restart.
type MemoryDraftStore struct {
	mu    sync.Mutex
	plans map[uuid.UUID]memoryDraft
	now   func() time.Time
}

type memoryDraft struct {
	plan    *types.StoredPlan
	expires time.Time
}

func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{plans: make(map[uuid.UUID]memoryDraft), now: time.Now}
}

// Save stores plan until ttl elapses, dropping any drafts that already have.
func (s *MemoryDraftStore) Save(_ context.Context, plan *types.StoredPlan, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, d := range s.plans {
		if !now.Before(d.expires) {
			delete(s.plans, id)
		}
	}
	s.plans[plan.ID] = memoryDraft{plan: plan, expires: now.Add(ttl)}
	return nil
}

func (s *MemoryDraftStore) Get(_ context.Context, id uuid.UUID) (*types.StoredPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.plans[id]
	if !ok || !s.now().Before(d.expires) {
		return nil, ErrPlanNotFound
	}
	return d.plan, nil
}

// PlanService ties the planner to the stored pool, the user's preferences and
// the learned pairings, then logs and stores every generated plan.
type PlanService struct {
	foods    IFoodService
	prefs    IPreferenceService
	pairs    IPairingService
	logs     *MealLogService
	drafts   DraftStore
	draftTTL time.Duration
	opts     []planner.Option
	logger   *zap.Logger
}

func NewPlanService(
	foods IFoodService,
	prefs IPreferenceService,
	pairs IPairingService,
	logs *MealLogService,
	drafts DraftStore,
	draftTTL time.Duration,
	logger *zap.Logger,
	opts ...planner.Option,
) *PlanService {
	if draftTTL <= 0 {
		draftTTL = defaultDraftTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanService{
		foods:    foods,
		prefs:    prefs,
		pairs:    pairs,
		logs:     logs,
		drafts:   drafts,
		draftTTL: draftTTL,
		opts:     append([]planner.Option{planner.WithLogger(logger)}, opts...),
		logger:   logger,
	}
}

// PlanDay plans a single day for userID.
func (s *PlanService) PlanDay(ctx context.Context, userID uuid.UUID, req *types.PlanRequest) (*types.StoredPlan, error) {
	goal, err := parseGoal(req.Goal)
	if err != nil {
		return nil, err
	}
	p, err := s.plannerFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	day, err := p.PlanDay(req.Target.Macros(), req.MealsPerDay, goal)
	if err != nil {
		return nil, err
	}

	stored := s.newStored(userID, types.PlanKindDay, goal)
	stored.Day = day
	if err := s.finish(ctx, stored, *day); err != nil {
		return nil, err
	}
	return stored, nil
}

// PlanWeek plans req.Days independent days, seven when unset.
func (s *PlanService) PlanWeek(ctx context.Context, userID uuid.UUID, req *types.PlanRequest) (*types.StoredPlan, error) {
	goal, err := parseGoal(req.Goal)
	if err != nil {
		return nil, err
	}
	days := req.Days
	if days == 0 {
		days = types.DefaultPlanDays
	}
	p, err := s.plannerFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	week, err := p.PlanWeek(ctx, req.Target.Macros(), req.MealsPerDay, goal, days)
	if err != nil {
		return nil, err
	}

	stored := s.newStored(userID, types.PlanKindWeek, goal)
	stored.Week = week
	if err := s.finish(ctx, stored, week.Days...); err != nil {
		return nil, err
	}
	return stored, nil
}

// GetPlan returns a previously generated plan.
func (s *PlanService) GetPlan(ctx context.Context, id uuid.UUID) (*types.StoredPlan, error) {
	return s.drafts.Get(ctx, id)
}

func parseGoal(raw string) (model.Goal, error) {
	goal, err := model.ParseGoal(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", planner.ErrUnknownGoal, raw)
	}
	return goal, nil
}

func (s *PlanService) plannerFor(ctx context.Context, userID uuid.UUID) (*planner.Planner, error) {
	pool, err := s.foods.LoadPool(ctx)
	if err != nil {
		return nil, err
	}
	pairs, err := s.pairs.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	prefs, err := s.prefs.PreferenceMap(ctx, userID)
	if err != nil {
		return nil, err
	}
	return planner.New(pool, pairs, prefs, s.opts...), nil
}

func (s *PlanService) newStored(userID uuid.UUID, kind types.PlanKind, goal model.Goal) *types.StoredPlan {
	return &types.StoredPlan{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      kind,
		Goal:      goal,
		CreatedAt: time.Now().UTC(),
	}
}

func (s *PlanService) finish(ctx context.Context, stored *types.StoredPlan, days ...model.DayPlan) error {
	if err := s.logs.Record(ctx, stored.UserID, stored.ID, stored.Goal, days...); err != nil {
		return err
	}
	if err := s.drafts.Save(ctx, stored, s.draftTTL); err != nil {
		return err
	}
	s.logger.Info("plan generated",
		zap.String("plan_id", stored.ID.String()),
		zap.String("user_id", stored.UserID.String()),
		zap.String("goal", string(stored.Goal)),
		zap.String("kind", string(stored.Kind)),
		zap.Int("days", len(days)),
	)
	return nil
}
