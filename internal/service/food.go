package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitmeal/mealplan-backend/internal/model"
	"github.com/fitmeal/mealplan-backend/internal/models"
)

const upsertBatchSize = 200

// FoodService reads and maintains the food pool.
type FoodService struct {
	db *gorm.DB
}

func NewFoodService(db *gorm.DB) *FoodService {
	return &FoodService{db: db}
}

// LoadPool returns every food as a planner pool entry, ordered by name.
func (s *FoodService) LoadPool(ctx context.Context) ([]model.FoodRecord, error) {
	var foods []models.Food
	if err := s.db.WithContext(ctx).Order("name").Find(&foods).Error; err != nil {
		return nil, fmt.Errorf("failed to load food pool: %w", err)
	}

	pool := make([]model.FoodRecord, len(foods))
	for i, f := range foods {
		pool[i] = f.Record()
	}
	return pool, nil
}

// Upsert inserts foods or updates existing rows by name. Blank names are
// skipped. It returns the number of rows written.
func (s *FoodService) Upsert(ctx context.Context, foods []model.FoodRecord) (int, error) {
	rows := make([]models.Food, 0, len(foods))
	seen := make(map[string]int, len(foods))
	for _, r := range foods {
		r.FoodName = strings.TrimSpace(r.FoodName)
		if r.FoodName == "" {
			continue
		}
		// later entries win within one batch
		if i, ok := seen[r.FoodName]; ok {
			rows[i] = models.FoodFromRecord(r)
			continue
		}
		seen[r.FoodName] = len(rows)
		rows = append(rows, models.FoodFromRecord(r))
	}
	if len(rows) == 0 {
		return 0, nil
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"energy_kcal", "protein_g", "fat_g", "carb_g",
			"serving_size_g", "is_flexible", "serving_min_g", "serving_max_g",
			"health_score", "ml_health_score", "hybrid_health_score",
			"updated_at", "deleted_at",
		}),
	}).CreateInBatches(&rows, upsertBatchSize).Error
	if err != nil {
		return 0, fmt.Errorf("failed to upsert foods: %w", err)
	}
	return len(rows), nil
}

// Names returns the set of known food names.
func (s *FoodService) Names(ctx context.Context) (map[string]struct{}, error) {
	var names []string
	if err := s.db.WithContext(ctx).Model(&models.Food{}).Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("failed to list food names: %w", err)
	}
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		out[n] = struct{}{}
	}
	return out, nil
}

// Exists reports whether a food with the given name is in the pool.
func (s *FoodService) Exists(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Food{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to look up food %q: %w", name, err)
	}
	return count > 0, nil
}
