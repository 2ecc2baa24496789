package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitmeal/mealplan-backend/internal/learning"
	"github.com/fitmeal/mealplan-backend/internal/model"
	"github.com/fitmeal/mealplan-backend/internal/models"
)

// MealLogService stores served meals for later pair training.
type MealLogService struct {
	db *gorm.DB
}

func NewMealLogService(db *gorm.DB) *MealLogService {
	return &MealLogService{db: db}
}

// Record stores every meal of the given days under planID.
func (s *MealLogService) Record(ctx context.Context, userID, planID uuid.UUID, goal model.Goal, days ...model.DayPlan) error {
	var logs []models.MealLog
	for i, d := range days {
		dayNumber := d.Day
		if dayNumber == 0 {
			dayNumber = i + 1
		}
		names := learning.MealsFromDays([]model.DayPlan{d})
		for j, m := range d.Meals {
			logs = append(logs, models.MealLog{
				UserID:     userID,
				PlanID:     planID,
				Goal:       string(goal),
				Day:        dayNumber,
				MealNumber: m.MealNumber,
				Foods:      names[j],
				Kcal:       m.Actuals.Kcal,
				ProteinG:   m.Actuals.ProteinG,
				FatG:       m.Actuals.FatG,
				CarbG:      m.Actuals.CarbG,
				Fallback:   m.Fallback,
			})
		}
	}
	if len(logs) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(&logs).Error; err != nil {
		return fmt.Errorf("failed to record meal logs: %w", err)
	}
	return nil
}

// Recent returns the newest logs first. A non-positive limit returns all.
func (s *MealLogService) Recent(ctx context.Context, limit int) ([]models.MealLog, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var logs []models.MealLog
	if err := q.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to load meal logs: %w", err)
	}
	return logs, nil
}

// Meals returns the food names of every logged meal.
func (s *MealLogService) Meals(ctx context.Context) ([][]string, error) {
	logs, err := s.Recent(ctx, 0)
	if err != nil {
		return nil, err
	}
	meals := make([][]string, len(logs))
	for i, l := range logs {
		meals[i] = l.Foods
	}
	return meals, nil
}
