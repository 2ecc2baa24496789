package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitmeal/mealplan-backend/internal/learning"
	"github.com/fitmeal/mealplan-backend/internal/model"
	"github.com/fitmeal/mealplan-backend/internal/models"
)

// PreferenceService folds star ratings into per-user preference scores.
type PreferenceService struct {
	db    *gorm.DB
	foods *FoodService
	alpha float64
}

func NewPreferenceService(db *gorm.DB, foods *FoodService) *PreferenceService {
	return &PreferenceService{db: db, foods: foods, alpha: learning.DefaultAlpha}
}

// Rate records a 1-5 rating of food by userID and returns the updated score.
func (s *PreferenceService) Rate(ctx context.Context, userID uuid.UUID, food string, rating int) (*models.UserFoodPreference, error) {
	if rating < learning.MinRating || rating > learning.MaxRating {
		return nil, ErrInvalidRating
	}
	ok, err := s.foods.Exists(ctx, food)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFoodNotFound, food)
	}

	score := learning.RatingToScore(rating)
	var pref models.UserFoodPreference
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND food_name = ?", userID, food).First(&pref).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			pref = models.UserFoodPreference{
				UserID:      userID,
				FoodName:    food,
				Score:       learning.UpdateEMA(0, 0, score, s.alpha),
				RatingCount: 1,
				LastRating:  rating,
			}
			return tx.Create(&pref).Error
		case err != nil:
			return err
		}

		pref.Score = learning.UpdateEMA(pref.Score, pref.RatingCount, score, s.alpha)
		pref.RatingCount++
		pref.LastRating = rating
		return tx.Save(&pref).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record rating: %w", err)
	}
	return &pref, nil
}

// PreferenceMap returns userID's scores keyed by food name.
func (s *PreferenceService) PreferenceMap(ctx context.Context, userID uuid.UUID) (model.PreferenceMap, error) {
	var prefs []models.UserFoodPreference
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&prefs).Error; err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	out := make(model.PreferenceMap, len(prefs))
	for _, p := range prefs {
		out[p.FoodName] = p.Score
	}
	return out, nil
}
