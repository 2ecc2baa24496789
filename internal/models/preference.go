package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserFoodPreference is a user's moving-average rating of one food, 0-100.
type UserFoodPreference struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID      uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_food" json:"user_id"`
	FoodName    string    `gorm:"size:255;not null;uniqueIndex:idx_user_food" json:"food_name"`
	Score       float64   `gorm:"not null" json:"score"`
	RatingCount int       `gorm:"not null;default:0" json:"rating_count"`
	LastRating  int       `json:"last_rating"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the table name for the UserFoodPreference model
func (UserFoodPreference) TableName() string {
	return "user_food_preferences"
}

func (p *UserFoodPreference) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
