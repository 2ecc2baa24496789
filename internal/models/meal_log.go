package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MealLog records one served meal. The pairing trainer reads these back.
type MealLog struct {
	ID         uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID     uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	PlanID     uuid.UUID `gorm:"type:varchar(36);index" json:"plan_id"`
	Goal       string    `gorm:"size:16" json:"goal"`
	Day        int       `json:"day"`
	MealNumber int       `json:"meal_number"`
	Foods      []string  `gorm:"type:text;serializer:json" json:"foods"`
	Kcal       float64   `json:"kcal"`
	ProteinG   float64   `json:"protein_g"`
	FatG       float64   `json:"fat_g"`
	CarbG      float64   `json:"carb_g"`
	Fallback   bool      `json:"fallback"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName returns the table name for the MealLog model
func (MealLog) TableName() string {
	return "meal_logs"
}

func (m *MealLog) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// All returns every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&Food{},
		&FoodPairScore{},
		&UserFoodPreference{},
		&MealLog{},
	}
}
