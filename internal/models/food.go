package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitmeal/mealplan-backend/internal/model"
)

// Food is one entry of the food pool. Macros are per 100g.
type Food struct {
	ID                uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	Name              string         `gorm:"size:255;not null;uniqueIndex" json:"name"`
	EnergyKcal        float64        `gorm:"not null" json:"energy_kcal"`
	ProteinG          float64        `gorm:"not null" json:"protein_g"`
	FatG              float64        `gorm:"not null" json:"fat_g"`
	CarbG             float64        `gorm:"not null" json:"carb_g"`
	ServingSizeG      float64        `gorm:"default:100" json:"serving_size_g"`
	IsFlexible        bool           `gorm:"default:false" json:"is_flexible"`
	ServingMinG       float64        `json:"serving_min_g"`
	ServingMaxG       float64        `json:"serving_max_g"`
	HealthScore       *float64       `json:"health_score,omitempty"`
	MLHealthScore     *float64       `gorm:"column:ml_health_score" json:"ml_health_score,omitempty"`
	HybridHealthScore *float64       `json:"hybrid_health_score,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName returns the table name for the Food model
func (Food) TableName() string {
	return "foods"
}

func (f *Food) BeforeCreate(*gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// Record converts the row into the planner's pool entry.
func (f Food) Record() model.FoodRecord {
	return model.FoodRecord{
		FoodName:          f.Name,
		EnergyKcal:        f.EnergyKcal,
		ProteinG:          f.ProteinG,
		FatG:              f.FatG,
		CarbG:             f.CarbG,
		ServingSizeG:      f.ServingSizeG,
		IsFlexible:        f.IsFlexible,
		ServingMinG:       f.ServingMinG,
		ServingMaxG:       f.ServingMaxG,
		HealthScore:       f.HealthScore,
		MLHealthScore:     f.MLHealthScore,
		HybridHealthScore: f.HybridHealthScore,
	}
}

// FoodFromRecord builds a row from a pool entry. The ID is left unset.
func FoodFromRecord(r model.FoodRecord) Food {
	return Food{
		Name:              r.FoodName,
		EnergyKcal:        r.EnergyKcal,
		ProteinG:          r.ProteinG,
		FatG:              r.FatG,
		CarbG:             r.CarbG,
		ServingSizeG:      r.ServingSizeG,
		IsFlexible:        r.IsFlexible,
		ServingMinG:       r.ServingMinG,
		ServingMaxG:       r.ServingMaxG,
		HealthScore:       r.HealthScore,
		MLHealthScore:     r.MLHealthScore,
		HybridHealthScore: r.HybridHealthScore,
	}
}
