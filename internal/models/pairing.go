package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitmeal/mealplan-backend/internal/model"
)

// FoodPairScore is a learned co-occurrence affinity. FoodA sorts before FoodB.
type FoodPairScore struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	FoodA     string    `gorm:"size:255;not null;uniqueIndex:idx_food_pair" json:"food_a"`
	FoodB     string    `gorm:"size:255;not null;uniqueIndex:idx_food_pair" json:"food_b"`
	CountAB   int       `json:"count_ab"`
	CountA    int       `json:"count_a"`
	CountB    int       `json:"count_b"`
	PMI       float64   `gorm:"column:pmi" json:"pmi"`
	Lift      float64   `json:"lift"`
	Score     float64   `gorm:"index" json:"score"`
	TrainedAt time.Time `json:"trained_at"`
}

// TableName returns the table name for the FoodPairScore model
func (FoodPairScore) TableName() string {
	return "food_pair_scores"
}

func (p *FoodPairScore) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p FoodPairScore) PairScore() model.PairScore {
	return model.PairScore{
		FoodA:   p.FoodA,
		FoodB:   p.FoodB,
		CountAB: p.CountAB,
		CountA:  p.CountA,
		CountB:  p.CountB,
		PMI:     p.PMI,
		Lift:    p.Lift,
		Score:   p.Score,
	}
}

func PairScoreRow(p model.PairScore, trainedAt time.Time) FoodPairScore {
	return FoodPairScore{
		FoodA:     p.FoodA,
		FoodB:     p.FoodB,
		CountAB:   p.CountAB,
		CountA:    p.CountA,
		CountB:    p.CountB,
		PMI:       p.PMI,
		Lift:      p.Lift,
		Score:     p.Score,
		TrainedAt: trainedAt,
	}
}
