package learning

import "math"

const (
	// DefaultAlpha weights the newest rating in the moving average.
	DefaultAlpha = 0.5

	MinRating = 1
	MaxRating = 5
)

// RatingToScore maps a 1-5 star rating onto 0-100. Out-of-range ratings are
// clamped.
func RatingToScore(rating int) float64 {
	r := max(MinRating, min(MaxRating, rating))
	return float64(r-MinRating) / float64(MaxRating-MinRating) * 100
}

// UpdateEMA folds score into prev. The first rating (count 0) seeds the
// average directly.
func UpdateEMA(prev float64, count int, score, alpha float64) float64 {
	if count <= 0 {
		return clampScore(score)
	}
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultAlpha
	}
	return clampScore(alpha*score + (1-alpha)*prev)
}

func clampScore(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
