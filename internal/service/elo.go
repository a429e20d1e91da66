package service

import "math"

// Classic Elo with a flat K-factor. Both players' new ratings are computed
// from the pre-game ratings, so the two updates are order-independent and the
// net transfer between equal-rated players is zero.
const kFactor = 32

func expectedScore(rating, opponent int) float64 {
	return 1.0 / (1.0 + math.Pow(10, float64(opponent-rating)/400.0))
}

// newRating returns the updated Elo. actual is 1 for a win, 0 for a loss.
func newRating(rating, opponent int, actual float64) int {
	return rating + int(math.Round(kFactor*(actual-expectedScore(rating, opponent))))
}
