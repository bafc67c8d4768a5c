package similarity

import (
	"math"

	"github.com/akolanti/JobMatch/internal/domain/matchModel"
)

// Cosine returns the cosine similarity of a and b in [-1, 1].
// Sums are accumulated in float64; embedders hand us float32.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, matchModel.ErrDimensionMismatch
	}
	if len(a) == 0 {
		return 0, matchModel.ErrEmptyVector
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, matchModel.ErrZeroNorm
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(-1, math.Min(1, sim)), nil
}

// ToPercentage scales a similarity to a percentage rounded to two decimals.
// Negative similarities stay negative.
func ToPercentage(sim float64) float64 {
	return math.Round(sim*100*100) / 100
}
