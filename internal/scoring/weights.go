package scoring

import (
	"errors"
	"fmt"
	"math"
)

// WeightTolerance is how far a weight set may drift from summing to 1.
const WeightTolerance = 1e-6

var (
	ErrWeightSum      = errors.New("scoring weights must sum to 1")
	ErrNegativeWeight = errors.New("scoring weights must not be negative")
)

// Weights are the coefficients applied to each subscore.
type Weights struct {
	Historical float64
	Morphology float64
	River      float64
	Ocean      float64
	Population float64
}

var DefaultWeights = Weights{
	Historical: 0.25,
	Morphology: 0.25,
	River:      0.20,
	Ocean:      0.15,
	Population: 0.15,
}

// NewWeights builds a weight set from values ordered historical, morphology,
// river, ocean, population, and validates it.
func NewWeights(values []float64) (Weights, error) {
	if len(values) != 5 {
		return Weights{}, fmt.Errorf("expected 5 weights, got %d", len(values))
	}
	w := Weights{
		Historical: values[0],
		Morphology: values[1],
		River:      values[2],
		Ocean:      values[3],
		Population: values[4],
	}
	if err := w.Validate(); err != nil {
		return Weights{}, err
	}
	return w, nil
}

func (w Weights) Sum() float64 {
	return w.Historical + w.Morphology + w.River + w.Ocean + w.Population
}

func (w Weights) Validate() error {
	for _, v := range []float64{w.Historical, w.Morphology, w.River, w.Ocean, w.Population} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%w: %v", ErrNegativeWeight, v)
		}
	}
	if sum := w.Sum(); math.IsNaN(sum) || math.Abs(sum-1) > WeightTolerance {
		return fmt.Errorf("%w: got %v", ErrWeightSum, sum)
	}
	return nil
}
