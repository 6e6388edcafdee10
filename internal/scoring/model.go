// Package scoring turns zone subscores into a probability score and tier.
// Scores are never stored or accepted from outside: a Zone can only be built
// by a Model, so the score and classification always match the subscores.
package scoring

import (
	"math"

	"github.com/mr1hm/go-seaglass-map/internal/models"
)

// ScorePrecision is the number of decimal places kept in a score.
const ScorePrecision = 4

type Model struct {
	weights Weights
}

// NewModel returns a model for w, or an error if w is not a valid weight set.
func NewModel(w Weights) (*Model, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Model{weights: w}, nil
}

// DefaultModel uses DefaultWeights.
func DefaultModel() *Model {
	return &Model{weights: DefaultWeights}
}

func (m *Model) Weights() Weights {
	return m.weights
}

// Score combines the subscores with the model weights and rounds to
// ScorePrecision places. Subscores are not clamped.
func (m *Model) Score(s models.Subscores) float64 {
	w := m.weights
	raw := w.Historical*s.Historical +
		w.Morphology*s.Morphology +
		w.River*s.River +
		w.Ocean*s.Ocean +
		w.Population*s.Population
	return round(raw, ScorePrecision)
}

// Zone scores and classifies one record.
func (m *Model) Zone(r models.ZoneRecord) Zone {
	score := m.Score(r.Subscores)
	return Zone{
		ZoneRecord:     r,
		score:          score,
		classification: Classify(score),
	}
}

// Zones scores every record, preserving order.
func (m *Model) Zones(records []models.ZoneRecord) []Zone {
	zones := make([]Zone, 0, len(records))
	for _, r := range records {
		zones = append(zones, m.Zone(r))
	}
	return zones
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
