package scoring

import "github.com/mr1hm/go-seaglass-map/internal/models"

// Zone is a record together with its derived score and classification.
type Zone struct {
	models.ZoneRecord
	score          float64
	classification Classification
}

func (z Zone) Score() float64 {
	return z.score
}

func (z Zone) Classification() Classification {
	return z.classification
}

func (z Zone) Rank() int {
	return z.classification.Rank()
}
