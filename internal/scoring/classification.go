package scoring

import (
	"fmt"
	"strings"
)

type Classification string

const (
	VeryLow  Classification = "very_low"
	Low      Classification = "low"
	Medium   Classification = "medium"
	High     Classification = "high"
	VeryHigh Classification = "very_high"
)

// Lower bounds of each tier; a score equal to a bound belongs to the higher tier.
const (
	VeryHighThreshold = 0.75
	HighThreshold     = 0.55
	MediumThreshold   = 0.35
	LowThreshold      = 0.15
)

// Classifications lists every tier from lowest to highest.
var Classifications = []Classification{VeryLow, Low, Medium, High, VeryHigh}

// Classify maps a score to its tier, checking the highest threshold first.
// NaN falls through to VeryLow.
func Classify(score float64) Classification {
	switch {
	case score >= VeryHighThreshold:
		return VeryHigh
	case score >= HighThreshold:
		return High
	case score >= MediumThreshold:
		return Medium
	case score >= LowThreshold:
		return Low
	default:
		return VeryLow
	}
}

// Rank is the ordinal of the tier, 1 for very_low up to 5 for very_high.
// It does not depend on the zone category. Unknown values rank 0.
func (c Classification) Rank() int {
	for i, v := range Classifications {
		if v == c {
			return i + 1
		}
	}
	return 0
}

func (c Classification) Valid() bool {
	return c.Rank() > 0
}

func ParseClassification(s string) (Classification, error) {
	c := Classification(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown classification: %q", s)
	}
	return c, nil
}
