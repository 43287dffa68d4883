package engine

import "math"

// Sub-score constants for missing data. Unknown price earns partial credit
// (the venue may well be affordable); an absent rating scores worst-case,
// which deliberately penalizes unrated venues.
const (
	unknownPriceScore = 0.6
	absentRatingScore = 0.0
)

// DistanceDecay is the exponential half-life model: exactly 1.0 at zero
// distance, exactly 0.5 at d == halfLife, strictly decreasing beyond.
// A non-positive half-life disables the criterion entirely.
func DistanceDecay(distanceM, halfLifeM float64) float64 {
	if halfLifeM <= 0 {
		return 1.0
	}
	return math.Exp(-math.Ln2 * distanceM / halfLifeM)
}

// SubScores are the four per-criterion components, each in [0,1].
type SubScores struct {
	Distance float64
	Rating   float64
	Price    float64
	Cuisine  float64
}

// ScoreCandidate computes the match score for one normalized candidate
// under prefs. The weights sum to 1 by the normalizer's precondition, so
// the convex combination stays in [0,1]. Total over its domain: given
// normalized inputs this never fails.
func ScoreCandidate(rating *float64, f Fields, p Preferences) (float64, SubScores) {
	var s SubScores

	s.Distance = DistanceDecay(f.DistanceM, p.RadiusM)

	s.Rating = absentRatingScore
	if rating != nil {
		s.Rating = clamp01(*rating / 5.0)
	}

	switch {
	case !p.PriceEnabled():
		s.Price = 1.0
	case f.PriceLevel == PriceUnknown:
		s.Price = unknownPriceScore
	case p.acceptsPrice(f.PriceLevel):
		s.Price = 1.0
	default:
		s.Price = 0.0
	}

	// Set overlap, not a ranked match: any single liked cuisine among the
	// candidate's categories is full credit.
	switch {
	case !p.CuisineEnabled():
		s.Cuisine = 1.0
	default:
		s.Cuisine = 0.0
		for _, c := range f.Categories {
			if p.likesCuisine(c) {
				s.Cuisine = 1.0
				break
			}
		}
	}

	w := p.Weights
	total := w.Distance*s.Distance + w.Rating*s.Rating + w.Price*s.Price + w.Cuisine*s.Cuisine
	return clamp01(total), s
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
