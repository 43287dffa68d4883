package engine

import (
	"fmt"
	"math"
	"strings"
)

// weightTolerance is the accepted drift when checking that the four
// criterion weights sum to 1.0. Deliberately strict: renormalizing a bad
// weight vector would hide caller bugs that feed the ranking.
const weightTolerance = 1e-9

// Defaults used wherever the caller left a field unset.
const (
	DefaultRadiusM = 800.0
	DefaultTopK    = 5
)

var (
	defaultCuisines    = []string{"thai", "japanese", "italian"}
	defaultPriceLevels = []int{1, 2, 3}
	defaultWeights     = Weights{Distance: 0.35, Rating: 0.35, Price: 0.15, Cuisine: 0.15}
)

// Weights is the criterion weight vector. Components are non-negative and
// must sum to exactly 1.0 within weightTolerance.
type Weights struct {
	Distance float64 `json:"distance"`
	Rating   float64 `json:"rating"`
	Price    float64 `json:"price"`
	Cuisine  float64 `json:"cuisine"`
}

func (w Weights) sum() float64 { return w.Distance + w.Rating + w.Price + w.Cuisine }

// PreferencesInput is the caller-facing configuration shape. Pointer fields
// distinguish "absent, use the default" from an explicit zero.
type PreferencesInput struct {
	RadiusM       *float64 `json:"preferred_radius_m"`
	LikedCuisines []string `json:"liked_cuisines"`
	PriceLevels   []int    `json:"price_levels"`
	Weights       *Weights `json:"weights"`
	TopK          *int     `json:"top_k"`
}

// ConfigurationError reports an invalid preference configuration. It is the
// only fatal error the normalizer produces and is never silently corrected.
type ConfigurationError struct {
	Field  string
	Detail string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid preferences: %s: %s", e.Field, e.Detail)
}

// Preferences is the normalized, immutable scoring configuration. Built
// once per run and passed read-only into every scoring call, which keeps
// concurrent aggregation safe.
type Preferences struct {
	RadiusM       float64
	LikedCuisines []string
	PriceLevels   []int
	Weights       Weights
	TopK          int

	cuisineSet map[string]struct{}
	priceSet   map[int]struct{}
}

// CuisineEnabled reports whether the cuisine criterion is active.
func (p Preferences) CuisineEnabled() bool { return len(p.cuisineSet) > 0 }

// PriceEnabled reports whether the price criterion is active.
func (p Preferences) PriceEnabled() bool { return len(p.priceSet) > 0 }

func (p Preferences) likesCuisine(c string) bool {
	_, ok := p.cuisineSet[c]
	return ok
}

func (p Preferences) acceptsPrice(level int) bool {
	_, ok := p.priceSet[level]
	return ok
}

// NormalizePreferences validates the caller configuration and fills
// documented defaults for absent fields. A nil input yields the full
// default configuration.
func NormalizePreferences(in *PreferencesInput) (Preferences, error) {
	if in == nil {
		in = &PreferencesInput{}
	}

	p := Preferences{
		RadiusM:       DefaultRadiusM,
		LikedCuisines: defaultCuisines,
		PriceLevels:   defaultPriceLevels,
		Weights:       defaultWeights,
		TopK:          DefaultTopK,
	}

	if in.RadiusM != nil {
		// Non-positive means "distance irrelevant", not an error.
		p.RadiusM = *in.RadiusM
	}
	if in.LikedCuisines != nil {
		p.LikedCuisines = in.LikedCuisines
	}
	if in.PriceLevels != nil {
		p.PriceLevels = in.PriceLevels
	}
	if in.Weights != nil {
		w := *in.Weights
		if w.Distance < 0 || w.Rating < 0 || w.Price < 0 || w.Cuisine < 0 {
			return Preferences{}, &ConfigurationError{Field: "weights", Detail: "components must be non-negative"}
		}
		if d := math.Abs(w.sum() - 1.0); d > weightTolerance {
			return Preferences{}, &ConfigurationError{
				Field:  "weights",
				Detail: fmt.Sprintf("must sum to 1.0 within %g, got %.12f", weightTolerance, w.sum()),
			}
		}
		p.Weights = w
	}
	if in.TopK != nil {
		if *in.TopK < 1 {
			return Preferences{}, &ConfigurationError{Field: "top_k", Detail: "must be >= 1"}
		}
		p.TopK = *in.TopK
	}
	for _, lv := range p.PriceLevels {
		if lv < 1 || lv > 4 {
			return Preferences{}, &ConfigurationError{
				Field:  "price_levels",
				Detail: fmt.Sprintf("level %d outside 1..4", lv),
			}
		}
	}

	p.cuisineSet = make(map[string]struct{}, len(p.LikedCuisines))
	for _, c := range p.LikedCuisines {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			p.cuisineSet[c] = struct{}{}
		}
	}
	p.priceSet = make(map[int]struct{}, len(p.PriceLevels))
	for _, lv := range p.PriceLevels {
		p.priceSet[lv] = struct{}{}
	}
	return p, nil
}
