package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"dinestay/internal/adapters/observability"
	"dinestay/internal/domain"
	"dinestay/internal/engine"
)

type RecommendationService struct {
	repo     domain.DatasetRepository
	cache    domain.Cache
	cacheTTL time.Duration
	workers  int
}

func NewRecommendationService(r domain.DatasetRepository, c domain.Cache, ttl time.Duration, workers int) *RecommendationService {
	return &RecommendationService{repo: r, cache: c, cacheTTL: ttl, workers: workers}
}

// Recommend runs the full scoring pipeline for one preference
// configuration. Results are cached keyed by the normalized preferences:
// the engine is a pure function of its inputs, so identical configurations
// always map to identical result sets.
func (s *RecommendationService) Recommend(ctx context.Context, in *engine.PreferencesInput) (domain.ResultSet, error) {
	// Validate up front so a bad weight vector fails before any data load
	// and never pollutes the cache keyspace.
	prefs, err := engine.NormalizePreferences(in)
	if err != nil {
		return domain.ResultSet{}, err
	}

	key := "recs:" + prefsKey(prefs)
	var cached domain.ResultSet
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &cached); ok {
			return cached, nil
		}
	}

	hotels, err := s.repo.LoadHotels(ctx)
	if err != nil {
		return domain.ResultSet{}, fmt.Errorf("%w: hotels: %v", domain.ErrDataUnavailable, err)
	}
	restaurants, err := s.repo.LoadRestaurants(ctx)
	if err != nil {
		return domain.ResultSet{}, fmt.Errorf("%w: restaurants: %v", domain.ErrDataUnavailable, err)
	}

	records, stats, err := engine.Run(ctx, hotels, restaurants, in, s.workers)
	if err != nil {
		return domain.ResultSet{}, err
	}
	out := engine.Export(records)

	observability.ObserveEngineRun(stats.Elapsed, stats.DefaultedFields)
	log.Info().
		Int("hotels", stats.Hotels).
		Int("candidates", stats.Candidates).
		Int("defaulted_fields", stats.DefaultedFields).
		Dur("elapsed", stats.Elapsed).
		Msg("engine run completed")

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

// prefsKey hashes the normalized configuration, not the raw caller input,
// so equivalent inputs (absent field vs explicit default) share an entry.
func prefsKey(p engine.Preferences) string {
	b, _ := json.Marshal(struct {
		RadiusM  float64        `json:"radius_m"`
		Cuisines []string       `json:"cuisines"`
		Prices   []int          `json:"prices"`
		Weights  engine.Weights `json:"weights"`
		TopK     int            `json:"top_k"`
	}{p.RadiusM, p.LikedCuisines, p.PriceLevels, p.Weights, p.TopK})
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}
