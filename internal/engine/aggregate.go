package engine

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"dinestay/internal/domain"
)

// ScoredRestaurant is a candidate annotated with its match score and
// normalized fields. Lives only inside its owning hotel's evidence list.
type ScoredRestaurant struct {
	Restaurant domain.Restaurant
	Fields     Fields
	Score      float64
	Sub        SubScores
}

// HotelScoreRecord is the per-hotel aggregate: score in [0,1] plus up to
// TopK evidence entries ranked by descending individual score. Zero
// candidates yields score 0.0 and an empty list; the hotel is never dropped.
type HotelScoreRecord struct {
	Hotel domain.Hotel
	Score float64
	Top   []ScoredRestaurant
}

// IndexByHotel groups candidates by owning-hotel name, preserving input
// order within each group. Built once per run, read-only thereafter; this
// is the arena the parallel aggregation reads from.
func IndexByHotel(rs []domain.Restaurant) map[string][]domain.Restaurant {
	idx := make(map[string][]domain.Restaurant, 64)
	for _, r := range rs {
		idx[r.HotelName] = append(idx[r.HotelName], r)
	}
	return idx
}

// AggregateHotel scores every candidate for one hotel and reduces the best
// min(TopK, n) of them to a single record. The sort is stable so repeated
// runs on identical input are bit-reproducible: ties keep first-seen order.
func AggregateHotel(h domain.Hotel, candidates []domain.Restaurant, p Preferences) HotelScoreRecord {
	rec := HotelScoreRecord{Hotel: h}
	if len(candidates) == 0 {
		return rec
	}

	scored := make([]ScoredRestaurant, 0, len(candidates))
	for _, c := range candidates {
		f := NormalizeFields(c)
		total, sub := ScoreCandidate(c.Rating, f, p)
		scored = append(scored, ScoredRestaurant{Restaurant: c, Fields: f, Score: total, Sub: sub})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	k := p.TopK
	if k > len(scored) {
		k = len(scored)
	}
	top := scored[:k]

	// Mean of the top-K only, so a long tail of poor matches never dilutes
	// a hotel's signal. The evidence list and the aggregate basis coincide.
	var sum float64
	for _, s := range top {
		sum += s.Score
	}
	rec.Score = sum / float64(k)
	rec.Top = top
	return rec
}

// RunStats summarizes one engine run for logs and metrics.
type RunStats struct {
	Hotels          int
	Candidates      int
	DefaultedFields int
	Elapsed         time.Duration
}

// Run is the whole engine: normalize prefs, index candidates, aggregate
// every hotel on a bounded worker pool, and return records sorted by
// aggregate score descending with ties in input order. Parallelism never
// changes the ordering: results land in an index-addressed slice and the
// final stable sort is on score alone.
func Run(ctx context.Context, hotels []domain.Hotel, restaurants []domain.Restaurant, in *PreferencesInput, workers int) ([]HotelScoreRecord, RunStats, error) {
	start := time.Now()

	prefs, err := NormalizePreferences(in)
	if err != nil {
		return nil, RunStats{}, err
	}
	if workers < 1 {
		workers = 1
	}

	idx := IndexByHotel(restaurants)
	records := make([]HotelScoreRecord, len(hotels))

	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	for i, h := range hotels {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, RunStats{}, err
		}
		wg.Add(1)
		go func(i int, h domain.Hotel) {
			defer wg.Done()
			defer sem.Release(1)
			records[i] = AggregateHotel(h, idx[h.Name], prefs)
		}(i, h)
	}
	wg.Wait()

	sort.SliceStable(records, func(i, j int) bool { return records[i].Score > records[j].Score })

	stats := RunStats{Hotels: len(hotels), Candidates: len(restaurants), Elapsed: time.Since(start)}
	for _, rec := range records {
		for _, s := range rec.Top {
			if n := s.Fields.DefaultedCount(); n > 0 {
				stats.DefaultedFields += n
				log.Debug().
					Str("hotel", rec.Hotel.Name).
					Str("restaurant", s.Restaurant.Name).
					Int("defaulted_fields", n).
					Msg("candidate scored with degraded fields")
			}
		}
	}
	return records, stats, nil
}
