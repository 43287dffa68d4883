package domain

import (
	"context"
	"errors"
)

// ErrDataUnavailable marks a dataset that could not be located or loaded.
// Loaders wrap it; the HTTP boundary translates it to a structured failure.
var ErrDataUnavailable = errors.New("dataset unavailable")

type DatasetRepository interface {
	// Write paths (loader)
	UpsertHotel(ctx context.Context, h Hotel) error
	UpsertRestaurants(ctx context.Context, rs []Restaurant) error

	// Read paths. Both return records in stable first-seen order; the
	// engine's tie-breaking depends on that order being reproducible.
	LoadHotels(ctx context.Context) ([]Hotel, error)
	LoadRestaurants(ctx context.Context) ([]Restaurant, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// NarrativeRequest is the payload handed to the generative-language
// collaborator. Scores arrive already rounded from the exporter.
type NarrativeRequest struct {
	City          string
	LikedCuisines []string
	PriceLevels   []int
	RadiusM       float64
	Purpose       string
	Hotels        []HotelRow
}

type NarrativeClient interface {
	Summarize(ctx context.Context, req NarrativeRequest) (string, error)
}
