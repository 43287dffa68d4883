package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"dinestay/internal/adapters/observability"
	"dinestay/internal/domain"
	"dinestay/internal/shared"
	"dinestay/internal/storage/csvfile"
	mysqlrepo "dinestay/internal/storage/mysql"
)

// The loader reads the hotel and restaurant CSV exports from DATASET_DIR
// and upserts them into MySQL, one worker per hotel.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	if cfg.DatasetDir == "" {
		log.Fatal().Msg("DATASET_DIR is required")
	}
	log.Info().
		Str("dir", cfg.DatasetDir).
		Int("workers", cfg.LoaderWorkers).
		Msg("loader starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	src := csvfile.New(cfg.DatasetDir)
	repo := mysqlrepo.New(db)

	hotels, err := src.LoadHotels(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("reading hotels dataset failed")
	}
	restaurants, err := src.LoadRestaurants(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("reading restaurants dataset failed")
	}

	byHotel := make(map[string][]domain.Restaurant, len(hotels))
	for _, r := range restaurants {
		byHotel[r.HotelName] = append(byHotel[r.HotelName], r)
	}

	sem := semaphore.NewWeighted(int64(cfg.LoaderWorkers))
	var wg sync.WaitGroup

	for _, h := range hotels {
		h := h

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(hotel domain.Hotel) {
			defer wg.Done()
			defer sem.Release(int64(1))

			if err := repo.UpsertHotel(ctx, hotel); err != nil {
				log.Warn().Str("hotel", hotel.Name).Err(err).Msg("hotel upsert failed")
				return
			}
			if rs := byHotel[hotel.Name]; len(rs) > 0 {
				if err := repo.UpsertRestaurants(ctx, rs); err != nil {
					log.Warn().Str("hotel", hotel.Name).Err(err).Msg("restaurant upsert failed")
					return
				}
			}
			log.Info().Str("hotel", hotel.Name).Int("restaurants", len(byHotel[hotel.Name])).Msg("load ok")
		}(h)
	}

	wg.Wait()
	log.Info().Int("hotels", len(hotels)).Int("restaurants", len(restaurants)).Msg("load completed")
}
