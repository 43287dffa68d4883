package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"dinestay/internal/domain"
)

// Store reads the cleaned dataset exports (hotels.csv, restaurants.csv)
// from one directory and serves them through the same repository port the
// MySQL store implements. Rows come back in file order, which is the
// stable input order the engine's tie-breaking relies on.
//
// Per-field parse failures degrade to absent values; only a missing or
// unreadable file is a load failure.
type Store struct{ dir string }

func New(dir string) *Store { return &Store{dir: dir} }

const (
	hotelsFile      = "hotels.csv"
	restaurantsFile = "restaurants.csv"
)

func (s *Store) LoadHotels(ctx context.Context) ([]domain.Hotel, error) {
	rows, header, err := s.readAll(hotelsFile)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Hotel, 0, len(rows))
	for _, row := range rows {
		get := fieldGetter(header, row)
		name := strings.TrimSpace(get("name", "hotel_name", "business_name"))
		if name == "" {
			continue // a hotel without a key cannot be scored or reported
		}
		out = append(out, domain.Hotel{
			Name:         name,
			Lat:          floatField(get("lat", "latitude")),
			Lon:          floatField(get("lon", "lng", "longitude")),
			Borough:      strField(get("borough")),
			Neighborhood: strField(get("neighborhood")),
			Brand:        strField(get("brand")),
			Address:      strField(get("address", "address_full")),
		})
	}
	return out, nil
}

func (s *Store) LoadRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	rows, header, err := s.readAll(restaurantsFile)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Restaurant, 0, len(rows))
	for _, row := range rows {
		get := fieldGetter(header, row)
		name := strings.TrimSpace(get("name", "restaurant_name", "business_name"))
		hotel := strings.TrimSpace(get("hotel_name", "hotel", "near_hotel"))
		if name == "" || hotel == "" {
			continue
		}
		rest := domain.Restaurant{
			Name:          name,
			HotelName:     hotel,
			Rating:        floatField(get("rating", "stars")),
			PriceRaw:      strings.TrimSpace(get("price", "price_raw")),
			CategoriesRaw: strings.TrimSpace(get("categories", "category", "cuisines")),
			DistanceM:     floatField(get("distance_m", "distance")),
			Lat:           floatField(get("lat", "latitude")),
			Lon:           floatField(get("lon", "lng", "longitude")),
			URL:           strings.TrimSpace(get("url")),
		}
		out = append(out, rest)
	}
	return out, nil
}

// The CSV store is read-only; seeding goes through the MySQL repository.

func (s *Store) UpsertHotel(ctx context.Context, h domain.Hotel) error {
	return fmt.Errorf("csvfile: store is read-only")
}

func (s *Store) UpsertRestaurants(ctx context.Context, rs []domain.Restaurant) error {
	return fmt.Errorf("csvfile: store is read-only")
}

func (s *Store) readAll(file string) ([][]string, map[string]int, error) {
	path := filepath.Join(s.dir, file)
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: open %s: %v", domain.ErrDataUnavailable, path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows degrade per-field, not per-file

	headerRow, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read header of %s: %v", domain.ErrDataUnavailable, path, err)
	}
	header := make(map[string]int, len(headerRow))
	for i, h := range headerRow {
		header[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: read %s: %v", domain.ErrDataUnavailable, path, err)
		}
		rows = append(rows, row)
	}
	return rows, header, nil
}

// fieldGetter resolves the first matching column alias for a row.
func fieldGetter(header map[string]int, row []string) func(aliases ...string) string {
	return func(aliases ...string) string {
		for _, a := range aliases {
			if i, ok := header[a]; ok && i < len(row) {
				if v := row[i]; v != "" {
					return v
				}
			}
		}
		return ""
	}
}

func strField(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func floatField(v string) *float64 {
	v = strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}
