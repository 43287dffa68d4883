package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"dinestay/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

// nilIfEmpty keeps empty strings out of COALESCE-guarded columns.
func nilIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertHotel(ctx context.Context, h domain.Hotel) error {
	_, err := r.db.ExecContext(ctx, upsertHotelSQL,
		h.Name,
		valF64(h.Lat),
		valF64(h.Lon),
		valStr(h.Borough),
		valStr(h.Neighborhood),
		valStr(h.Brand),
		valStr(h.Address),
	)
	return err
}

func (r *Repo) UpsertRestaurants(ctx context.Context, rs []domain.Restaurant) error {
	if len(rs) == 0 {
		return nil
	}
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*9)
	for _, rest := range rs {
		values = append(values, "(?,?,?,?,?,?,?,?,?)")
		args = append(args,
			rest.HotelName,
			rest.Name,
			valF64(rest.Rating),
			nilIfEmpty(rest.PriceRaw),
			categoriesColumn(rest),
			valF64(rest.DistanceM),
			valF64(rest.Lat),
			valF64(rest.Lon),
			nilIfEmpty(rest.URL),
		)
	}
	sqlStr := insertRestaurantsPrefix + strings.Join(values, ",") + insertRestaurantsOnDup
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

// categoriesColumn stores a clean slice as a JSON array; otherwise the raw
// source string goes in as-is and the engine's normalizer parses it later.
func categoriesColumn(rest domain.Restaurant) any {
	if len(rest.Categories) > 0 {
		b, err := json.Marshal(rest.Categories)
		if err == nil {
			return string(b)
		}
	}
	return nilIfEmpty(rest.CategoriesRaw)
}

func (r *Repo) LoadHotels(ctx context.Context) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, loadHotelsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		var h domain.Hotel
		var lat, lon sql.NullFloat64
		var borough, neighborhood, brand, address sql.NullString
		if err := rows.Scan(&h.Name, &lat, &lon, &borough, &neighborhood, &brand, &address); err != nil {
			return nil, err
		}
		if lat.Valid {
			v := lat.Float64
			h.Lat = &v
		}
		if lon.Valid {
			v := lon.Float64
			h.Lon = &v
		}
		h.Borough = strPtr(borough)
		h.Neighborhood = strPtr(neighborhood)
		h.Brand = strPtr(brand)
		h.Address = strPtr(address)
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *Repo) LoadRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	rows, err := r.db.QueryContext(ctx, loadRestaurantsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Restaurant
	for rows.Next() {
		var rest domain.Restaurant
		var rating, distance, lat, lon sql.NullFloat64
		var priceRaw, categories, url sql.NullString
		if err := rows.Scan(&rest.HotelName, &rest.Name, &rating, &priceRaw, &categories, &distance, &lat, &lon, &url); err != nil {
			return nil, err
		}
		if rating.Valid {
			v := rating.Float64
			rest.Rating = &v
		}
		if distance.Valid {
			v := distance.Float64
			rest.DistanceM = &v
		}
		if lat.Valid {
			v := lat.Float64
			rest.Lat = &v
		}
		if lon.Valid {
			v := lon.Float64
			rest.Lon = &v
		}
		if priceRaw.Valid {
			rest.PriceRaw = priceRaw.String
		}
		if categories.Valid {
			rest.CategoriesRaw = categories.String
		}
		if url.Valid {
			rest.URL = url.String
		}
		out = append(out, rest)
	}
	return out, rows.Err()
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid || strings.TrimSpace(ns.String) == "" {
		return nil
	}
	s := ns.String
	return &s
}
