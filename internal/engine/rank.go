package engine

import (
	"math"
	"sort"
	"strings"

	"dinestay/internal/domain"
)

// Export reshapes aggregated records into the two output views. Pure
// presentation: no new computation beyond the contracted rounding
// (hotel score 6 dp, restaurant score 3 dp, distance 1 dp).
func Export(records []HotelScoreRecord) domain.ResultSet {
	out := domain.ResultSet{
		Hotels:   make([]domain.HotelRow, 0, len(records)),
		Evidence: make([]domain.EvidenceRow, 0, len(records)),
	}

	for _, rec := range records {
		row := domain.HotelRow{
			HotelName:      rec.Hotel.Name,
			Score:          round(rec.Score, 6),
			TopRestaurants: make([]domain.TopRestaurant, 0, len(rec.Top)),
			Borough:        rec.Hotel.Borough,
			Neighborhood:   rec.Hotel.Neighborhood,
			Brand:          rec.Hotel.Brand,
			Address:        rec.Hotel.Address,
			Lat:            rec.Hotel.Lat,
			Lon:            rec.Hotel.Lon,
		}
		for rank, s := range rec.Top {
			r := s.Restaurant
			row.TopRestaurants = append(row.TopRestaurants, domain.TopRestaurant{
				Name:      r.Name,
				Score:     round(s.Score, 3),
				Rating:    r.Rating,
				Price:     r.PriceRaw,
				DistanceM: round(s.Fields.DistanceM, 1),
				Cuisines:  s.Fields.Categories,
				Lat:       r.Lat,
				Lon:       r.Lon,
				URL:       r.URL,
			})
			out.Evidence = append(out.Evidence, domain.EvidenceRow{
				HotelName:      rec.Hotel.Name,
				Rank:           rank + 1,
				RestaurantName: r.Name,
				Score:          round(s.Score, 3),
				Rating:         r.Rating,
				Price:          r.PriceRaw,
				PriceLevel:     priceLevelPtr(s.Fields.PriceLevel),
				DistanceM:      round(s.Fields.DistanceM, 1),
				Cuisines:       strings.Join(s.Fields.Categories, ", "),
				Lat:            r.Lat,
				Lon:            r.Lon,
				URL:            r.URL,
			})
		}
		out.Hotels = append(out.Hotels, row)
	}

	// Wide view keeps the score ordering it arrived in; the long view is
	// contracted to sort by (hotel_name, rank) ascending.
	sort.SliceStable(out.Evidence, func(i, j int) bool {
		a, b := out.Evidence[i], out.Evidence[j]
		if a.HotelName != b.HotelName {
			return a.HotelName < b.HotelName
		}
		return a.Rank < b.Rank
	})
	return out
}

func priceLevelPtr(level int) *int {
	if level == PriceUnknown {
		return nil
	}
	return &level
}

func round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
