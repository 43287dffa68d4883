package domain

// Output views. Rounding here is a compatibility contract with downstream
// consumers: hotel scores carry 6 decimal places, restaurant scores 3,
// distances 1. The exporter applies it; nothing recomputes after that.

// TopRestaurant is one evidence entry inside the wide per-hotel view.
type TopRestaurant struct {
	Name      string   `json:"name"`
	Score     float64  `json:"score"`
	Rating    *float64 `json:"rating"`
	Price     string   `json:"price,omitempty"`
	DistanceM float64  `json:"distance_m"`
	Cuisines  []string `json:"cuisines"`
	Lat       *float64 `json:"lat"`
	Lon       *float64 `json:"lon"`
	URL       string   `json:"url,omitempty"`
}

// HotelRow is the wide view: one row per hotel, ordered by score descending.
type HotelRow struct {
	HotelName      string          `json:"hotel_name"`
	Score          float64         `json:"score"`
	TopRestaurants []TopRestaurant `json:"top_restaurants"`
	Borough        *string         `json:"borough,omitempty"`
	Neighborhood   *string         `json:"neighborhood,omitempty"`
	Brand          *string         `json:"brand,omitempty"`
	Address        *string         `json:"address,omitempty"`
	Lat            *float64        `json:"lat,omitempty"`
	Lon            *float64        `json:"lon,omitempty"`
}

// EvidenceRow is the long view: one row per (hotel, rank), rank starting
// at 1, ordered by (hotel_name, rank).
type EvidenceRow struct {
	HotelName      string   `json:"hotel_name"`
	Rank           int      `json:"rank"`
	RestaurantName string   `json:"restaurant_name"`
	Score          float64  `json:"restaurant_score"`
	Rating         *float64 `json:"rating"`
	Price          string   `json:"price,omitempty"`
	PriceLevel     *int     `json:"price_level"`
	DistanceM      float64  `json:"distance_m"`
	Cuisines       string   `json:"cuisines"`
	Lat            *float64 `json:"restaurant_lat"`
	Lon            *float64 `json:"restaurant_lon"`
	URL            string   `json:"url,omitempty"`
}

// ResultSet bundles both views of one engine run. They reflect the same
// underlying scores; the long view is a reshaping, not a recomputation.
type ResultSet struct {
	Hotels   []HotelRow    `json:"hotels"`
	Evidence []EvidenceRow `json:"evidence"`
}
