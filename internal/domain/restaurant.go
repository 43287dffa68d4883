package domain

// Restaurant is one raw candidate, collected "near" the hotel named by
// HotelName. Fields arrive in whatever shape the source exported them:
// Categories may already be a clean slice, or CategoriesRaw may hold a
// JSON/python-style list or a delimited string; PriceRaw may be a symbol
// run ("$$") or a number. The engine's field normalizer owns the cleanup.
type Restaurant struct {
	Name          string
	HotelName     string
	Rating        *float64 // 0..5, nil when the source had none
	PriceRaw      string
	Categories    []string
	CategoriesRaw string
	DistanceM     *float64
	Lat, Lon      *float64
	URL           string
}
