package domain

// Hotel is one candidate property. Name is the unique key; everything else
// is optional metadata carried through to the output views unchanged.
type Hotel struct {
	Name         string
	Lat, Lon     *float64
	Borough      *string
	Neighborhood *string
	Brand        *string
	Address      *string
}
