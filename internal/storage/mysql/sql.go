package mysql

const upsertHotelSQL = `
INSERT INTO hotels
  (name, lat, lon, borough, neighborhood, brand, address)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  lat          = VALUES(lat),
  lon          = VALUES(lon),
  borough      = VALUES(borough),
  neighborhood = VALUES(neighborhood),
  brand        = VALUES(brand),
  address      = VALUES(address),
  updated_at   = CURRENT_TIMESTAMP
`

const insertRestaurantsPrefix = "INSERT INTO restaurants\n" +
	"  (hotel_name, name, rating, price_raw, categories, distance_m, lat, lon, url)\n" +
	"VALUES "

// COALESCE keeps the old value when a re-scrape arrives with holes.
const insertRestaurantsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  rating     = COALESCE(VALUES(rating), restaurants.rating),\n" +
	"  price_raw  = COALESCE(VALUES(price_raw), restaurants.price_raw),\n" +
	"  categories = COALESCE(VALUES(categories), restaurants.categories),\n" +
	"  distance_m = COALESCE(VALUES(distance_m), restaurants.distance_m),\n" +
	"  lat        = COALESCE(VALUES(lat), restaurants.lat),\n" +
	"  lon        = COALESCE(VALUES(lon), restaurants.lon),\n" +
	"  url        = COALESCE(VALUES(url), restaurants.url)\n"

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Both loads order by insertion id: the engine's tie-breaking contract is
// "stable first-seen order", and id order reproduces it across runs.

const loadHotelsSQL = `
SELECT name, lat, lon, borough, neighborhood, brand, address
FROM hotels
ORDER BY id
`

const loadRestaurantsSQL = `
SELECT hotel_name, name, rating, price_raw, categories, distance_m, lat, lon, url
FROM restaurants
ORDER BY id
`
