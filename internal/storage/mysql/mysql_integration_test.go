//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"dinestay/internal/domain"
	mysqlrepo "dinestay/internal/storage/mysql"
)

// ---------- small helpers ----------
func pstr(s string) *string     { return &s }
func pfloat(f float64) *float64 { return &f }

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=dinestay",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "dinestay")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

// ---------- the test ----------
func TestRepo_MySQL_UpsertAndLoad(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	hotels := []domain.Hotel{
		{
			Name:         "The Marlton",
			Lat:          pfloat(40.7336),
			Lon:          pfloat(-73.9989),
			Borough:      pstr("Manhattan"),
			Neighborhood: pstr("Greenwich Village"),
			Address:      pstr("5 W 8th St"),
		},
		{Name: "Pod Brooklyn", Borough: pstr("Brooklyn")},
	}
	for _, h := range hotels {
		if err := repo.UpsertHotel(ctx, h); err != nil {
			t.Fatalf("UpsertHotel(%s): %v", h.Name, err)
		}
	}

	restaurants := []domain.Restaurant{
		{
			HotelName:  "The Marlton",
			Name:       "Thai Villa",
			Rating:     pfloat(4.5),
			PriceRaw:   "$$",
			Categories: []string{"thai", "asian fusion"},
			DistanceM:  pfloat(320),
			URL:        "https://example.com/thai-villa",
		},
		{
			HotelName:     "The Marlton",
			Name:          "Corner Diner",
			CategoriesRaw: "['diner', 'breakfast']",
			DistanceM:     pfloat(90),
		},
		{HotelName: "Pod Brooklyn", Name: "Osteria Nonna", Rating: pfloat(4.1), PriceRaw: "$$$"},
	}
	if err := repo.UpsertRestaurants(ctx, restaurants); err != nil {
		t.Fatalf("UpsertRestaurants: %v", err)
	}

	// Upsert again with partial data; COALESCE must keep the old values.
	if err := repo.UpsertRestaurants(ctx, []domain.Restaurant{
		{HotelName: "The Marlton", Name: "Thai Villa", Rating: pfloat(4.6)},
	}); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}

	gotHotels, err := repo.LoadHotels(ctx)
	if err != nil {
		t.Fatalf("LoadHotels: %v", err)
	}
	if len(gotHotels) != 2 {
		t.Fatalf("hotels = %d, want 2", len(gotHotels))
	}
	// Insertion order survives the round trip.
	if gotHotels[0].Name != "The Marlton" || gotHotels[1].Name != "Pod Brooklyn" {
		t.Fatalf("hotel order: %q, %q", gotHotels[0].Name, gotHotels[1].Name)
	}
	if gotHotels[0].Neighborhood == nil || *gotHotels[0].Neighborhood != "Greenwich Village" {
		t.Fatalf("neighborhood: %v", gotHotels[0].Neighborhood)
	}
	if gotHotels[1].Lat != nil {
		t.Fatalf("missing lat should load as nil, got %v", *gotHotels[1].Lat)
	}

	gotRests, err := repo.LoadRestaurants(ctx)
	if err != nil {
		t.Fatalf("LoadRestaurants: %v", err)
	}
	if len(gotRests) != 3 {
		t.Fatalf("restaurants = %d, want 3", len(gotRests))
	}

	byName := map[string]domain.Restaurant{}
	for _, r := range gotRests {
		byName[r.Name] = r
	}

	tv := byName["Thai Villa"]
	if tv.Rating == nil || *tv.Rating != 4.6 {
		t.Fatalf("rating not updated: %v", tv.Rating)
	}
	if tv.PriceRaw != "$$" {
		t.Fatalf("price lost on partial upsert: %q", tv.PriceRaw)
	}
	if tv.DistanceM == nil || *tv.DistanceM != 320 {
		t.Fatalf("distance lost on partial upsert: %v", tv.DistanceM)
	}
	if tv.CategoriesRaw != `["thai","asian fusion"]` {
		t.Fatalf("categories column: %q", tv.CategoriesRaw)
	}

	cd := byName["Corner Diner"]
	if cd.CategoriesRaw != "['diner', 'breakfast']" {
		t.Fatalf("raw categories column: %q", cd.CategoriesRaw)
	}
	if cd.Rating != nil {
		t.Fatalf("missing rating should load as nil, got %v", *cd.Rating)
	}
}
