package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"dinestay/internal/adapters/gemini"
	server "dinestay/internal/adapters/http_server"
	"dinestay/internal/adapters/observability"
	redisad "dinestay/internal/adapters/redis"
	"dinestay/internal/app"
	"dinestay/internal/domain"
	"dinestay/internal/shared"
	"dinestay/internal/storage/csvfile"
	mysqlrepo "dinestay/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// dataset source: a configured dataset directory selects the CSV
	// store, otherwise MySQL is the source of record
	var repo domain.DatasetRepository
	if cfg.DatasetDir != "" {
		repo = csvfile.New(cfg.DatasetDir)
		log.Info().Str("dir", cfg.DatasetDir).Msg("serving from CSV dataset")
	} else {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		repo = mysqlrepo.New(db)
	}

	// deps
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	rec := app.NewRecommendationService(repo, cache, cfg.CacheTTL, cfg.EngineWorkers)

	var narrator domain.NarrativeClient
	if cfg.GeminiKey != "" {
		c, err := gemini.New(cfg.GeminiBase, cfg.GeminiModel, cfg.GeminiKey, 1)
		if err != nil {
			log.Fatal().Err(err).Msg("gemini client init failed")
		}
		narrator = c
	}
	nar := app.NewNarrativeService(narrator)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{R: rec, N: nar, DefaultCity: cfg.City})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
