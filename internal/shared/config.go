package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	// Dataset source: DatasetDir selects the CSV store; otherwise MySQL.
	MySQLDSN   string
	DatasetDir string

	RedisAddr string
	RedisDB   int
	RedisPass string

	GeminiBase  string
	GeminiKey   string
	GeminiModel string

	City          string
	EngineWorkers int
	LoaderWorkers int
	CacheTTL      time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ":9100"),
		MySQLDSN:      env("MYSQL_DSN", "root:root@tcp(localhost:3306)/dinestay?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		DatasetDir:    env("DATASET_DIR", ""),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisDB:       atoi("REDIS_DB", 0),
		RedisPass:     env("REDIS_PASSWORD", ""),
		GeminiBase:    env("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiKey:     env("GEMINI_API_KEY", ""),
		GeminiModel:   env("GEMINI_MODEL", "gemini-2.5-flash"),
		City:          env("RECOMMEND_CITY", "NYC"),
		EngineWorkers: atoi("ENGINE_WORKERS", 8),
		LoaderWorkers: atoi("LOADER_WORKERS", 8),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.GeminiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is empty; narrative endpoint will be disabled")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
