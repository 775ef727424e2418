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
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	ExpediaBase string
	EnableV1    bool

	OfficeID     int64
	ConsultantID int64
	BranchID     int64
	CurrencyCode string
	TaxCodeID    int64

	Workers      int
	FetchTimeout time.Duration
	CacheTTL     time.Duration
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
		AppEnv:       env("APP_ENV", "prod"),
		HTTPAddr:     env("HTTP_ADDR", ":8080"),
		MetricsAddr:  env("METRICS_ADDR", ":9100"),
		MySQLDSN:     env("MYSQL_DSN", "root:root@tcp(localhost:3306)/expedia?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:    env("REDIS_ADDR", "localhost:6379"),
		RedisPass:    env("REDIS_PASSWORD", ""),
		RedisDB:      atoi("REDIS_DB", 0),
		ExpediaBase:  env("EXPEDIA_BASE_URL", "https://apim.expedia.com/"),
		EnableV1:     env("EXPEDIA_ENABLE_V1", "true") == "true",
		OfficeID:     int64(atoi("SESSION_OFFICE_ID", 0)),
		ConsultantID: int64(atoi("SESSION_CONSULTANT_ID", 0)),
		BranchID:     int64(atoi("SESSION_BRANCH_ID", 0)),
		CurrencyCode: env("SESSION_CURRENCY", "AUD"),
		TaxCodeID:    int64(atoi("SESSION_TAX_CODE_ID", 1)),
		Workers:      atoi("IMPORT_WORKERS", 4),
		FetchTimeout: time.Duration(atoi("FETCH_TIMEOUT_SECONDS", 30)) * time.Second,
		CacheTTL:     time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.OfficeID == 0 || c.ConsultantID == 0 {
		log.Warn().Msg("SESSION_OFFICE_ID / SESSION_CONSULTANT_ID not set")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
