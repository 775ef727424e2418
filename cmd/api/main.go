package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"github.com/UmairArshadShk/ExpediaIntegration/internal/adapters/expedia"
	server "github.com/UmairArshadShk/ExpediaIntegration/internal/adapters/http_server"
	"github.com/UmairArshadShk/ExpediaIntegration/internal/adapters/observability"
	redisad "github.com/UmairArshadShk/ExpediaIntegration/internal/adapters/redis"
	"github.com/UmairArshadShk/ExpediaIntegration/internal/app"
	"github.com/UmairArshadShk/ExpediaIntegration/internal/domain"
	"github.com/UmairArshadShk/ExpediaIntegration/internal/shared"
	mysqlrepo "github.com/UmairArshadShk/ExpediaIntegration/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	session := domain.Session{
		OfficeID:     cfg.OfficeID,
		ConsultantID: cfg.ConsultantID,
		BranchID:     cfg.BranchID,
		CurrencyCode: cfg.CurrencyCode,
		TaxCodeID:    cfg.TaxCodeID,
	}
	repo := mysqlrepo.New(db, session)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	transport := expedia.NewTransport(cfg.FetchTimeout, 5)

	newFetcher := func(kind domain.BookingType, creds map[domain.Generation]domain.Credentials) app.Fetcher {
		return expedia.NewFetcher(transport, repo, cfg.ExpediaBase, kind, creds, cfg.EnableV1)
	}
	resolver := app.NewSettingsResolver(repo, repo, cfg.EnableV1)
	imports := app.NewImportService(resolver, newFetcher, repo, cache, session, cfg.CacheTTL,
		app.NewHotelMapper(repo, session),
		app.NewCarMapper(repo, session),
	)

	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Imports: imports})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
