package main

import (
	"context"
	"database/sql"
	"flag"
	"strings"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/UmairArshadShk/ExpediaIntegration/internal/adapters/expedia"
	"github.com/UmairArshadShk/ExpediaIntegration/internal/adapters/observability"
	redisad "github.com/UmairArshadShk/ExpediaIntegration/internal/adapters/redis"
	"github.com/UmairArshadShk/ExpediaIntegration/internal/app"
	"github.com/UmairArshadShk/ExpediaIntegration/internal/domain"
	"github.com/UmairArshadShk/ExpediaIntegration/internal/shared"
	mysqlrepo "github.com/UmairArshadShk/ExpediaIntegration/internal/storage/mysql"
)

// Each positional argument is one booking: tripID:itineraryID. Bookings run
// concurrently under the worker semaphore; each trip appears at most once per
// invocation, which is what keeps sector sequence numbers race-free.
func main() {
	kind := flag.String("type", "hotel", "booking type: hotel or car")
	email := flag.String("email", "", "User-Id email override (defaults to the branch default)")
	debug := flag.Bool("debug", false, "build records without persisting them")
	flag.Parse()

	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	bookingType, ok := map[string]domain.BookingType{
		"hotel": domain.BookingTypeHotel,
		"car":   domain.BookingTypeCar,
	}[*kind]
	if !ok {
		log.Fatal().Str("type", *kind).Msg("unknown booking type")
	}
	if flag.NArg() == 0 {
		log.Fatal().Msg("no bookings given; pass tripID:itineraryID arguments")
	}

	log.Info().
		Str("base", cfg.ExpediaBase).
		Str("type", *kind).
		Int("workers", cfg.Workers).
		Int("bookings", flag.NArg()).
		Msg("importer starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

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

	newFetcher := func(k domain.BookingType, creds map[domain.Generation]domain.Credentials) app.Fetcher {
		return expedia.NewFetcher(transport, repo, cfg.ExpediaBase, k, creds, cfg.EnableV1)
	}
	resolver := app.NewSettingsResolver(repo, repo, cfg.EnableV1)
	imports := app.NewImportService(resolver, newFetcher, repo, cache, session, cfg.CacheTTL,
		app.NewHotelMapper(repo, session),
		app.NewCarMapper(repo, session),
	)

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, arg := range flag.Args() {
		tripID, itineraryID, ok := strings.Cut(arg, ":")
		if !ok || tripID == "" || itineraryID == "" {
			log.Warn().Str("arg", arg).Msg("skipping malformed booking, want tripID:itineraryID")
			continue
		}

		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(tripID, itineraryID string) {
			defer wg.Done()
			defer sem.Release(1)

			res := imports.Run(ctx, app.ImportRequest{
				TripID:      tripID,
				ItineraryID: itineraryID,
				BookingType: bookingType,
				Email:       *email,
				Debug:       *debug,
			})
			if len(res.Diagnostics) > 0 {
				log.Warn().
					Str("trip", tripID).
					Str("run", res.RunID).
					Strs("diagnostics", res.Diagnostics).
					Msg("import finished with diagnostics")
				return
			}
			log.Info().
				Str("trip", tripID).
				Str("run", res.RunID).
				Str("generation", string(res.Generation)).
				Int("sectors", len(res.Sectors)).
				Msg("import ok")
		}(tripID, itineraryID)
	}

	wg.Wait()
	log.Info().Msg("import batch completed")
}
