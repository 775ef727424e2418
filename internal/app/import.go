package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/UmairArshadShk/ExpediaIntegration/internal/adapters/observability"
	"github.com/UmairArshadShk/ExpediaIntegration/internal/domain"
)

// ImportRequest describes one import run: one trip, one upstream booking.
type ImportRequest struct {
	TripID      string             `json:"tripID"`
	ItineraryID string             `json:"itineraryID"`
	BookingType domain.BookingType `json:"bookingType"`
	Email       string             `json:"email"`
	ProductID   int64              `json:"productID,omitempty"`
	SupplierID  int64              `json:"supplierID,omitempty"`
	PassengerID int64              `json:"passengerID,omitempty"`
	Debug       bool               `json:"debug"`
}

// ImportResult carries whatever records were constructed plus the full
// ordered diagnostics list. Diagnostics non-empty does not necessarily mean
// no records were produced: config problems accumulate without aborting.
type ImportResult struct {
	RunID       string             `json:"runID"`
	Generation  domain.Generation  `json:"generation,omitempty"`
	Sectors     []domain.Sector    `json:"sectors"`
	Itineraries []domain.Itinerary `json:"itineraries"`
	Diagnostics []string           `json:"diagnostics"`
}

// Fetcher is the versioned-fetch seam; the expedia adapter implements it.
type Fetcher interface {
	Fetch(ctx context.Context, ictx domain.ImportContext, itineraryID, email string) domain.FetchOutcome
}

// FetcherFactory builds a Fetcher for one run, after credentials have been
// resolved for the branch's country.
type FetcherFactory func(kind domain.BookingType, creds map[domain.Generation]domain.Credentials) Fetcher

// ImportService runs the full pipeline: resolve settings, fetch with
// fallback, map, persist. One synchronous run per call; concurrent runs for
// the same trip are the caller's responsibility to prevent.
type ImportService struct {
	resolver   *SettingsResolver
	newFetcher FetcherFactory
	mappers    map[domain.BookingType]BookingMapper
	store      domain.Persistence
	cache      domain.Cache
	session    domain.Session
	cacheTTL   time.Duration
}

func NewImportService(resolver *SettingsResolver, newFetcher FetcherFactory, store domain.Persistence, cache domain.Cache, session domain.Session, cacheTTL time.Duration, mappers ...BookingMapper) *ImportService {
	byKind := make(map[domain.BookingType]BookingMapper, len(mappers))
	for _, m := range mappers {
		byKind[m.Kind()] = m
	}
	return &ImportService{
		resolver:   resolver,
		newFetcher: newFetcher,
		mappers:    byKind,
		store:      store,
		cache:      cache,
		session:    session,
		cacheTTL:   cacheTTL,
	}
}

func (s *ImportService) Run(ctx context.Context, req ImportRequest) ImportResult {
	res := ImportResult{RunID: uuid.NewString()}
	l := log.With().
		Str("run", res.RunID).
		Str("trip", req.TripID).
		Str("itinerary", req.ItineraryID).
		Str("type", string(req.BookingType)).
		Logger()

	mapper, ok := s.mappers[req.BookingType]
	if !ok {
		res.Diagnostics = append(res.Diagnostics, fmt.Sprintf("Unsupported booking type %q", req.BookingType))
		observability.ObserveImport(string(req.BookingType), "config_error")
		return res
	}

	resolved := s.resolveSettings(ctx, req)
	res.Diagnostics = append(res.Diagnostics, resolved.Diagnostics...)
	if resolved.Blocked {
		l.Warn().Strs("diagnostics", res.Diagnostics).Msg("import blocked by settings")
		observability.ObserveImport(string(req.BookingType), "config_error")
		return res
	}
	ictx := resolved.Context

	email := req.Email
	if email == "" {
		email = ictx.DefaultEmail
	}

	fetcher := s.newFetcher(req.BookingType, resolved.Credentials)
	out := fetcher.Fetch(ctx, ictx, req.ItineraryID, email)
	res.Generation = out.Generation
	if out.Failed() {
		res.Diagnostics = append(res.Diagnostics, out.Errors...)
		l.Warn().Strs("errors", out.Errors).Msg("fetch failed")
		observability.ObserveImport(string(req.BookingType), "fetch_error")
		return res
	}

	pairs, err := mapper.GenerateRecords(ctx, out.Decoded, ictx)
	if err != nil {
		res.Diagnostics = append(res.Diagnostics, err.Error())
		l.Error().Err(err).Msg("mapping failed")
		observability.ObserveImport(string(req.BookingType), "map_error")
		return res
	}

	// Pairs persist in order; the paired Itinerary needs its Sector's new
	// identifier. There is no rollback, so an insert failure surfaces as a
	// diagnostic alongside whatever already persisted.
	for _, p := range pairs {
		if ictx.Debug {
			res.Sectors = append(res.Sectors, p.Sector)
			res.Itineraries = append(res.Itineraries, p.Itinerary)
			continue
		}
		sectorID, err := s.store.InsertSector(ctx, p.Sector)
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, "Failed to store sector: "+err.Error())
			l.Error().Err(err).Msg("sector insert failed")
			observability.ObserveImport(string(req.BookingType), "store_error")
			return res
		}
		p.Itinerary.TripSectorID = sectorID
		if err := s.store.InsertItinerary(ctx, p.Itinerary); err != nil {
			res.Diagnostics = append(res.Diagnostics, "Failed to store itinerary: "+err.Error())
			l.Error().Err(err).Int64("sector", sectorID).Msg("itinerary insert failed")
			observability.ObserveImport(string(req.BookingType), "store_error")
			return res
		}
		res.Sectors = append(res.Sectors, p.Sector)
		res.Itineraries = append(res.Itineraries, p.Itinerary)
	}

	l.Info().
		Str("generation", string(res.Generation)).
		Int("sectors", len(res.Sectors)).
		Bool("debug", ictx.Debug).
		Msg("import completed")
	observability.ObserveImport(string(req.BookingType), "ok")
	return res
}

// resolveSettings serves the branch-level resolution from the cache when the
// request carries no explicit overrides; per-run fields are re-applied on a
// cache hit.
func (s *ImportService) resolveSettings(ctx context.Context, req ImportRequest) ResolvedSettings {
	cacheable := s.cache != nil && req.TripID != "" &&
		req.ProductID == 0 && req.SupplierID == 0
	key := fmt.Sprintf("expedia:settings:%d", s.session.BranchID)

	if cacheable {
		var snap ResolvedSettings
		if ok, _ := s.cache.Get(ctx, key, &snap); ok {
			snap.Context.TripID = req.TripID
			snap.Context.PassengerID = req.PassengerID
			snap.Context.Debug = req.Debug
			return snap
		}
	}

	resolved := s.resolver.Resolve(ctx, req)
	if cacheable && !resolved.Blocked {
		snap := resolved
		snap.Context.TripID = ""
		snap.Context.PassengerID = 0
		snap.Context.Debug = false
		_ = s.cache.Set(ctx, key, snap, int(s.cacheTTL.Seconds()))
	}
	return resolved
}
