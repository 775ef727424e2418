package expedia

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/UmairArshadShk/ExpediaIntegration/internal/adapters/observability"
	"github.com/UmairArshadShk/ExpediaIntegration/internal/domain"
)

const (
	acceptHotel = "Accept: application/vnd.exp-hotel.v3+json"
	acceptCar   = "Accept: application/vnd.exp-car.v3+json"

	hotelBookingsPath = "hotels/bookings/"
	carBookingsPath   = "cars/bookings/"
)

// Fetcher orchestrates one logical itinerary fetch: a V2 attempt, an optional
// V1 fallback, and exactly one import-log entry per attempt.
type Fetcher struct {
	transport domain.Transport
	logs      domain.ImportLog
	baseURL   string
	kind      domain.BookingType
	creds     map[domain.Generation]domain.Credentials
	enableV1  bool
}

func NewFetcher(t domain.Transport, logs domain.ImportLog, baseURL string, kind domain.BookingType, creds map[domain.Generation]domain.Credentials, enableV1 bool) *Fetcher {
	return &Fetcher{
		transport: t,
		logs:      logs,
		baseURL:   strings.TrimSuffix(baseURL, "/") + "/",
		kind:      kind,
		creds:     creds,
		enableV1:  enableV1,
	}
}

func (f *Fetcher) accept() string {
	if f.kind == domain.BookingTypeCar {
		return acceptCar
	}
	return acceptHotel
}

func (f *Fetcher) bookingURL(itineraryID string) string {
	p := hotelBookingsPath
	if f.kind == domain.BookingTypeCar {
		p = carBookingsPath
	}
	return f.baseURL + p + itineraryID
}

// Fetch retrieves one booking. A V2 response carrying an Errors collection
// (or an unreadable body) triggers the V1 fallback when enabled; if the final
// attempt still fails, the outcome carries a summary line plus one diagnostic
// per upstream error, each also recorded via the import log.
func (f *Fetcher) Fetch(ctx context.Context, ictx domain.ImportContext, itineraryID, email string) domain.FetchOutcome {
	url := f.bookingURL(itineraryID)

	a := f.attempt(ctx, ictx, itineraryID, url, email, domain.GenerationV2)
	if a.failed() && f.enableV1 {
		observability.ObserveFallback(string(f.kind))
		a = f.attempt(ctx, ictx, itineraryID, url, email, domain.GenerationV1)
	}

	out := domain.FetchOutcome{
		Generation:  a.gen,
		RawRequest:  a.request,
		RawResponse: a.response,
		Decoded:     a.decoded,
	}
	if !a.failed() {
		return out
	}

	out.Errors = append(out.Errors, "Failed to fetch information")
	if a.sendErr != nil || a.decodeErr != nil {
		msg := "Unreadable response from the Expedia API"
		out.Errors = append(out.Errors, msg)
		f.recordError(ctx, a.logID, ictx.TripID, msg)
	}
	for _, desc := range errorDescriptions(a.decoded) {
		out.Errors = append(out.Errors, desc)
		f.recordError(ctx, a.logID, ictx.TripID, desc)
	}
	return out
}

type fetchAttempt struct {
	gen       domain.Generation
	request   string
	response  string
	decoded   map[string]any
	sendErr   error
	decodeErr error
	logID     int64
}

func (a fetchAttempt) failed() bool {
	if a.sendErr != nil || a.decodeErr != nil {
		return true
	}
	_, present := a.decoded["Errors"]
	return present
}

func (f *Fetcher) attempt(ctx context.Context, ictx domain.ImportContext, itineraryID, url, email string, gen domain.Generation) fetchAttempt {
	c := f.creds[gen]
	headers := []string{
		"Key: " + c.Key,
		f.accept(),
		BasicAuth(c),
		"User-Id: " + email,
		"Partner-Transaction-Id: " + ictx.PartnerID,
	}

	a := fetchAttempt{gen: gen}
	a.request, a.response, a.sendErr = f.transport.Send(ctx, headers, url)
	if a.sendErr != nil {
		log.Warn().Err(a.sendErr).Str("generation", string(gen)).Str("itinerary", itineraryID).Msg("expedia request failed")
	} else if err := json.Unmarshal([]byte(a.response), &a.decoded); err != nil {
		a.decodeErr = err
	}
	observability.ObserveFetch(string(gen), a.failed())

	// Every attempt is logged exactly once, success or failure.
	logID, err := f.logs.RecordFetch(ctx, domain.ImportLogEntry{
		TripID:          ictx.TripID,
		ItineraryNumber: itineraryID,
		Generation:      gen,
		Request:         a.request,
		Response:        a.response,
		Snapshot: domain.SettingsSnapshot{
			ProductID:  ictx.ProductID,
			SupplierID: ictx.SupplierID,
			Emails:     ictx.EmailList,
		},
	})
	if err != nil {
		log.Error().Err(err).Str("trip", ictx.TripID).Msg("record fetch failed")
	}
	a.logID = logID
	return a
}

func (f *Fetcher) recordError(ctx context.Context, logID int64, tripID, message string) {
	if err := f.logs.RecordError(ctx, logID, tripID, message); err != nil {
		log.Error().Err(err).Str("trip", tripID).Msg("record error failed")
	}
}

// errorDescriptions pulls the Description of each element of the payload's
// Errors collection.
func errorDescriptions(decoded map[string]any) []string {
	raw, ok := decoded["Errors"].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, it := range raw {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		if d, ok := m["Description"].(string); ok && d != "" {
			out = append(out, d)
		}
	}
	return out
}
