package app

import (
	"context"

	"github.com/UmairArshadShk/ExpediaIntegration/internal/domain"
)

// BookingMapper transforms a decoded booking payload plus the resolved
// import context into Sector/Itinerary pairs. Implementations are stateless
// between calls; all per-run state travels in the arguments.
type BookingMapper interface {
	Kind() domain.BookingType
	GenerateRecords(ctx context.Context, decoded map[string]any, ictx domain.ImportContext) ([]domain.RecordPair, error)
}

// passengerFor returns the sector passenger: the explicitly supplied ID when
// present, the fixed placeholder in debug mode, otherwise the trip's lead
// passenger from the reference collaborator.
func passengerFor(ctx context.Context, lookup domain.ReferenceLookup, ictx domain.ImportContext) (int64, error) {
	if ictx.PassengerID != 0 {
		return ictx.PassengerID, nil
	}
	if ictx.Debug {
		return 1, nil
	}
	return lookup.LeadPassengerID(ctx, ictx.TripID)
}
