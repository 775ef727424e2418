package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/UmairArshadShk/ExpediaIntegration/internal/domain"
)

// CarMapper builds exactly one Sector/Itinerary pair from a car rental
// booking payload.
type CarMapper struct {
	lookup  domain.ReferenceLookup
	session domain.Session
}

func NewCarMapper(lookup domain.ReferenceLookup, session domain.Session) *CarMapper {
	return &CarMapper{lookup: lookup, session: session}
}

func (m *CarMapper) Kind() domain.BookingType { return domain.BookingTypeCar }

func (m *CarMapper) GenerateRecords(ctx context.Context, data map[string]any, ictx domain.ImportContext) ([]domain.RecordPair, error) {
	car := lookupMap(data, "CarDetails")
	if car == nil {
		return nil, fmt.Errorf("car payload for trip %s has no CarDetails", ictx.TripID)
	}
	vehicle := lookupMap(car, "VehicleDetails")

	bookingCurrency := lookupStr(car, "Price.BasePrice.Currency")
	if bookingCurrency == "" {
		bookingCurrency = m.session.CurrencyCode
	}
	gstApplied := strings.EqualFold(bookingCurrency, m.session.CurrencyCode)

	pickup := lookupStr(car, "PickupDetails.DateTime")
	dropoff := lookupStr(car, "DropOffDetails.DateTime")

	sector, err := m.carSector(ctx, car, data, ictx, gstApplied, pickup, dropoff)
	if err != nil {
		return nil, err
	}
	return []domain.RecordPair{{
		Sector:    sector,
		Itinerary: m.carItinerary(car, vehicle, ictx, pickup, dropoff),
	}}, nil
}

func (m *CarMapper) carSector(ctx context.Context, car, data map[string]any, ictx domain.ImportContext, gstApplied bool, pickup, dropoff string) (domain.Sector, error) {
	s := domain.NewSector()
	s.TripID = ictx.TripID
	s.ProductID = ictx.ProductID
	s.SupplierID = ictx.SupplierID
	s.ConsultantID = m.session.ConsultantID

	passenger, err := passengerFor(ctx, m.lookup, ictx)
	if err != nil {
		return s, fmt.Errorf("lead passenger for trip %s: %w", ictx.TripID, err)
	}
	s.PassengerID = passenger

	if !ictx.Debug {
		seq, err := m.lookup.NextLocalSectorID(ctx, ictx.TripID)
		if err != nil {
			return s, fmt.Errorf("next local sector for trip %s: %w", ictx.TripID, err)
		}
		s.LocalSectorID = seq
	}

	s.TravelDate = dateOnly(pickup)
	s.ReturnDate = dateOnly(dropoff)
	s.TicketDate = dateOnly(lookupStr(data, "BookingDateTime"))

	s.Fees = carFees(car)
	s.UnitPrice = carBaseRate(car, s.Fees)
	s.Net = s.UnitPrice + s.Fees
	s.Total = s.UnitPrice + s.Fees

	s.TaxCodeID = domain.FRETaxCodeID
	if gstApplied {
		s.TaxCodeID = m.session.TaxCodeID
	}
	s.TaxesTaxCodeID = s.TaxCodeID

	s.ReferenceNumber = lookupStr(data, "ItineraryNumber")
	s.Details = "Car Hire\n" + dateTime(pickup) + " - " + dateTime(dropoff) + "\n"
	return s, nil
}

func carFees(car map[string]any) int64 {
	v, _ := centsAt(car, "Price.TaxesAndFees.Value")
	return v
}

// carBaseRate mirrors the hotel derivation: explicit base rate, else total
// minus fees, else 0. The fallback is deliberately not clamped at zero.
func carBaseRate(car map[string]any, fees int64) int64 {
	if v, ok := centsAt(car, "Price.BaseRate.Value"); ok {
		return v
	}
	if v, ok := centsAt(car, "Price.TotalPrice.Value"); ok {
		return v - fees
	}
	return 0
}

func (m *CarMapper) carItinerary(car, vehicle map[string]any, ictx domain.ImportContext, pickup, dropoff string) domain.Itinerary {
	it := domain.Itinerary{
		TripID:        ictx.TripID,
		TypeID:        domain.ItineraryTypeCar,
		SubType:       "Expedia",
		ProductID:     ictx.ProductID,
		SegName:       strings.TrimSpace("Car Hire " + carClassType(vehicle)),
		StartDate:     dateOnly(pickup),
		EndDate:       dateOnly(dropoff),
		StartTime:     timeOnly(pickup),
		EndTime:       timeOnly(dropoff),
		StartLocation: carLocation(lookupMap(car, "PickupDetails.Location.Address")),
		EndLocation:   carLocation(lookupMap(car, "DropOffDetails.Location.Address")),
		Inclusions:    carInclusions(vehicle, pickup, dropoff),
		Notes:         carNotes(lookupSlice(car, "CarPolicies")),
	}
	return it
}

// carClassType prefers the vehicle class, falling back to the make.
func carClassType(vehicle map[string]any) string {
	if c := lookupStr(vehicle, "CarClass"); c != "" {
		return c
	}
	return lookupStr(vehicle, "Make")
}

func carLocation(addr map[string]any) string {
	return joinNonEmpty(" ",
		lookupStr(addr, "Address1"),
		lookupStr(addr, "City"),
		lookupStr(addr, "Province"),
		lookupStr(addr, "Country"),
	)
}

// carInclusions formats the vehicle spec block. Lines whose source field is
// absent are omitted.
func carInclusions(vehicle map[string]any, pickup, dropoff string) string {
	var b strings.Builder
	b.WriteString("Car Hire\n")
	b.WriteString(dateTime(pickup) + " - " + dateTime(dropoff) + "\n")
	if v := lookupStr(vehicle, "Make"); v != "" {
		b.WriteString("Make: " + v + "\n")
	}
	if v := getFloat(vehicle, "MinDoors"); v != nil {
		fmt.Fprintf(&b, "Min Doors: %d\n", int(*v))
	}
	if v := getFloat(vehicle, "MaxDoors"); v != nil {
		fmt.Fprintf(&b, "Max Doors: %d\n", int(*v))
	}
	if v := lookupStr(vehicle, "TransmissionDrive.Value"); v != "" {
		b.WriteString("Transmission: " + v + "\n")
	}
	if v := getFloat(vehicle, "Capacity.AdultCount"); v != nil {
		fmt.Fprintf(&b, "Capacity: %d\n", int(*v))
	}
	return b.String()
}

// carNotes renders one HTML heading+paragraph per car policy entry that has
// non-empty policy text.
func carNotes(policies []any) string {
	var b strings.Builder
	for _, raw := range policies {
		row, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		text := lookupStr(row, "PolicyText")
		if text == "" {
			continue
		}
		b.WriteString("<h3>" + lookupStr(row, "CategoryCode") + "</h3>")
		b.WriteString(text + "\n")
	}
	return b.String()
}
