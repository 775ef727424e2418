package app_test

import (
	"context"
	"strings"
	"testing"

	"github.com/UmairArshadShk/ExpediaIntegration/internal/app"
	"github.com/UmairArshadShk/ExpediaIntegration/internal/domain"
)

const carPayload = `{
	"ItineraryNumber": "IT-901",
	"BookingDateTime": "2026-03-02 10:15:00",
	"CarDetails": {
		"Price": {
			"BasePrice": {"Currency": "AUD"},
			"BaseRate": {"Value": 200.00, "Currency": "AUD"},
			"TaxesAndFees": {"Value": 20.00, "Currency": "AUD"},
			"TotalPrice": {"Value": 220.00, "Currency": "AUD"}
		},
		"PickupDetails": {
			"DateTime": "2026-05-01T10:00:00",
			"Location": {"Address": {
				"Address1": "Airport Dr",
				"City": "Melbourne",
				"Province": "VIC",
				"Country": "AU"
			}}
		},
		"DropOffDetails": {
			"DateTime": "2026-05-04T09:00:00",
			"Location": {"Address": {
				"Address1": "99 Collins St",
				"City": "Melbourne",
				"Province": "VIC",
				"Country": "AU"
			}}
		},
		"VehicleDetails": {
			"CarClass": "Compact",
			"Make": "Toyota Corolla or similar",
			"MinDoors": 2,
			"MaxDoors": 4,
			"TransmissionDrive": {"Value": "Automatic"},
			"Capacity": {"AdultCount": 5}
		},
		"CarPolicies": [
			{"CategoryCode": "Fuel", "PolicyText": "Return full tank"},
			{"CategoryCode": "Empty", "PolicyText": ""},
			{"CategoryCode": "Age", "PolicyText": "Driver must be 21+"}
		]
	}
}`

func carICtx() domain.ImportContext {
	return domain.ImportContext{
		TripID:     "T-2",
		ProductID:  42,
		SupplierID: 501,
		Country:    "AU",
	}
}

func TestCarMapper_SinglePair(t *testing.T) {
	lookup := validLookup()
	m := app.NewCarMapper(lookup, testSession)

	pairs, err := m.GenerateRecords(context.Background(), mustDecode(t, carPayload), carICtx())
	if err != nil {
		t.Fatalf("GenerateRecords: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("pairs = %d, want exactly 1 for a car booking", len(pairs))
	}
	s := pairs[0].Sector

	if s.UnitPrice != 20000 || s.Fees != 2000 || s.Net != 22000 || s.Total != 22000 {
		t.Fatalf("money: unit=%d fees=%d net=%d total=%d", s.UnitPrice, s.Fees, s.Net, s.Total)
	}
	if s.TaxCodeID != testSession.TaxCodeID {
		t.Fatalf("tax code = %d, want agency code for matching currency", s.TaxCodeID)
	}
	if s.TravelDate != "2026-05-01" || s.ReturnDate != "2026-05-04" || s.TicketDate != "2026-03-02" {
		t.Fatalf("dates: %q %q %q", s.TravelDate, s.ReturnDate, s.TicketDate)
	}
	if s.ReferenceNumber != "IT-901" {
		t.Fatalf("reference = %q", s.ReferenceNumber)
	}
	wantDetails := "Car Hire\n2026-05-01 10:00:00 - 2026-05-04 09:00:00\n"
	if s.Details != wantDetails {
		t.Fatalf("details = %q, want %q", s.Details, wantDetails)
	}
	if s.LocalSectorID != 1 || s.PassengerID != 9 {
		t.Fatalf("sequence=%d passenger=%d", s.LocalSectorID, s.PassengerID)
	}

	it := pairs[0].Itinerary
	if it.TypeID != domain.ItineraryTypeCar || it.SubType != "Expedia" {
		t.Fatalf("type fields: %+v", it)
	}
	if it.SegName != "Car Hire Compact" {
		t.Fatalf("seg name = %q", it.SegName)
	}
	if it.StartDate != "2026-05-01" || it.EndDate != "2026-05-04" {
		t.Fatalf("itinerary dates: %q %q", it.StartDate, it.EndDate)
	}
	if deref(it.StartTime) != "10:00:00" || deref(it.EndTime) != "09:00:00" {
		t.Fatalf("times: %q %q", deref(it.StartTime), deref(it.EndTime))
	}
	if it.StartLocation != "Airport Dr Melbourne VIC AU" {
		t.Fatalf("start location = %q", it.StartLocation)
	}
	if it.EndLocation != "99 Collins St Melbourne VIC AU" {
		t.Fatalf("end location = %q", it.EndLocation)
	}

	wantIncl := "Car Hire\n" +
		"2026-05-01 10:00:00 - 2026-05-04 09:00:00\n" +
		"Make: Toyota Corolla or similar\n" +
		"Min Doors: 2\n" +
		"Max Doors: 4\n" +
		"Transmission: Automatic\n" +
		"Capacity: 5\n"
	if it.Inclusions != wantIncl {
		t.Fatalf("inclusions = %q, want %q", it.Inclusions, wantIncl)
	}

	wantNotes := "<h3>Fuel</h3>Return full tank\n<h3>Age</h3>Driver must be 21+\n"
	if it.Notes != wantNotes {
		t.Fatalf("notes = %q, want %q", it.Notes, wantNotes)
	}
}

func TestCarMapper_BaseRateFallbackUnclamped(t *testing.T) {
	payload := mustDecode(t, carPayload)
	price := payload["CarDetails"].(map[string]any)["Price"].(map[string]any)
	delete(price, "BaseRate")
	price["TotalPrice"].(map[string]any)["Value"] = 15.00
	price["TaxesAndFees"].(map[string]any)["Value"] = 20.00

	m := app.NewCarMapper(validLookup(), testSession)
	pairs, err := m.GenerateRecords(context.Background(), payload, carICtx())
	if err != nil {
		t.Fatalf("GenerateRecords: %v", err)
	}
	s := pairs[0].Sector
	if s.UnitPrice != -500 {
		t.Fatalf("unit = %d, want fees-heavy fallback to go negative", s.UnitPrice)
	}
	if s.Net != 1500 || s.Net != s.UnitPrice+s.Fees {
		t.Fatalf("net = %d, want unit+fees = 1500", s.Net)
	}
}

func TestCarMapper_ForeignCurrencyIsTaxFree(t *testing.T) {
	payload := mustDecode(t, carPayload)
	price := payload["CarDetails"].(map[string]any)["Price"].(map[string]any)
	price["BasePrice"].(map[string]any)["Currency"] = "USD"

	m := app.NewCarMapper(validLookup(), testSession)
	pairs, err := m.GenerateRecords(context.Background(), payload, carICtx())
	if err != nil {
		t.Fatalf("GenerateRecords: %v", err)
	}
	if pairs[0].Sector.TaxCodeID != domain.FRETaxCodeID {
		t.Fatalf("tax code = %d, want FRE", pairs[0].Sector.TaxCodeID)
	}
}

func TestCarMapper_SegNameFallsBackToMake(t *testing.T) {
	payload := mustDecode(t, carPayload)
	vehicle := payload["CarDetails"].(map[string]any)["VehicleDetails"].(map[string]any)
	delete(vehicle, "CarClass")

	m := app.NewCarMapper(validLookup(), testSession)
	pairs, err := m.GenerateRecords(context.Background(), payload, carICtx())
	if err != nil {
		t.Fatalf("GenerateRecords: %v", err)
	}
	if got := pairs[0].Itinerary.SegName; got != "Car Hire Toyota Corolla or similar" {
		t.Fatalf("seg name = %q", got)
	}
}

func TestCarMapper_NoVehicleDetails(t *testing.T) {
	payload := mustDecode(t, carPayload)
	car := payload["CarDetails"].(map[string]any)
	delete(car, "VehicleDetails")

	m := app.NewCarMapper(validLookup(), testSession)
	pairs, err := m.GenerateRecords(context.Background(), payload, carICtx())
	if err != nil {
		t.Fatalf("GenerateRecords: %v", err)
	}
	it := pairs[0].Itinerary
	if it.SegName != "Car Hire" {
		t.Fatalf("seg name = %q, want trailing space trimmed", it.SegName)
	}
	// Spec lines for absent fields are omitted, the header block stays.
	if strings.Contains(it.Inclusions, "Make:") || strings.Contains(it.Inclusions, "Transmission:") {
		t.Fatalf("inclusions carry lines for absent fields: %q", it.Inclusions)
	}
	if !strings.HasPrefix(it.Inclusions, "Car Hire\n") {
		t.Fatalf("inclusions = %q", it.Inclusions)
	}
}

func TestCarMapper_DebugPlaceholders(t *testing.T) {
	ictx := carICtx()
	ictx.Debug = true

	lookup := validLookup()
	m := app.NewCarMapper(lookup, testSession)
	pairs, err := m.GenerateRecords(context.Background(), mustDecode(t, carPayload), ictx)
	if err != nil {
		t.Fatalf("GenerateRecords: %v", err)
	}
	s := pairs[0].Sector
	if s.LocalSectorID != 0 {
		t.Fatalf("debug local sector = %d, want 0", s.LocalSectorID)
	}
	if s.PassengerID != 1 {
		t.Fatalf("debug passenger = %d, want placeholder 1", s.PassengerID)
	}
	if lookup.sectorCalls != 0 {
		t.Fatalf("debug mode must not allocate sequence numbers")
	}
}

func TestCarMapper_MissingCarDetailsIsError(t *testing.T) {
	m := app.NewCarMapper(validLookup(), testSession)
	_, err := m.GenerateRecords(context.Background(), mustDecode(t, `{"ItineraryNumber":"X"}`), carICtx())
	if err == nil {
		t.Fatalf("expected error without CarDetails")
	}
}
