package app_test

import (
	"context"
	"testing"

	"github.com/UmairArshadShk/ExpediaIntegration/internal/app"
	"github.com/UmairArshadShk/ExpediaIntegration/internal/domain"
)

var testSession = domain.Session{
	OfficeID:     3,
	ConsultantID: 17,
	BranchID:     5,
	CurrencyCode: "AUD",
	TaxCodeID:    1,
}

const hotelPayload = `{
	"ItineraryNumber": "IT-900",
	"BookingDateTime": "2026-03-01T09:30:00",
	"TotalPrice": {"Currency": "AUD"},
	"HotelDetails": {
		"Name": "Harbour View Hotel",
		"LocalCurrencyCode": "aud",
		"Location": {"Address": {
			"Address1": "1 Quay St",
			"City": "Sydney",
			"Province": "NSW",
			"Country": "AU"
		}},
		"PhoneInfos": [{"CountryCode": "61", "AreaCode": "2", "Number": "90001234"}],
		"HotelAmenities": [{"Name": "Pool"}, {"Name": "Gym"}, {"Name": ""}],
		"Policies": {"CheckInStartTime": "3 PM", "CheckOutTime": "11:00"},
		"Rooms": [{
			"Description": "Deluxe King",
			"StayDates": [{"CheckInDate": "2026-04-10", "CheckOutDate": "2026-04-12"}],
			"Price": {
				"BaseRate": {"Value": 120.50, "Currency": "AUD"},
				"TaxesAndFees": {"Value": 9.50, "Currency": "AUD"},
				"TotalPrice": {"Value": 130.00, "Currency": "AUD"}
			},
			"RatePlans": [{"CancellationPolicy": {"CancelPolicyDescription": "Free until 48h before"}}]
		}]
	}
}`

func hotelICtx() domain.ImportContext {
	return domain.ImportContext{
		TripID:     "T-1",
		ProductID:  42,
		SupplierID: 501,
		Country:    "AU",
	}
}

func TestHotelMapper_SingleRoom(t *testing.T) {
	lookup := validLookup()
	m := app.NewHotelMapper(lookup, testSession)

	pairs, err := m.GenerateRecords(context.Background(), mustDecode(t, hotelPayload), hotelICtx())
	if err != nil {
		t.Fatalf("GenerateRecords: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("pairs = %d, want 1", len(pairs))
	}
	s := pairs[0].Sector

	if s.UnitPrice != 12050 || s.Fees != 950 {
		t.Fatalf("unit=%d fees=%d, want 12050/950", s.UnitPrice, s.Fees)
	}
	if s.Net != 13000 || s.Total != 13000 {
		t.Fatalf("net=%d total=%d, want 13000", s.Net, s.Total)
	}
	if s.Net != s.UnitPrice+s.Fees {
		t.Fatalf("net invariant broken: %d != %d+%d", s.Net, s.UnitPrice, s.Fees)
	}

	// Matching currencies (case-insensitive) means the agency tax code.
	if s.TaxCodeID != testSession.TaxCodeID || s.TaxesTaxCodeID != testSession.TaxCodeID {
		t.Fatalf("tax code = %d/%d, want %d", s.TaxCodeID, s.TaxesTaxCodeID, testSession.TaxCodeID)
	}

	if s.TravelDate != "2026-04-10" || s.ReturnDate != "2026-04-12" || s.TicketDate != "2026-03-01" {
		t.Fatalf("dates: travel=%q return=%q ticket=%q", s.TravelDate, s.ReturnDate, s.TicketDate)
	}
	if s.ReferenceNumber != "IT-900" {
		t.Fatalf("reference = %q", s.ReferenceNumber)
	}
	if s.Details != "Harbour View Hotel\nDeluxe King" {
		t.Fatalf("details = %q", s.Details)
	}
	if s.PassengerID != 9 {
		t.Fatalf("passenger = %d, want lead passenger 9", s.PassengerID)
	}
	if s.LocalSectorID != 1 {
		t.Fatalf("local sector = %d, want first allocated sequence", s.LocalSectorID)
	}
	if s.ConsultantID != testSession.ConsultantID || s.ProductID != 42 || s.SupplierID != 501 {
		t.Fatalf("identity fields: %+v", s)
	}

	// Ledger defaults survive the mapping untouched.
	if s.StatusID != 2 || s.ChargeTypeID != 1 || s.Qty != 1 || !s.IsActive || s.CodeVersion != 1 {
		t.Fatalf("ledger defaults: %+v", s)
	}

	it := pairs[0].Itinerary
	if it.TypeID != domain.ItineraryTypeHotel || it.SubType != "Expedia" {
		t.Fatalf("type fields: %+v", it)
	}
	if it.SegName != "Harbour View Hotel" || it.ClassType != "Deluxe King" {
		t.Fatalf("names: seg=%q class=%q", it.SegName, it.ClassType)
	}
	if it.StartDate != "2026-04-10" || it.EndDate != "2026-04-12" {
		t.Fatalf("itinerary dates: %q %q", it.StartDate, it.EndDate)
	}
	if deref(it.StartTime) != "15:00:00" || deref(it.EndTime) != "11:00:00" {
		t.Fatalf("times: %q %q", deref(it.StartTime), deref(it.EndTime))
	}
	if it.StartLocation != "1 Quay St Sydney NSW AU" {
		t.Fatalf("location = %q", it.StartLocation)
	}
	if it.StartPhoneNumber != "61 2 90001234" {
		t.Fatalf("phone = %q", it.StartPhoneNumber)
	}
	if it.Inclusions != "Pool<br/>Gym" {
		t.Fatalf("inclusions = %q", it.Inclusions)
	}
	if deref(it.CancellationPolicy) != "Free until 48h before" {
		t.Fatalf("cancellation = %q", deref(it.CancellationPolicy))
	}
	if it.TripSectorID != 0 {
		t.Fatalf("trip sector must stay unset until persistence, got %d", it.TripSectorID)
	}
}

func TestHotelMapper_BaseRateFromTotalMinusFees(t *testing.T) {
	payload := mustDecode(t, hotelPayload)
	room := payload["HotelDetails"].(map[string]any)["Rooms"].([]any)[0].(map[string]any)
	delete(room["Price"].(map[string]any), "BaseRate")

	m := app.NewHotelMapper(validLookup(), testSession)
	pairs, err := m.GenerateRecords(context.Background(), payload, hotelICtx())
	if err != nil {
		t.Fatalf("GenerateRecords: %v", err)
	}
	s := pairs[0].Sector
	if s.UnitPrice != 12050 {
		t.Fatalf("unit = %d, want 13000-950 = 12050", s.UnitPrice)
	}
}

func TestHotelMapper_NoPriceMeansZero(t *testing.T) {
	payload := mustDecode(t, hotelPayload)
	room := payload["HotelDetails"].(map[string]any)["Rooms"].([]any)[0].(map[string]any)
	delete(room, "Price")

	m := app.NewHotelMapper(validLookup(), testSession)
	pairs, err := m.GenerateRecords(context.Background(), payload, hotelICtx())
	if err != nil {
		t.Fatalf("GenerateRecords: %v", err)
	}
	s := pairs[0].Sector
	if s.UnitPrice != 0 || s.Fees != 0 || s.Net != 0 || s.Total != 0 {
		t.Fatalf("money fields must all be zero: %+v", s)
	}
}

func TestHotelMapper_CurrencyMismatchIsTaxFree(t *testing.T) {
	payload := mustDecode(t, hotelPayload)
	payload["HotelDetails"].(map[string]any)["LocalCurrencyCode"] = "USD"

	m := app.NewHotelMapper(validLookup(), testSession)
	pairs, err := m.GenerateRecords(context.Background(), payload, hotelICtx())
	if err != nil {
		t.Fatalf("GenerateRecords: %v", err)
	}
	if pairs[0].Sector.TaxCodeID != domain.FRETaxCodeID {
		t.Fatalf("tax code = %d, want FRE %d", pairs[0].Sector.TaxCodeID, domain.FRETaxCodeID)
	}
}

func TestHotelMapper_MultiRoomSequences(t *testing.T) {
	payload := mustDecode(t, hotelPayload)
	hd := payload["HotelDetails"].(map[string]any)
	room := hd["Rooms"].([]any)[0]
	hd["Rooms"] = []any{room, room, room}

	lookup := validLookup()
	m := app.NewHotelMapper(lookup, testSession)
	pairs, err := m.GenerateRecords(context.Background(), payload, hotelICtx())
	if err != nil {
		t.Fatalf("GenerateRecords: %v", err)
	}
	if len(pairs) != 3 {
		t.Fatalf("pairs = %d, want one per room", len(pairs))
	}
	for i, p := range pairs {
		if p.Sector.LocalSectorID != int64(i+1) {
			t.Fatalf("room %d local sector = %d", i, p.Sector.LocalSectorID)
		}
	}
	if lookup.sectorCalls != 3 {
		t.Fatalf("sequence lookups = %d, want one per room", lookup.sectorCalls)
	}
}

func TestHotelMapper_DebugPlaceholders(t *testing.T) {
	payload := mustDecode(t, hotelPayload)
	hd := payload["HotelDetails"].(map[string]any)
	room := hd["Rooms"].([]any)[0]
	hd["Rooms"] = []any{room, room}

	ictx := hotelICtx()
	ictx.Debug = true

	lookup := validLookup()
	m := app.NewHotelMapper(lookup, testSession)
	pairs, err := m.GenerateRecords(context.Background(), payload, ictx)
	if err != nil {
		t.Fatalf("GenerateRecords: %v", err)
	}
	for i, p := range pairs {
		if p.Sector.LocalSectorID != int64(i+1) {
			t.Fatalf("debug room %d local sector = %d, want ordinal", i, p.Sector.LocalSectorID)
		}
		if p.Sector.PassengerID != 1 {
			t.Fatalf("debug passenger = %d, want placeholder 1", p.Sector.PassengerID)
		}
		if p.Itinerary.TripSectorID != int64(i+1) {
			t.Fatalf("debug itinerary %d trip sector = %d, want ordinal", i, p.Itinerary.TripSectorID)
		}
	}
	if lookup.sectorCalls != 0 {
		t.Fatalf("debug mode must not allocate sequence numbers")
	}
}

func TestHotelMapper_ExplicitPassengerWins(t *testing.T) {
	ictx := hotelICtx()
	ictx.PassengerID = 77

	m := app.NewHotelMapper(validLookup(), testSession)
	pairs, err := m.GenerateRecords(context.Background(), mustDecode(t, hotelPayload), ictx)
	if err != nil {
		t.Fatalf("GenerateRecords: %v", err)
	}
	if pairs[0].Sector.PassengerID != 77 {
		t.Fatalf("passenger = %d, want explicit 77", pairs[0].Sector.PassengerID)
	}
}

func TestHotelMapper_LongDescriptionTruncated(t *testing.T) {
	payload := mustDecode(t, hotelPayload)
	room := payload["HotelDetails"].(map[string]any)["Rooms"].([]any)[0].(map[string]any)
	long := ""
	for len(long) < 80 {
		long += "abcdefgh"
	}
	room["Description"] = long

	m := app.NewHotelMapper(validLookup(), testSession)
	pairs, err := m.GenerateRecords(context.Background(), payload, hotelICtx())
	if err != nil {
		t.Fatalf("GenerateRecords: %v", err)
	}
	if got := pairs[0].Itinerary.ClassType; len(got) != 64 {
		t.Fatalf("class type length = %d, want truncated to 64", len(got))
	}
}

func TestHotelMapper_NoRoomsIsError(t *testing.T) {
	m := app.NewHotelMapper(validLookup(), testSession)
	_, err := m.GenerateRecords(context.Background(), mustDecode(t, `{"HotelDetails":{"Rooms":[]}}`), hotelICtx())
	if err == nil {
		t.Fatalf("expected error for a roomless payload")
	}
}
