package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/UmairArshadShk/ExpediaIntegration/internal/domain"
)

// HotelMapper builds one Sector/Itinerary pair per room of a hotel booking
// payload.
type HotelMapper struct {
	lookup  domain.ReferenceLookup
	session domain.Session
}

func NewHotelMapper(lookup domain.ReferenceLookup, session domain.Session) *HotelMapper {
	return &HotelMapper{lookup: lookup, session: session}
}

func (m *HotelMapper) Kind() domain.BookingType { return domain.BookingTypeHotel }

func (m *HotelMapper) GenerateRecords(ctx context.Context, data map[string]any, ictx domain.ImportContext) ([]domain.RecordPair, error) {
	rooms := lookupSlice(data, "HotelDetails.Rooms")
	if len(rooms) == 0 {
		return nil, fmt.Errorf("hotel payload for trip %s has no rooms", ictx.TripID)
	}

	hotelName := lookupStr(data, "HotelDetails.Name")
	localCurrency := lookupStr(data, "HotelDetails.LocalCurrencyCode")
	if localCurrency == "" {
		localCurrency = m.session.CurrencyCode
	}
	agencyCurrency := lookupStr(data, "TotalPrice.Currency")
	if agencyCurrency == "" {
		agencyCurrency = m.session.CurrencyCode
	}
	gstApplied := strings.EqualFold(localCurrency, agencyCurrency)
	bookingDate := dateOnly(lookupStr(data, "BookingDateTime"))
	itineraryNumber := lookupStr(data, "ItineraryNumber")

	pairs := make([]domain.RecordPair, 0, len(rooms))
	for i, raw := range rooms {
		room, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		sector, err := m.roomSector(ctx, room, ictx, roomInput{
			hotelName:       hotelName,
			gstApplied:      gstApplied,
			bookingDate:     bookingDate,
			itineraryNumber: itineraryNumber,
			ordinal:         i + 1,
		})
		if err != nil {
			return pairs, err
		}
		pairs = append(pairs, domain.RecordPair{
			Sector:    sector,
			Itinerary: m.roomItinerary(room, data, ictx, hotelName, i+1),
		})
	}
	return pairs, nil
}

type roomInput struct {
	hotelName       string
	gstApplied      bool
	bookingDate     string
	itineraryNumber string
	ordinal         int
}

func (m *HotelMapper) roomSector(ctx context.Context, room map[string]any, ictx domain.ImportContext, in roomInput) (domain.Sector, error) {
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

	if ictx.Debug {
		s.LocalSectorID = int64(in.ordinal)
	} else {
		seq, err := m.lookup.NextLocalSectorID(ctx, ictx.TripID)
		if err != nil {
			return s, fmt.Errorf("next local sector for trip %s: %w", ictx.TripID, err)
		}
		s.LocalSectorID = seq
	}

	stay := firstEntry(lookupSlice(room, "StayDates"))
	s.TravelDate = dateOnly(lookupStr(stay, "CheckInDate"))
	s.ReturnDate = dateOnly(lookupStr(stay, "CheckOutDate"))
	s.TicketDate = in.bookingDate

	s.Fees = roomFees(room)
	s.UnitPrice = roomBaseRate(room, s.Fees)
	s.Net = s.UnitPrice + s.Fees
	s.Total = s.UnitPrice + s.Fees

	s.TaxCodeID = domain.FRETaxCodeID
	if in.gstApplied {
		s.TaxCodeID = m.session.TaxCodeID
	}
	s.TaxesTaxCodeID = s.TaxCodeID

	s.ReferenceNumber = in.itineraryNumber
	s.Details = roomDetails(room, in.hotelName)
	return s, nil
}

// roomFees is the tax-and-fee amount in cents, 0 when absent.
func roomFees(room map[string]any) int64 {
	v, _ := centsAt(room, "Price.TaxesAndFees.Value")
	return v
}

// roomBaseRate prefers the explicit base rate; otherwise it is derived as
// total price minus fees; otherwise 0.
func roomBaseRate(room map[string]any, fees int64) int64 {
	if v, ok := centsAt(room, "Price.BaseRate.Value"); ok {
		return v
	}
	if v, ok := centsAt(room, "Price.TotalPrice.Value"); ok {
		return v - fees
	}
	return 0
}

func roomDetails(room map[string]any, hotelName string) string {
	details := hotelName + "\n"
	if d := lookupStr(room, "Description"); d != "" {
		details += d
	}
	return details
}

func (m *HotelMapper) roomItinerary(room, data map[string]any, ictx domain.ImportContext, hotelName string, ordinal int) domain.Itinerary {
	stay := firstEntry(lookupSlice(room, "StayDates"))

	it := domain.Itinerary{
		TripID:    ictx.TripID,
		TypeID:    domain.ItineraryTypeHotel,
		SubType:   "Expedia",
		ProductID: ictx.ProductID,
		SegName:   hotelName,
		StartDate: dateOnly(lookupStr(stay, "CheckInDate")),
		EndDate:   dateOnly(lookupStr(stay, "CheckOutDate")),
		StartTime: timeOnly(lookupStr(data, "HotelDetails.Policies.CheckInStartTime")),
		EndTime:   timeOnly(lookupStr(data, "HotelDetails.Policies.CheckOutTime")),
	}
	if ictx.Debug {
		it.TripSectorID = int64(ordinal)
	}

	if d := lookupStr(room, "Description"); d != "" {
		it.ClassType = d
		if len(it.ClassType) > 64 {
			it.ClassType = it.ClassType[:64]
		}
	}

	it.StartLocation = joinNonEmpty(" ",
		lookupStr(data, "HotelDetails.Location.Address.Address1"),
		lookupStr(data, "HotelDetails.Location.Address.City"),
		lookupStr(data, "HotelDetails.Location.Address.Province"),
		lookupStr(data, "HotelDetails.Location.Address.Country"),
	)

	phone := firstEntry(lookupSlice(data, "HotelDetails.PhoneInfos"))
	it.StartPhoneNumber = joinNonEmpty(" ",
		lookupStr(phone, "CountryCode"),
		lookupStr(phone, "AreaCode"),
		lookupStr(phone, "Number"),
	)

	it.Inclusions = hotelAmenities(data)

	if plan := firstEntry(lookupSlice(room, "RatePlans")); plan != nil {
		if p := lookupStr(plan, "CancellationPolicy.CancelPolicyDescription"); p != "" {
			it.CancellationPolicy = &p
		}
	}
	return it
}

// hotelAmenities joins the amenity names with a line-break separator, the
// form the itinerary display layer expects.
func hotelAmenities(data map[string]any) string {
	var names []string
	for _, raw := range lookupSlice(data, "HotelDetails.HotelAmenities") {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if n, ok := m["Name"].(string); ok && n != "" {
			names = append(names, n)
		}
	}
	return strings.Join(names, "<br/>")
}
