package domain

// Generation identifies an Expedia API protocol version. V2 is primary,
// V1 is the legacy fallback.
type Generation string

const (
	GenerationV1 Generation = "v1"
	GenerationV2 Generation = "v2"
)

// BookingType selects the booking payload shape and the Accept media type.
type BookingType string

const (
	BookingTypeHotel BookingType = "hotel"
	BookingTypeCar   BookingType = "car"
)

// Credentials are the key/secret pair for one API generation, resolved per
// country. Both fields are required for the generation to be usable.
type Credentials struct {
	Key    string
	Secret string
}

func (c Credentials) Usable() bool { return c.Key != "" && c.Secret != "" }

// ImportContext is the resolved configuration for one import run of one trip.
// A context with no TripID is terminal: no API call is ever issued for it.
type ImportContext struct {
	TripID       string
	ProductID    int64
	SupplierID   int64
	PassengerID  int64
	ProductCode  string
	SupplierCode string
	Country      string
	PartnerID    string
	DefaultEmail string
	BranchEmail  string
	EmailList    []string
	Debug        bool
}

// Session carries the identity and currency settings of the importing agency,
// injected by the caller rather than read from any ambient handle.
type Session struct {
	OfficeID     int64
	ConsultantID int64
	BranchID     int64
	CurrencyCode string
	TaxCodeID    int64
}

// FetchOutcome is the result of one logical itinerary fetch, after any
// fallback. Errors non-empty means the fetch failed.
type FetchOutcome struct {
	Generation  Generation
	RawRequest  string
	RawResponse string
	Decoded     map[string]any
	Errors      []string
}

func (o FetchOutcome) Failed() bool { return len(o.Errors) > 0 }
