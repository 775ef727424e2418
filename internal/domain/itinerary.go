package domain

type ItineraryType int64

const (
	ItineraryTypeHotel ItineraryType = 4
	ItineraryTypeCar   ItineraryType = 7
)

// Itinerary is one travel/display record, paired one-to-one with a Sector.
// TripSectorID is the paired Sector's persisted identifier and must be set
// before the row is inserted.
type Itinerary struct {
	TripID       string
	TripSectorID int64
	TypeID       ItineraryType
	SubType      string
	ProductID    int64

	SegName   string
	ClassType string

	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD
	StartTime *string
	EndTime   *string

	StartLocation    string
	EndLocation      string
	StartPhoneNumber string

	Inclusions         string
	CancellationPolicy *string
	Notes              string
}

// RecordPair couples a Sector with the Itinerary derived alongside it.
type RecordPair struct {
	Sector    Sector
	Itinerary Itinerary
}
