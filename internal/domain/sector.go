package domain

// Sector is one billable line item tied to a trip. Monetary fields are in
// integer minor-currency units (cents). Net must always equal UnitPrice + Fees.
type Sector struct {
	TripID        string
	ProductID     int64
	SupplierID    int64
	ConsultantID  int64
	PassengerID   int64
	LocalSectorID int64

	TravelDate string // YYYY-MM-DD
	ReturnDate string // YYYY-MM-DD
	TicketDate string // YYYY-MM-DD

	UnitPrice int64
	Fees      int64
	Net       int64
	Total     int64

	TaxCodeID      int64
	TaxesTaxCodeID int64

	ReferenceNumber string
	Details         string

	// Fixed ledger defaults, set by NewSector and never varied by imports.
	StatusID         int64
	ChargeTypeID     int64
	Qty              int64
	GST              int64
	Commission       int64
	Discount         int64
	IsDiscountPerQty bool
	FullFare         int64
	Markup           int64
	IsMarkupPerQty   bool
	FareOffered      int64
	PNRFees          int64
	PNRFeesGST       int64
	ConsolidatorFees int64
	IsActive         bool
	IsClaimed        bool
	IsVaried         bool
	IsFee            bool
	IsLocked         bool
	IsQtyLocked      bool
	CodeVersion      int64
}

// NewSector returns a Sector with the ledger defaults applied.
func NewSector() Sector {
	return Sector{
		StatusID:     2,
		ChargeTypeID: 1,
		Qty:          1,
		IsActive:     true,
		CodeVersion:  1,
	}
}

// FRETaxCodeID is the fixed tax-free code applied when the booking currency
// differs from the agency currency.
const FRETaxCodeID int64 = 2
