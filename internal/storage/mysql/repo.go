package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/UmairArshadShk/ExpediaIntegration/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Repo implements the settings, reference, persistence and import-log ports
// on one injected *sql.DB. Session-scoped identifiers come from the injected
// Session value only; there is no ambient handle anywhere.
type Repo struct {
	db      *sql.DB
	session domain.Session
}

func New(db *sql.DB, session domain.Session) *Repo {
	return &Repo{db: db, session: session}
}

// ---- SettingsStore ----

func (r *Repo) GatewaySettings(ctx context.Context) ([]domain.GatewaySettings, error) {
	rows, err := r.db.QueryContext(ctx, gatewaySettingsSQL, r.session.BranchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.GatewaySettings
	for rows.Next() {
		var merchantID, email, supplierCode, productCode, country sql.NullString
		if err := rows.Scan(&merchantID, &email, &supplierCode, &productCode, &country); err != nil {
			return nil, err
		}
		out = append(out, domain.GatewaySettings{
			MerchantID:   merchantID.String,
			Email:        email.String,
			SupplierCode: supplierCode.String,
			ProductCode:  productCode.String,
			Country:      country.String,
		})
	}
	return out, rows.Err()
}

func (r *Repo) APICredentials(ctx context.Context, gen domain.Generation, country string) (domain.Credentials, error) {
	name := "EXPEDIA-V2"
	if gen == domain.GenerationV1 {
		name = "EXPEDIA-V1"
	}
	var key, secret sql.NullString
	err := r.db.QueryRowContext(ctx, apiCredentialsSQL, name, country).Scan(&key, &secret)
	if err == sql.ErrNoRows {
		return domain.Credentials{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Credentials{}, err
	}
	return domain.Credentials{Key: key.String, Secret: secret.String}, nil
}

func (r *Repo) ConsultantSettings(ctx context.Context, scope domain.SettingsScope) ([]domain.ConsultantSetting, error) {
	var (
		query string
		arg   int64
	)
	switch scope {
	case domain.ScopeConsultant:
		query, arg = consultantSettingsSQL, r.session.ConsultantID
	case domain.ScopeBranch:
		query, arg = branchWideSettingsSQL, r.session.BranchID
	case domain.ScopeOffice:
		query, arg = officeWideSettingsSQL, r.session.OfficeID
	default:
		return nil, fmt.Errorf("unknown settings scope %q", scope)
	}

	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ConsultantSetting
	for rows.Next() {
		var email, marker sql.NullString
		if err := rows.Scan(&email, &marker); err != nil {
			return nil, err
		}
		out = append(out, domain.ConsultantSetting{Email: email.String, Marker: marker.String})
	}
	return out, rows.Err()
}

// ---- ReferenceLookup ----

func (r *Repo) SupplierIDFromCode(ctx context.Context, code string) (int64, error) {
	return r.scalarID(ctx, supplierIDSQL, code)
}

func (r *Repo) ProductIDFromCode(ctx context.Context, code string) (int64, error) {
	return r.scalarID(ctx, productIDSQL, code)
}

func (r *Repo) NextLocalSectorID(ctx context.Context, tripID string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, nextLocalSectorSQL, tripID).Scan(&id)
	return id, err
}

func (r *Repo) LeadPassengerID(ctx context.Context, tripID string) (int64, error) {
	return r.scalarID(ctx, leadPassengerSQL, tripID)
}

func (r *Repo) scalarID(ctx context.Context, query string, arg any) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, domain.ErrNotFound
	}
	return id, err
}

// ---- Persistence ----

func (r *Repo) InsertSector(ctx context.Context, s domain.Sector) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertSectorSQL,
		s.TripID, s.ProductID, s.SupplierID, s.ConsultantID, s.PassengerID, s.LocalSectorID,
		s.StatusID, s.ChargeTypeID, s.Qty,
		nullIfEmpty(s.TravelDate), nullIfEmpty(s.ReturnDate), nullIfEmpty(s.TicketDate),
		s.UnitPrice, s.Fees, s.Net, s.Total,
		s.GST, s.Commission, s.Discount, b2i(s.IsDiscountPerQty), s.FullFare, s.Markup,
		b2i(s.IsMarkupPerQty), s.FareOffered, s.PNRFees, s.PNRFeesGST, s.ConsolidatorFees,
		b2i(s.IsActive), b2i(s.IsClaimed), b2i(s.IsVaried), b2i(s.IsFee), b2i(s.IsLocked), b2i(s.IsQtyLocked),
		s.TaxCodeID, s.TaxesTaxCodeID, s.ReferenceNumber, s.Details,
		s.CodeVersion,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) InsertItinerary(ctx context.Context, it domain.Itinerary) error {
	_, err := r.db.ExecContext(ctx, insertItinerarySQL,
		it.TripID, it.TripSectorID, int64(it.TypeID), it.SubType, it.ProductID,
		it.SegName, it.ClassType,
		nullIfEmpty(it.StartDate), valStr(it.StartTime), nullIfEmpty(it.EndDate), valStr(it.EndTime),
		it.StartLocation, it.EndLocation, it.StartPhoneNumber,
		it.Inclusions, valStr(it.CancellationPolicy), it.Notes,
	)
	return err
}

// ---- ImportLog ----

func (r *Repo) RecordFetch(ctx context.Context, e domain.ImportLogEntry) (int64, error) {
	snapshot, _ := json.Marshal(e.Snapshot)
	res, err := r.db.ExecContext(ctx, insertImportLogSQL,
		e.ItineraryNumber, r.session.OfficeID, r.session.ConsultantID, e.TripID,
		e.Request, e.Response, string(snapshot), string(e.Generation),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) RecordError(ctx context.Context, logID int64, tripID, message string) error {
	_, err := r.db.ExecContext(ctx, insertImportErrorSQL,
		r.session.OfficeID, r.session.ConsultantID, tripID, logID, message,
	)
	return err
}
