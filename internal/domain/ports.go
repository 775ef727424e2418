package domain

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// Transport performs a single authenticated call against the upstream API.
// It never interprets the response: a non-2xx status or garbled body is
// returned as-is for the caller to judge. The error covers network-level
// failures only (timeout, refused connection, cancelled context).
type Transport interface {
	Send(ctx context.Context, headers []string, url string) (request, response string, err error)
}

// GatewaySettings is one branch-level gateway configuration row.
type GatewaySettings struct {
	MerchantID   string
	Email        string
	SupplierCode string
	ProductCode  string
	Country      string
}

// SettingsScope selects which tier of consultant gateway settings to read.
type SettingsScope string

const (
	ScopeConsultant SettingsScope = "consultant"
	ScopeBranch     SettingsScope = "branch"
	ScopeOffice     SettingsScope = "office"
)

// ConsultantSetting is one notification email row. Marker is the raw tier
// marker column; a value of "DEFAULT" nominates the row's email as the
// default notification address.
type ConsultantSetting struct {
	Email  string
	Marker string
}

// SettingsStore reads branch/consultant/office gateway configuration.
type SettingsStore interface {
	GatewaySettings(ctx context.Context) ([]GatewaySettings, error)
	APICredentials(ctx context.Context, gen Generation, country string) (Credentials, error)
	ConsultantSettings(ctx context.Context, scope SettingsScope) ([]ConsultantSetting, error)
}

// ReferenceLookup resolves reference data owned by the surrounding system.
type ReferenceLookup interface {
	SupplierIDFromCode(ctx context.Context, code string) (int64, error)
	ProductIDFromCode(ctx context.Context, code string) (int64, error)
	NextLocalSectorID(ctx context.Context, tripID string) (int64, error)
	LeadPassengerID(ctx context.Context, tripID string) (int64, error)
}

// Persistence appends Sector and Itinerary facts to the ledger. InsertSector
// returns the new row identifier, which the paired Itinerary depends on.
type Persistence interface {
	InsertSector(ctx context.Context, s Sector) (int64, error)
	InsertItinerary(ctx context.Context, it Itinerary) error
}

// SettingsSnapshot is the configuration echo stored with each fetch log row.
type SettingsSnapshot struct {
	ProductID  int64    `json:"productID"`
	SupplierID int64    `json:"supplierID"`
	Emails     []string `json:"emails"`
}

// ImportLogEntry is one fetch attempt as recorded by the import log.
type ImportLogEntry struct {
	TripID          string
	ItineraryNumber string
	Generation      Generation
	Request         string
	Response        string
	Snapshot        SettingsSnapshot
}

// ImportLog records raw fetch attempts and per-error diagnostics.
type ImportLog interface {
	RecordFetch(ctx context.Context, e ImportLogEntry) (int64, error)
	RecordError(ctx context.Context, logID int64, tripID, message string) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
