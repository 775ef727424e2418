package app_test

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/UmairArshadShk/ExpediaIntegration/internal/domain"
)

// ---- fakes shared by the app tests ----

type fakeStore struct {
	rows       []domain.GatewaySettings
	creds      map[string]domain.Credentials // "<gen>:<country>"
	consultant map[domain.SettingsScope][]domain.ConsultantSetting

	gatewayCalls int
	credLookups  []string
}

func (f *fakeStore) GatewaySettings(ctx context.Context) ([]domain.GatewaySettings, error) {
	f.gatewayCalls++
	return f.rows, nil
}

func (f *fakeStore) APICredentials(ctx context.Context, gen domain.Generation, country string) (domain.Credentials, error) {
	key := string(gen) + ":" + country
	f.credLookups = append(f.credLookups, key)
	c, ok := f.creds[key]
	if !ok {
		return domain.Credentials{}, domain.ErrNotFound
	}
	return c, nil
}

func (f *fakeStore) ConsultantSettings(ctx context.Context, scope domain.SettingsScope) ([]domain.ConsultantSetting, error) {
	return f.consultant[scope], nil
}

type fakeLookup struct {
	suppliers     map[string]int64
	products      map[string]int64
	leadPassenger int64
	nextSector    int64
	sectorCalls   int
}

func (f *fakeLookup) SupplierIDFromCode(ctx context.Context, code string) (int64, error) {
	if id, ok := f.suppliers[code]; ok {
		return id, nil
	}
	return 0, domain.ErrNotFound
}

func (f *fakeLookup) ProductIDFromCode(ctx context.Context, code string) (int64, error) {
	if id, ok := f.products[code]; ok {
		return id, nil
	}
	return 0, domain.ErrNotFound
}

func (f *fakeLookup) NextLocalSectorID(ctx context.Context, tripID string) (int64, error) {
	f.sectorCalls++
	f.nextSector++
	return f.nextSector, nil
}

func (f *fakeLookup) LeadPassengerID(ctx context.Context, tripID string) (int64, error) {
	if f.leadPassenger == 0 {
		return 0, domain.ErrNotFound
	}
	return f.leadPassenger, nil
}

type fakePersistence struct {
	sectors     []domain.Sector
	itineraries []domain.Itinerary
	nextID      int64
	failSector  bool
}

func (f *fakePersistence) InsertSector(ctx context.Context, s domain.Sector) (int64, error) {
	if f.failSector {
		return 0, fmt.Errorf("insert rejected")
	}
	f.nextID++
	f.sectors = append(f.sectors, s)
	return 100 + f.nextID, nil
}

func (f *fakePersistence) InsertItinerary(ctx context.Context, it domain.Itinerary) error {
	f.itineraries = append(f.itineraries, it)
	return nil
}

// fakeFetcher counts invocations and replays a canned outcome.
type fakeFetcher struct {
	outcome domain.FetchOutcome
	calls   int
}

func (f *fakeFetcher) Fetch(ctx context.Context, ictx domain.ImportContext, itineraryID, email string) domain.FetchOutcome {
	f.calls++
	return f.outcome
}

// fakeCache round-trips through JSON so it behaves like the real adapter.
type fakeCache struct {
	store map[string][]byte
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

// ---- tiny helpers ----

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func mustDecode(t interface{ Fatalf(string, ...any) }, raw string) map[string]any {
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	return m
}
