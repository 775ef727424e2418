package app

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/UmairArshadShk/ExpediaIntegration/internal/domain"
)

// ResolvedSettings is the outcome of one settings resolution pass. Blocked
// means the fetch must not be attempted (no trip, or the branch gateway
// configuration is absent or ambiguous); all other problems only accumulate
// in Diagnostics and leave the run free to try whatever resolved.
type ResolvedSettings struct {
	Context     domain.ImportContext
	Credentials map[domain.Generation]domain.Credentials
	Diagnostics []string
	Blocked     bool
}

// SettingsResolver validates branch/consultant gateway configuration and
// assembles the ImportContext for a run. It collects every missing-config
// diagnostic in one pass rather than failing on the first.
type SettingsResolver struct {
	store    domain.SettingsStore
	lookup   domain.ReferenceLookup
	enableV1 bool
}

func NewSettingsResolver(store domain.SettingsStore, lookup domain.ReferenceLookup, enableV1 bool) *SettingsResolver {
	return &SettingsResolver{store: store, lookup: lookup, enableV1: enableV1}
}

func (r *SettingsResolver) Resolve(ctx context.Context, req ImportRequest) ResolvedSettings {
	res := ResolvedSettings{
		Credentials: make(map[domain.Generation]domain.Credentials, 2),
	}

	if req.TripID == "" {
		res.Blocked = true
		res.Diagnostics = append(res.Diagnostics, "Failed to pass through the tripID")
		return res
	}

	ictx := domain.ImportContext{
		TripID:      req.TripID,
		ProductID:   req.ProductID,
		SupplierID:  req.SupplierID,
		PassengerID: req.PassengerID,
		Country:     "AU",
		Debug:       req.Debug,
	}

	rows, err := r.store.GatewaySettings(ctx)
	if err != nil {
		res.Blocked = true
		res.Diagnostics = append(res.Diagnostics, "Failed to read the branch expedia settings")
		log.Error().Err(err).Msg("gateway settings query failed")
		res.Context = ictx
		return res
	}
	switch {
	case len(rows) == 0:
		res.Blocked = true
		res.Diagnostics = append(res.Diagnostics, "No Settings exist for Expedia (No settings for expedia have been entered for this branch)")
		res.Context = ictx
		return res
	case len(rows) > 1:
		res.Blocked = true
		res.Diagnostics = append(res.Diagnostics, "Unable to determine the branch expedia settings (Too many expedia branch configurations)")
		res.Context = ictx
		return res
	}
	info := rows[0]

	if info.Country != "" {
		ictx.Country = strings.ToUpper(info.Country)
	}

	r.resolveCredentials(ctx, ictx.Country, &res)
	r.resolveConfigs(ctx, info, &ictx, &res)
	r.resolveEmails(ctx, info, &ictx, &res)

	res.Context = ictx
	return res
}

// resolveCredentials looks up the key/secret pair for each enabled
// generation. A missing row is a diagnostic, not a blocker: the run still
// attempts whatever generations resolved.
func (r *SettingsResolver) resolveCredentials(ctx context.Context, country string, res *ResolvedSettings) {
	gens := []domain.Generation{domain.GenerationV2}
	if r.enableV1 {
		gens = append(gens, domain.GenerationV1)
	}
	for _, gen := range gens {
		c, err := r.store.APICredentials(ctx, gen, country)
		if err != nil || !c.Usable() {
			res.Diagnostics = append(res.Diagnostics, "Missing Config - Invalid country code "+country)
			continue
		}
		res.Credentials[gen] = c
	}
}

func (r *SettingsResolver) resolveConfigs(ctx context.Context, info domain.GatewaySettings, ictx *domain.ImportContext, res *ResolvedSettings) {
	if info.MerchantID != "" {
		ictx.PartnerID = info.MerchantID
	} else {
		res.Diagnostics = append(res.Diagnostics, "Missing Config - Partner ID")
	}

	if info.Email != "" {
		ictx.BranchEmail = info.Email
		ictx.DefaultEmail = info.Email
		ictx.EmailList = append(ictx.EmailList, info.Email)
	} else {
		res.Diagnostics = append(res.Diagnostics, "Missing Config - Expedia Email")
	}

	// Explicitly supplied IDs win; otherwise resolve from the configured code.
	if ictx.SupplierID == 0 {
		if info.SupplierCode != "" {
			ictx.SupplierCode = info.SupplierCode
			id, err := r.lookup.SupplierIDFromCode(ctx, info.SupplierCode)
			if err != nil || id == 0 {
				res.Diagnostics = append(res.Diagnostics, "Missing Config - Supplier Code Invalid")
			} else {
				ictx.SupplierID = id
			}
		} else {
			res.Diagnostics = append(res.Diagnostics, "Missing Config - Supplier Code")
		}
	}

	if ictx.ProductID == 0 {
		if info.ProductCode != "" {
			ictx.ProductCode = info.ProductCode
			id, err := r.lookup.ProductIDFromCode(ctx, info.ProductCode)
			if err != nil || id == 0 {
				res.Diagnostics = append(res.Diagnostics, "Missing Config - Product Code Invalid")
			} else {
				ictx.ProductID = id
			}
		} else {
			res.Diagnostics = append(res.Diagnostics, "Missing Config - Product Code")
		}
	}
}

// resolveEmails merges consultant-level, branch-wide and office-wide
// notification rows into the email set. A consultant row marked DEFAULT
// nominates the default address; the last marked row wins.
func (r *SettingsResolver) resolveEmails(ctx context.Context, info domain.GatewaySettings, ictx *domain.ImportContext, res *ResolvedSettings) {
	consultant, err := r.store.ConsultantSettings(ctx, domain.ScopeConsultant)
	if err != nil {
		log.Warn().Err(err).Msg("consultant gateway settings query failed")
	}
	for _, row := range consultant {
		if strings.EqualFold(strings.TrimSpace(row.Marker), "DEFAULT") {
			ictx.DefaultEmail = row.Email
		}
		ictx.EmailList = append(ictx.EmailList, row.Email)
	}

	for _, scope := range []domain.SettingsScope{domain.ScopeBranch, domain.ScopeOffice} {
		rows, err := r.store.ConsultantSettings(ctx, scope)
		if err != nil {
			log.Warn().Err(err).Str("scope", string(scope)).Msg("gateway settings query failed")
			continue
		}
		for _, row := range rows {
			ictx.EmailList = append(ictx.EmailList, row.Email)
		}
	}

	ictx.EmailList = dedupe(ictx.EmailList)
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
