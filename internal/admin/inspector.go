package admin

import (
	"context"
	"strings"
	"time"

	"github.com/celebrelabs/celebre-backend/internal/suppliers"
	"github.com/celebrelabs/celebre-backend/pkg/audit"
	pkgerrors "github.com/celebrelabs/celebre-backend/pkg/errors"
	"github.com/celebrelabs/celebre-backend/pkg/identity"
	"github.com/celebrelabs/celebre-backend/pkg/logger"
)

// checkReasonCode maps a failed check identifier to its stable reason code.
// Order is fixed: diagnostic output lists checks in evaluation order.
type checkReasonCode struct {
	check string
	code  string
}

var checkReasonCodes = []checkReasonCode{
	{"lifecycle_state_active", "LIFECYCLE_NOT_ACTIVE"},
	{"compliance_payouts_ready", "PAYOUTS_NOT_READY"},
	{"compliance_kyc_verified", "KYC_NOT_VERIFIED"},
	{"visibility_is_listed", "NOT_LISTED"},
	{"blocks_globally_off", "BOOKINGS_GLOBALLY_BLOCKED"},
	{"date_available", "DATE_BLOCKED"},
	{"rate_limit_not_exceeded", "RATE_LIMIT_EXCEEDED"},
}

// RawFields reports which source fields the supplier document actually
// carries, so an operator can see what the resolver had to work with.
type RawFields struct {
	HasLifecycleState             bool `json:"has_lifecycle_state"`
	HasCompliance                 bool `json:"has_compliance"`
	HasVisibility                 bool `json:"has_visibility"`
	HasBlocks                     bool `json:"has_blocks"`
	HasRateLimit                  bool `json:"has_rate_limit"`
	HasIdentityVerificationStatus bool `json:"has_identity_verification_status"`
	HasAccountStatus              bool `json:"has_account_status"`
	HasLegacyStatus               bool `json:"has_legacy_status"`
	HasLegacyIsActive             bool `json:"has_legacy_is_active"`
}

// InspectResult is the diagnostic view of one eligibility evaluation.
type InspectResult struct {
	SupplierID         string               `json:"supplier_id"`
	EventDate          string               `json:"event_date"`
	Eligible           bool                 `json:"eligible"`
	UIState            string               `json:"ui_state"`
	Reasons            []string             `json:"reasons"`
	LifecycleState     string               `json:"resolved_lifecycle_state"`
	FailedChecks       []string             `json:"failed_checks"`
	ReasonCodes        []string             `json:"reason_codes"`
	RawFields          RawFields            `json:"raw_fields"`
	UsedLegacyFallback bool                 `json:"used_legacy_fallback"`
	Debug              *suppliers.DebugInfo `json:"debug_info,omitempty"`
}

// Inspector runs the eligibility engine on behalf of an operator and exposes
// the full resolution trace. It never writes; repeated inspections of the
// same supplier leave the store untouched.
type Inspector struct {
	authorizer *Authorizer
	store      suppliers.SupplierStore
	engine     *suppliers.Engine
	auditor    *audit.Recorder
	logg       *logger.Logger
	now        func() time.Time
}

func NewInspector(authorizer *Authorizer, store suppliers.SupplierStore, engine *suppliers.Engine, auditor *audit.Recorder, logg *logger.Logger) *Inspector {
	return &Inspector{
		authorizer: authorizer,
		store:      store,
		engine:     engine,
		auditor:    auditor,
		logg:       logg,
		now:        time.Now,
	}
}

// Inspect evaluates the gate for one supplier and renders the diagnostic
// view. Unlike the booking path, an absent supplier is an error here.
func (i *Inspector) Inspect(ctx context.Context, caller *identity.Token, supplierID, eventDate string) (*InspectResult, error) {
	if err := i.authorizer.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}
	if strings.TrimSpace(supplierID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier_id is required")
	}
	if eventDate == "" {
		eventDate = i.now().UTC().Format("2006-01-02")
	}

	rec, err := i.store.GetSupplier(ctx, supplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch supplier")
	}
	if rec == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
	}

	verdict, err := i.engine.IsSupplierBookable(ctx, supplierID, eventDate)
	if err != nil {
		return nil, err
	}

	result := &InspectResult{
		SupplierID: supplierID,
		EventDate:  eventDate,
		Eligible:   verdict.Eligible,
		UIState:    string(verdict.UIState),
		Reasons:    verdict.Reasons,
		RawFields:  rawFieldsOf(rec),
		Debug:      verdict.Debug,
	}

	if verdict.Debug == nil {
		result.LifecycleState = "unknown"
		result.FailedChecks = []string{"unknown"}
		result.ReasonCodes = []string{"UNKNOWN"}
	} else {
		result.LifecycleState = string(verdict.Debug.Facts.Lifecycle)
		result.UsedLegacyFallback = verdict.Debug.Facts.UsedMigration
		result.FailedChecks, result.ReasonCodes = failedChecksOf(verdict.Debug.Checks)
	}

	if !verdict.Eligible && rec.Migrated() {
		if missing := rec.MissingAuthoritativeGroups(); len(missing) > 0 && i.logg != nil {
			lctx := i.logg.WithSupplierID(ctx, supplierID)
			lctx = i.logg.WithField(lctx, "missing_groups", missing)
			i.logg.Warn(lctx, "admin.inspect.missing_authoritative_fields")
		}
	}

	if i.auditor != nil {
		i.auditor.Record(ctx, audit.Event{
			Action:     "admin.inspect",
			CallerUID:  caller.UID,
			SupplierID: supplierID,
			Outcome:    "ok",
			Details:    map[string]any{"eligible": verdict.Eligible, "event_date": eventDate},
			At:         i.now().UTC(),
		})
	}
	return result, nil
}

// failedChecksOf renders the failing checks and their reason codes, in table
// order, de-duplicated while preserving first occurrence.
func failedChecksOf(checks suppliers.DebugChecks) ([]string, []string) {
	passed := map[string]bool{
		"lifecycle_state_active":   checks.LifecycleStateActive,
		"compliance_payouts_ready": checks.CompliancePayoutsReady,
		"compliance_kyc_verified":  checks.ComplianceKYCVerified,
		"visibility_is_listed":     checks.VisibilityIsListed,
		"blocks_globally_off":      checks.BlocksGloballyOff,
		"date_available":           checks.DateAvailable,
		"rate_limit_not_exceeded":  checks.RateLimitNotExceeded,
	}

	failed := make([]string, 0, len(checkReasonCodes))
	codes := make([]string, 0, len(checkReasonCodes))
	seen := make(map[string]bool, len(checkReasonCodes))
	for _, entry := range checkReasonCodes {
		if passed[entry.check] || seen[entry.check] {
			continue
		}
		seen[entry.check] = true
		failed = append(failed, entry.check)
		codes = append(codes, entry.code)
	}
	return failed, codes
}

func rawFieldsOf(rec *suppliers.SupplierRecord) RawFields {
	return RawFields{
		HasLifecycleState:             rec.LifecycleState != nil,
		HasCompliance:                 rec.Compliance != nil,
		HasVisibility:                 rec.Visibility != nil,
		HasBlocks:                     rec.Blocks != nil,
		HasRateLimit:                  rec.RateLimit != nil,
		HasIdentityVerificationStatus: rec.IdentityVerificationStatus != nil,
		HasAccountStatus:              rec.AccountStatus != nil,
		HasLegacyStatus:               rec.Status != nil,
		HasLegacyIsActive:             rec.IsActive != nil,
	}
}
