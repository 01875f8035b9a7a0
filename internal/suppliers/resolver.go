package suppliers

import (
	"context"

	"github.com/celebrelabs/celebre-backend/pkg/enums"
	"github.com/celebrelabs/celebre-backend/pkg/logger"
)

// ResolutionSource tags how a fact group was obtained.
type ResolutionSource string

const (
	// ResolutionAuthoritative means the group was present on the record and used verbatim.
	ResolutionAuthoritative ResolutionSource = "authoritative"
	// ResolutionHardDeny means a migrated record was missing the group and the
	// fixed restrictive default was substituted. Fail closed, never open.
	ResolutionHardDeny ResolutionSource = "hard_deny_default"
	// ResolutionLegacy means the record is unmigrated and the group was derived
	// from pre-migration fields.
	ResolutionLegacy ResolutionSource = "legacy_derived"
)

type ComplianceFacts struct {
	PayoutsReady bool            `json:"payouts_ready"`
	KYCStatus    enums.KYCStatus `json:"kyc_status"`
}

type VisibilityFacts struct {
	IsListed bool `json:"is_listed"`
}

type BlockFacts struct {
	BookingsGlobally bool     `json:"bookings_globally"`
	ScheduledBlocks  []string `json:"scheduled_blocks"`
}

type RateLimitFacts struct {
	Exceeded bool `json:"exceeded"`
}

// ResolvedFacts is the full output of field resolution for one supplier record.
type ResolvedFacts struct {
	Lifecycle enums.LifecycleState `json:"lifecycle_state"`

	Compliance       ComplianceFacts  `json:"compliance"`
	ComplianceSource ResolutionSource `json:"compliance_source"`
	Visibility       VisibilityFacts  `json:"visibility"`
	VisibilitySource ResolutionSource `json:"visibility_source"`
	Blocks           BlockFacts       `json:"blocks"`
	BlocksSource     ResolutionSource `json:"blocks_source"`
	RateLimit        RateLimitFacts   `json:"rate_limit"`
	RateLimitSource  ResolutionSource `json:"rate_limit_source"`

	// UsedMigration is true when the record is unmigrated and legacy derivation ran.
	UsedMigration bool `json:"used_migration"`
}

// MigrateLifecycleState maps any supplier record to a lifecycle state. Total:
// every input has a defined output, including records with no state fields at all.
func MigrateLifecycleState(rec *SupplierRecord) enums.LifecycleState {
	if rec == nil {
		return enums.LifecycleStateDraft
	}
	// A present lifecycle_state is returned verbatim, even when out of enum;
	// the gate fails unknown states with a generic message rather than coercing.
	if rec.LifecycleState != nil {
		return enums.LifecycleState(*rec.LifecycleState)
	}
	// Supplier-initiated pause wins over whatever the legacy status says.
	if rec.IsActive != nil && !*rec.IsActive {
		return enums.LifecycleStatePausedBySupplier
	}
	status := ""
	if rec.Status != nil {
		status = *rec.Status
	}
	state, _ := enums.LifecycleStateFromLegacyStatus(status)
	return state
}

// ResolveCompliance applies the authoritative / hard-deny / legacy policy to the
// compliance group.
func ResolveCompliance(rec *SupplierRecord) (ComplianceFacts, ResolutionSource) {
	if rec != nil && rec.Compliance != nil {
		kyc, err := enums.ParseKYCStatus(rec.Compliance.KYCStatus)
		if err != nil {
			kyc = enums.KYCStatusNotStarted
		}
		return ComplianceFacts{PayoutsReady: rec.Compliance.PayoutsReady, KYCStatus: kyc}, ResolutionAuthoritative
	}
	if rec.Migrated() {
		return ComplianceFacts{PayoutsReady: false, KYCStatus: enums.KYCStatusNotStarted}, ResolutionHardDeny
	}
	if legacyApproved(rec) {
		return ComplianceFacts{PayoutsReady: true, KYCStatus: enums.KYCStatusVerified}, ResolutionLegacy
	}
	return ComplianceFacts{PayoutsReady: false, KYCStatus: enums.KYCStatusNotStarted}, ResolutionLegacy
}

// ResolveVisibility applies the policy to the visibility group.
func ResolveVisibility(rec *SupplierRecord) (VisibilityFacts, ResolutionSource) {
	if rec != nil && rec.Visibility != nil {
		return VisibilityFacts{IsListed: rec.Visibility.IsListed}, ResolutionAuthoritative
	}
	if rec.Migrated() {
		return VisibilityFacts{IsListed: false}, ResolutionHardDeny
	}
	// Legacy suppliers default to listed unless availability was explicitly disabled.
	listed := rec == nil || rec.AvailabilityEnabled == nil || *rec.AvailabilityEnabled
	return VisibilityFacts{IsListed: listed}, ResolutionLegacy
}

// ResolveBlocks applies the policy to the blocks group.
func ResolveBlocks(rec *SupplierRecord) (BlockFacts, ResolutionSource) {
	if rec != nil && rec.Blocks != nil {
		scheduled := rec.Blocks.ScheduledBlocks
		if scheduled == nil {
			scheduled = []string{}
		}
		return BlockFacts{BookingsGlobally: rec.Blocks.BookingsGlobally, ScheduledBlocks: scheduled}, ResolutionAuthoritative
	}
	if rec.Migrated() {
		return BlockFacts{BookingsGlobally: true, ScheduledBlocks: []string{}}, ResolutionHardDeny
	}
	globally := rec != nil && rec.AcceptingBookings != nil && !*rec.AcceptingBookings
	return BlockFacts{BookingsGlobally: globally, ScheduledBlocks: []string{}}, ResolutionLegacy
}

// ResolveRateLimit applies the policy to the rate-limit group.
func ResolveRateLimit(rec *SupplierRecord) (RateLimitFacts, ResolutionSource) {
	if rec != nil && rec.RateLimit != nil {
		return RateLimitFacts{Exceeded: rec.RateLimit.Exceeded}, ResolutionAuthoritative
	}
	if rec.Migrated() {
		return RateLimitFacts{Exceeded: true}, ResolutionHardDeny
	}
	// Legacy suppliers are never rate-limited retroactively.
	return RateLimitFacts{Exceeded: false}, ResolutionLegacy
}

func legacyApproved(rec *SupplierRecord) bool {
	if rec == nil || rec.Status == nil {
		return false
	}
	state, known := enums.LifecycleStateFromLegacyStatus(*rec.Status)
	if !known || state != enums.LifecycleStateActive {
		return false
	}
	return rec.IsActive == nil || *rec.IsActive
}

// FieldResolver resolves all fact groups for a record and reports policy
// violations (missing authoritative groups on migrated records) to the log.
type FieldResolver struct {
	logg *logger.Logger
}

func NewFieldResolver(logg *logger.Logger) *FieldResolver {
	return &FieldResolver{logg: logg}
}

func (r *FieldResolver) Resolve(ctx context.Context, rec *SupplierRecord) ResolvedFacts {
	facts := ResolvedFacts{Lifecycle: MigrateLifecycleState(rec)}
	facts.Compliance, facts.ComplianceSource = ResolveCompliance(rec)
	facts.Visibility, facts.VisibilitySource = ResolveVisibility(rec)
	facts.Blocks, facts.BlocksSource = ResolveBlocks(rec)
	facts.RateLimit, facts.RateLimitSource = ResolveRateLimit(rec)
	facts.UsedMigration = !rec.Migrated()

	if r.logg != nil {
		if missing := rec.MissingAuthoritativeGroups(); len(missing) > 0 {
			logCtx := r.logg.WithFields(ctx, map[string]any{
				"supplier_id":    recordID(rec),
				"missing_groups": missing,
			})
			r.logg.Warn(logCtx, "supplier.resolution.policy_violation")
		} else if facts.UsedMigration {
			logCtx := r.logg.WithSupplierID(ctx, recordID(rec))
			r.logg.Debug(logCtx, "supplier.resolution.legacy_fallback")
		}
	}

	return facts
}

func recordID(rec *SupplierRecord) string {
	if rec == nil {
		return ""
	}
	return rec.ID
}
