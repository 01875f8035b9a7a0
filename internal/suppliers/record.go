package suppliers

// SupplierRecord mirrors the supplier document. Authoritative fact groups are
// pointers so a missing group is distinguishable from a present-but-false one;
// that distinction drives the hard-deny policy in the field resolver.
type SupplierRecord struct {
	ID string `firestore:"-" json:"id"`

	LifecycleState *string     `firestore:"lifecycle_state" json:"lifecycle_state,omitempty"`
	Compliance     *Compliance `firestore:"compliance" json:"compliance,omitempty"`
	Visibility     *Visibility `firestore:"visibility" json:"visibility,omitempty"`
	Blocks         *Blocks     `firestore:"blocks" json:"blocks,omitempty"`
	RateLimit      *RateLimit  `firestore:"rate_limit" json:"rate_limit,omitempty"`

	IdentityVerificationStatus *string `firestore:"identityVerificationStatus" json:"identity_verification_status,omitempty"`
	AccountStatus              *string `firestore:"accountStatus" json:"account_status,omitempty"`

	// Pre-migration fields, consulted only when lifecycle_state is absent.
	Status              *string `firestore:"status" json:"status,omitempty"`
	IsActive            *bool   `firestore:"isActive" json:"is_active,omitempty"`
	AcceptingBookings   *bool   `firestore:"acceptingBookings" json:"accepting_bookings,omitempty"`
	AvailabilityEnabled *bool   `firestore:"availabilityEnabled" json:"availability_enabled,omitempty"`
}

type Compliance struct {
	PayoutsReady bool   `firestore:"payouts_ready" json:"payouts_ready"`
	KYCStatus    string `firestore:"kyc_status" json:"kyc_status"`
}

type Visibility struct {
	IsListed bool `firestore:"is_listed" json:"is_listed"`
}

type Blocks struct {
	BookingsGlobally bool     `firestore:"bookings_globally" json:"bookings_globally"`
	ScheduledBlocks  []string `firestore:"scheduled_blocks" json:"scheduled_blocks"`
}

type RateLimit struct {
	Exceeded bool `firestore:"exceeded" json:"exceeded"`
}

// Migrated reports whether the record carries the new lifecycle_state field.
// Presence of lifecycle_state is the authority rule: a migrated record never
// falls back to legacy fields, no matter what else is missing.
func (r *SupplierRecord) Migrated() bool {
	return r != nil && r.LifecycleState != nil
}

// MissingAuthoritativeGroups lists the authoritative fact groups absent from a
// migrated record. Legacy records return nil since absence is expected there.
func (r *SupplierRecord) MissingAuthoritativeGroups() []string {
	if !r.Migrated() {
		return nil
	}
	var missing []string
	if r.Compliance == nil {
		missing = append(missing, "compliance")
	}
	if r.Visibility == nil {
		missing = append(missing, "visibility")
	}
	if r.Blocks == nil {
		missing = append(missing, "blocks")
	}
	if r.RateLimit == nil {
		missing = append(missing, "rate_limit")
	}
	return missing
}
