package suppliers

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/celebrelabs/celebre-backend/pkg/enums"
	pkgerrors "github.com/celebrelabs/celebre-backend/pkg/errors"
)

type stubSupplierStore struct {
	records map[string]*SupplierRecord
	err     error
	fetches int
}

func (s *stubSupplierStore) GetSupplier(ctx context.Context, supplierID string) (*SupplierRecord, error) {
	s.fetches++
	if s.err != nil {
		return nil, s.err
	}
	return s.records[supplierID], nil
}

func fullyEligibleRecord() *SupplierRecord {
	return &SupplierRecord{
		ID:             "sup-1",
		LifecycleState: strPtr("active"),
		Compliance:     &Compliance{PayoutsReady: true, KYCStatus: "verified"},
		Visibility:     &Visibility{IsListed: true},
		Blocks:         &Blocks{BookingsGlobally: false, ScheduledBlocks: []string{}},
		RateLimit:      &RateLimit{Exceeded: false},
	}
}

func newTestEngine(t *testing.T, store *stubSupplierStore, dates *stubBlockedDateStore) *Engine {
	t.Helper()
	if dates == nil {
		dates = &stubBlockedDateStore{}
	}
	dateResolver, err := NewDateBlockResolver(dates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	engine, err := NewEngine(store, NewFieldResolver(nil), dateResolver, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return engine
}

func TestIsSupplierBookableFullyEligible(t *testing.T) {
	store := &stubSupplierStore{records: map[string]*SupplierRecord{"sup-1": fullyEligibleRecord()}}
	engine := newTestEngine(t, store, nil)

	result, err := engine.IsSupplierBookable(context.Background(), "sup-1", "2025-06-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Eligible {
		t.Fatalf("expected eligible, reasons=%v", result.Reasons)
	}
	if len(result.Reasons) != 0 {
		t.Fatalf("expected no reasons, got %v", result.Reasons)
	}
	if result.UIState != enums.UIStateBookable {
		t.Fatalf("expected bookable, got %s", result.UIState)
	}
	if result.Debug == nil || result.Debug.Facts.UsedMigration {
		t.Fatalf("expected debug info without migration fallback, got %+v", result.Debug)
	}
}

func TestIsSupplierBookableScheduledBlockWinsClassification(t *testing.T) {
	rec := fullyEligibleRecord()
	rec.Blocks.ScheduledBlocks = []string{"2025-06-15"}
	store := &stubSupplierStore{records: map[string]*SupplierRecord{"sup-1": rec}}
	engine := newTestEngine(t, store, nil)

	result, err := engine.IsSupplierBookable(context.Background(), "sup-1", "2025-06-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Eligible {
		t.Fatalf("expected ineligible")
	}
	if result.UIState != enums.UIStateDateUnavailable {
		t.Fatalf("expected date_unavailable, got %s", result.UIState)
	}
	if len(result.Reasons) != 1 || result.Reasons[0] != MsgDateUnavailable {
		t.Fatalf("expected single date reason, got %v", result.Reasons)
	}
}

func TestIsSupplierBookableDatePrecedenceOverOtherFailures(t *testing.T) {
	rec := fullyEligibleRecord()
	rec.Visibility.IsListed = false
	rec.Blocks.ScheduledBlocks = []string{"2025-06-15"}
	store := &stubSupplierStore{records: map[string]*SupplierRecord{"sup-1": rec}}
	engine := newTestEngine(t, store, nil)

	result, err := engine.IsSupplierBookable(context.Background(), "sup-1", "2025-06-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.UIState != enums.UIStateDateUnavailable {
		t.Fatalf("date block must win classification even with other failures, got %s", result.UIState)
	}
	if len(result.Reasons) != 2 {
		t.Fatalf("expected both reasons collected, got %v", result.Reasons)
	}
}

func TestIsSupplierBookableLegacyActiveSupplier(t *testing.T) {
	rec := &SupplierRecord{ID: "sup-1", Status: strPtr("active"), IsActive: boolPtr(true)}
	store := &stubSupplierStore{records: map[string]*SupplierRecord{"sup-1": rec}}
	engine := newTestEngine(t, store, nil)

	result, err := engine.IsSupplierBookable(context.Background(), "sup-1", "2025-06-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Eligible {
		t.Fatalf("legacy active supplier should be eligible, reasons=%v", result.Reasons)
	}
	if !result.Debug.Facts.UsedMigration {
		t.Fatalf("expected migration fallback flagged in debug info")
	}
}

func TestIsSupplierBookableMigratedRecordMissingGroupsHardDenies(t *testing.T) {
	rec := &SupplierRecord{ID: "sup-1", LifecycleState: strPtr("active")}
	store := &stubSupplierStore{records: map[string]*SupplierRecord{"sup-1": rec}}
	engine := newTestEngine(t, store, nil)

	result, err := engine.IsSupplierBookable(context.Background(), "sup-1", "2025-06-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Eligible {
		t.Fatalf("hard-deny defaults must make the record ineligible")
	}
	if len(result.Reasons) < 5 {
		t.Fatalf("expected at least 5 reasons, got %v", result.Reasons)
	}
	if result.UIState != enums.UIStateNotBookable {
		t.Fatalf("expected not_bookable, got %s", result.UIState)
	}
}

func TestIsSupplierBookableIdentityQuirkSingleMessage(t *testing.T) {
	// Both identity verification and KYC unverified: only the KYC reason is
	// reported, pinning the known undercount.
	rec := fullyEligibleRecord()
	rec.Compliance.KYCStatus = "pending"
	rec.IdentityVerificationStatus = strPtr("pending")
	store := &stubSupplierStore{records: map[string]*SupplierRecord{"sup-1": rec}}
	engine := newTestEngine(t, store, nil)

	result, err := engine.IsSupplierBookable(context.Background(), "sup-1", "2025-06-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(result.Reasons, []string{MsgKYCNotVerified}) {
		t.Fatalf("expected single KYC reason, got %v", result.Reasons)
	}

	// KYC verified but identity pending: the identity reason fires.
	rec = fullyEligibleRecord()
	rec.IdentityVerificationStatus = strPtr("pending")
	store = &stubSupplierStore{records: map[string]*SupplierRecord{"sup-1": rec}}
	engine = newTestEngine(t, store, nil)

	result, err = engine.IsSupplierBookable(context.Background(), "sup-1", "2025-06-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(result.Reasons, []string{MsgIdentityPending}) {
		t.Fatalf("expected identity reason, got %v", result.Reasons)
	}
}

func TestIsSupplierBookableAccountStatusGate(t *testing.T) {
	rec := fullyEligibleRecord()
	rec.AccountStatus = strPtr("onboarding")
	store := &stubSupplierStore{records: map[string]*SupplierRecord{"sup-1": rec}}
	engine := newTestEngine(t, store, nil)

	result, err := engine.IsSupplierBookable(context.Background(), "sup-1", "2025-06-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(result.Reasons, []string{MsgOnboardingIncomplete}) {
		t.Fatalf("expected onboarding reason, got %v", result.Reasons)
	}

	rec = fullyEligibleRecord()
	rec.AccountStatus = strPtr("active")
	store = &stubSupplierStore{records: map[string]*SupplierRecord{"sup-1": rec}}
	engine = newTestEngine(t, store, nil)
	result, _ = engine.IsSupplierBookable(context.Background(), "sup-1", "2025-06-15")
	if !result.Eligible {
		t.Fatalf("accountStatus=active should pass, reasons=%v", result.Reasons)
	}
}

func TestIsSupplierBookableUnknownLifecycleGenericMessage(t *testing.T) {
	rec := fullyEligibleRecord()
	rec.LifecycleState = strPtr("limbo")
	store := &stubSupplierStore{records: map[string]*SupplierRecord{"sup-1": rec}}
	engine := newTestEngine(t, store, nil)

	result, err := engine.IsSupplierBookable(context.Background(), "sup-1", "2025-06-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(result.Reasons, []string{MsgSupplierUnavailable}) {
		t.Fatalf("expected generic unavailable reason, got %v", result.Reasons)
	}
}

func TestIsSupplierBookableNotFoundIsVerdictNotError(t *testing.T) {
	store := &stubSupplierStore{records: map[string]*SupplierRecord{}}
	engine := newTestEngine(t, store, nil)

	result, err := engine.IsSupplierBookable(context.Background(), "missing", "2025-06-15")
	if err != nil {
		t.Fatalf("not-found must not be an error: %v", err)
	}
	if result.Eligible || result.UIState != enums.UIStateNotBookable {
		t.Fatalf("unexpected verdict %+v", result)
	}
	if !reflect.DeepEqual(result.Reasons, []string{MsgSupplierNotFound}) {
		t.Fatalf("expected not-found reason, got %v", result.Reasons)
	}
	if result.Debug != nil {
		t.Fatalf("not-found branch must not carry debug info")
	}
}

func TestIsSupplierBookableStorageErrorPropagates(t *testing.T) {
	store := &stubSupplierStore{err: errors.New("socket closed")}
	engine := newTestEngine(t, store, nil)

	_, err := engine.IsSupplierBookable(context.Background(), "sup-1", "2025-06-15")
	if err == nil {
		t.Fatalf("expected infrastructure error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestIsSupplierBookableValidatesInput(t *testing.T) {
	engine := newTestEngine(t, &stubSupplierStore{}, nil)

	if _, err := engine.IsSupplierBookable(context.Background(), "  ", "2025-06-15"); err == nil {
		t.Fatalf("expected validation error for empty supplier id")
	}
	if _, err := engine.IsSupplierBookable(context.Background(), "sup-1", "junk"); err == nil {
		t.Fatalf("expected validation error for malformed date")
	}
}

func TestIsSupplierBookableIdempotent(t *testing.T) {
	rec := fullyEligibleRecord()
	rec.Visibility.IsListed = false
	store := &stubSupplierStore{records: map[string]*SupplierRecord{"sup-1": rec}}
	engine := newTestEngine(t, store, nil)

	first, err := engine.IsSupplierBookable(context.Background(), "sup-1", "2025-06-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := engine.IsSupplierBookable(context.Background(), "sup-1", "2025-06-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated evaluations must be identical:\n%+v\n%+v", first, second)
	}
	if store.fetches != 2 {
		t.Fatalf("each call must re-fetch; got %d fetches", store.fetches)
	}
}
