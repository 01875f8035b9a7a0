package ratelimit

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/celebrelabs/celebre-backend/internal/admin"
	pkgerrors "github.com/celebrelabs/celebre-backend/pkg/errors"
	"github.com/celebrelabs/celebre-backend/pkg/identity"
)

type stubStore struct {
	records []Record
	err     error
	cutoffs []time.Time
}

func (s *stubStore) ScanSince(ctx context.Context, cutoff time.Time) ([]Record, error) {
	s.cutoffs = append(s.cutoffs, cutoff)
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

type allowAllMembership struct{}

func (allowAllMembership) IsAdminMember(ctx context.Context, uid string) (bool, error) {
	return true, nil
}

func (allowAllMembership) UserHasAdminFlag(ctx context.Context, uid string) (bool, error) {
	return false, nil
}

type denyAllMembership struct{}

func (denyAllMembership) IsAdminMember(ctx context.Context, uid string) (bool, error) {
	return false, nil
}

func (denyAllMembership) UserHasAdminFlag(ctx context.Context, uid string) (bool, error) {
	return false, nil
}

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestAggregator(store *stubStore, members admin.MembershipStore) *Aggregator {
	agg := NewAggregator(admin.NewAuthorizer(members, nil, nil), store, nil, nil)
	agg.now = func() time.Time { return fixedNow }
	return agg
}

func caller() *identity.Token { return &identity.Token{UID: "admin-1"} }

func TestExportTwoLimitedSubjects(t *testing.T) {
	store := &stubStore{records: []Record{
		{Subject: "user-a", Action: "booking.create", Count: 12, LastRequest: fixedNow.Add(-time.Hour)},
		{Subject: "user-b", Action: "booking.create", Count: 25, LastRequest: fixedNow.Add(-2 * time.Hour)},
	}}
	agg := newTestAggregator(store, allowAllMembership{})

	report, err := agg.Export(context.Background(), caller(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.HoursBack != 24 {
		t.Fatalf("expected default window, got %d", report.HoursBack)
	}
	if report.Totals.UniqueUsersLimited != 2 {
		t.Fatalf("expected 2 limited subjects, got %d", report.Totals.UniqueUsersLimited)
	}
	if report.Totals.TotalHits != 37 || report.Totals.ActiveRateLimits != 2 {
		t.Fatalf("unexpected totals %+v", report.Totals)
	}
	if len(report.ActionBreakdown) != 1 || report.ActionBreakdown[0].Action != "booking.create" {
		t.Fatalf("unexpected breakdown %+v", report.ActionBreakdown)
	}
	if report.ActionBreakdown[0].DistinctSubjects != 2 || report.ActionBreakdown[0].Limit != 10 {
		t.Fatalf("unexpected action stat %+v", report.ActionBreakdown[0])
	}
	if len(report.TopOffenders) != 2 || report.TopOffenders[0].Subject != "user-b" {
		t.Fatalf("offenders must sort by hits desc, got %+v", report.TopOffenders)
	}
}

func TestExportSkipsRecordsBelowLimit(t *testing.T) {
	store := &stubStore{records: []Record{
		{Subject: "user-a", Action: "booking.create", Count: 9, LastRequest: fixedNow},
		{Subject: "user-b", Action: "unknown.action", Count: 59, LastRequest: fixedNow},
		{Subject: "user-c", Action: "unknown.action", Count: 60, LastRequest: fixedNow},
	}}
	agg := newTestAggregator(store, allowAllMembership{})

	report, err := agg.Export(context.Background(), caller(), 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Only user-c reaches the default ceiling of 60.
	if report.Totals.UniqueUsersLimited != 1 || report.TopOffenders[0].Subject != "user-c" {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestExportClampsWindow(t *testing.T) {
	store := &stubStore{}
	agg := newTestAggregator(store, allowAllMembership{})

	cases := []struct {
		in   int
		want int
	}{
		{0, 24},
		{-5, 1},
		{1, 1},
		{168, 168},
		{500, 168},
	}
	for _, tc := range cases {
		report, err := agg.Export(context.Background(), caller(), tc.in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.HoursBack != tc.want {
			t.Fatalf("hoursBack %d: got %d, want %d", tc.in, report.HoursBack, tc.want)
		}
		wantCutoff := fixedNow.Add(-time.Duration(tc.want) * time.Hour)
		if !report.Cutoff.Equal(wantCutoff) {
			t.Fatalf("hoursBack %d: cutoff %v, want %v", tc.in, report.Cutoff, wantCutoff)
		}
	}
}

func TestExportHourlyTrendSortedAscending(t *testing.T) {
	store := &stubStore{records: []Record{
		{Subject: "a", Action: "booking.create", Count: 10, LastRequest: fixedNow.Add(-time.Hour)},
		{Subject: "b", Action: "booking.create", Count: 10, LastRequest: fixedNow.Add(-3 * time.Hour)},
		{Subject: "c", Action: "booking.create", Count: 10, LastRequest: fixedNow.Add(-3*time.Hour + 10*time.Minute)},
	}}
	agg := newTestAggregator(store, allowAllMembership{})

	report, err := agg.Export(context.Background(), caller(), 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []HourlyBucket{
		{Hour: "2025-06-15T09:00Z", Hits: 20},
		{Hour: "2025-06-15T11:00Z", Hits: 10},
	}
	if !reflect.DeepEqual(report.HourlyTrend, want) {
		t.Fatalf("trend %+v, want %+v", report.HourlyTrend, want)
	}
}

func TestExportTruncatesOffendersToTen(t *testing.T) {
	var records []Record
	for i := 0; i < 15; i++ {
		records = append(records, Record{
			Subject:     string(rune('a' + i)),
			Action:      "booking.create",
			Count:       10 + i,
			LastRequest: fixedNow,
		})
	}
	agg := newTestAggregator(&stubStore{records: records}, allowAllMembership{})

	report, err := agg.Export(context.Background(), caller(), 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.TopOffenders) != 10 {
		t.Fatalf("expected 10 offenders, got %d", len(report.TopOffenders))
	}
	if report.Totals.UniqueUsersLimited != 15 {
		t.Fatalf("totals must count all subjects, got %d", report.Totals.UniqueUsersLimited)
	}
	if report.TopOffenders[0].Hits != 24 {
		t.Fatalf("expected the heaviest offender first, got %+v", report.TopOffenders[0])
	}
}

func TestExportRequiresAdmin(t *testing.T) {
	store := &stubStore{}
	agg := newTestAggregator(store, denyAllMembership{})

	_, err := agg.Export(context.Background(), caller(), 24)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(store.cutoffs) != 0 {
		t.Fatalf("denied caller must not trigger a scan")
	}
}

func TestExportScanErrorPropagates(t *testing.T) {
	agg := newTestAggregator(&stubStore{err: errors.New("unavailable")}, allowAllMembership{})

	_, err := agg.Export(context.Background(), caller(), 24)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestFormatWindow(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{30 * time.Second, "30 segundos"},
		{5 * time.Minute, "5 minutos"},
		{time.Hour, "1 hora"},
		{6 * time.Hour, "6 horas"},
		{24 * time.Hour, "1 dia"},
		{72 * time.Hour, "3 dias"},
	}
	for _, tc := range cases {
		if got := FormatWindow(tc.in); got != tc.want {
			t.Fatalf("FormatWindow(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
