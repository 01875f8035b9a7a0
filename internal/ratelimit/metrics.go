package ratelimit

import (
	"context"
	"sort"
	"time"

	"github.com/celebrelabs/celebre-backend/internal/admin"
	"github.com/celebrelabs/celebre-backend/pkg/audit"
	pkgerrors "github.com/celebrelabs/celebre-backend/pkg/errors"
	"github.com/celebrelabs/celebre-backend/pkg/identity"
	"github.com/celebrelabs/celebre-backend/pkg/logger"
)

const (
	defaultHoursBack = 24
	maxHoursBack     = 168
	minHoursBack     = 1

	exportTimeout = 30 * time.Second

	hourBucketLayout = "2006-01-02T15:00Z"
	topOffenderCap   = 10
)

// Record is one action counter under a subject's rate-limit document.
type Record struct {
	Subject     string
	Action      string
	Count       int
	LastRequest time.Time
}

// Store scans rate-limit action records. Read-only.
type Store interface {
	ScanSince(ctx context.Context, cutoff time.Time) ([]Record, error)
}

// ActionStat aggregates all active records of one action.
type ActionStat struct {
	Action           string `json:"action"`
	Hits             int    `json:"hits"`
	DistinctSubjects int    `json:"distinct_subjects"`
	Limit            int    `json:"configured_limit"`
	Window           string `json:"configured_window"`
}

// OffenderStat aggregates all active records of one subject.
type OffenderStat struct {
	Subject         string    `json:"subject"`
	Hits            int       `json:"hits"`
	DistinctActions int       `json:"distinct_actions"`
	LastRequest     time.Time `json:"last_request"`
}

// HourlyBucket is the hit count for one UTC top-of-hour bucket.
type HourlyBucket struct {
	Hour string `json:"hour"`
	Hits int    `json:"hits"`
}

// Totals summarizes the whole export window.
type Totals struct {
	UniqueUsersLimited int `json:"uniqueUsersLimited"`
	TotalHits          int `json:"total_hits"`
	ActiveRateLimits   int `json:"active_rate_limits"`
}

// Report is the full metrics export.
type Report struct {
	HoursBack       int            `json:"hours_back"`
	Cutoff          time.Time      `json:"cutoff"`
	Totals          Totals         `json:"totals"`
	ActionBreakdown []ActionStat   `json:"actionBreakdown"`
	TopOffenders    []OffenderStat `json:"topOffenders"`
	HourlyTrend     []HourlyBucket `json:"hourlyTrend"`
}

// Aggregator builds rate-limit reports for the admin surface. Read-only: it
// accumulates all three groupings in a single pass over the scanned records.
type Aggregator struct {
	authorizer *admin.Authorizer
	store      Store
	auditor    *audit.Recorder
	logg       *logger.Logger
	now        func() time.Time
}

func NewAggregator(authorizer *admin.Authorizer, store Store, auditor *audit.Recorder, logg *logger.Logger) *Aggregator {
	return &Aggregator{
		authorizer: authorizer,
		store:      store,
		auditor:    auditor,
		logg:       logg,
		now:        time.Now,
	}
}

// clampHours normalizes the requested window. Zero means unspecified.
func clampHours(hoursBack int) int {
	switch {
	case hoursBack == 0:
		return defaultHoursBack
	case hoursBack < minHoursBack:
		return minHoursBack
	case hoursBack > maxHoursBack:
		return maxHoursBack
	default:
		return hoursBack
	}
}

// Export scans action records newer than the cutoff and reports every active
// limit (count at or above the configured ceiling), grouped by action,
// subject, and UTC hour.
func (a *Aggregator) Export(ctx context.Context, caller *identity.Token, hoursBack int) (*Report, error) {
	if err := a.authorizer.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, exportTimeout)
	defer cancel()

	hours := clampHours(hoursBack)
	cutoff := a.now().UTC().Add(-time.Duration(hours) * time.Hour)

	records, err := a.store.ScanSince(ctx, cutoff)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "scan rate limits")
	}

	byAction := map[string]*ActionStat{}
	actionSubjects := map[string]map[string]bool{}
	bySubject := map[string]*OffenderStat{}
	subjectActions := map[string]map[string]bool{}
	byHour := map[string]int{}

	report := &Report{HoursBack: hours, Cutoff: cutoff}
	for _, rec := range records {
		limit := LimitFor(rec.Action)
		if rec.Count < limit.Max {
			continue
		}
		report.Totals.ActiveRateLimits++
		report.Totals.TotalHits += rec.Count

		stat, ok := byAction[rec.Action]
		if !ok {
			stat = &ActionStat{Action: rec.Action, Limit: limit.Max, Window: FormatWindow(limit.Window)}
			byAction[rec.Action] = stat
			actionSubjects[rec.Action] = map[string]bool{}
		}
		stat.Hits += rec.Count
		actionSubjects[rec.Action][rec.Subject] = true

		offender, ok := bySubject[rec.Subject]
		if !ok {
			offender = &OffenderStat{Subject: rec.Subject}
			bySubject[rec.Subject] = offender
			subjectActions[rec.Subject] = map[string]bool{}
		}
		offender.Hits += rec.Count
		subjectActions[rec.Subject][rec.Action] = true
		if rec.LastRequest.After(offender.LastRequest) {
			offender.LastRequest = rec.LastRequest
		}

		byHour[rec.LastRequest.UTC().Truncate(time.Hour).Format(hourBucketLayout)] += rec.Count
	}

	report.Totals.UniqueUsersLimited = len(bySubject)

	report.ActionBreakdown = make([]ActionStat, 0, len(byAction))
	for action, stat := range byAction {
		stat.DistinctSubjects = len(actionSubjects[action])
		report.ActionBreakdown = append(report.ActionBreakdown, *stat)
	}
	sort.Slice(report.ActionBreakdown, func(i, j int) bool {
		if report.ActionBreakdown[i].Hits != report.ActionBreakdown[j].Hits {
			return report.ActionBreakdown[i].Hits > report.ActionBreakdown[j].Hits
		}
		return report.ActionBreakdown[i].Action < report.ActionBreakdown[j].Action
	})

	report.TopOffenders = make([]OffenderStat, 0, len(bySubject))
	for subject, offender := range bySubject {
		offender.DistinctActions = len(subjectActions[subject])
		report.TopOffenders = append(report.TopOffenders, *offender)
	}
	sort.Slice(report.TopOffenders, func(i, j int) bool {
		if report.TopOffenders[i].Hits != report.TopOffenders[j].Hits {
			return report.TopOffenders[i].Hits > report.TopOffenders[j].Hits
		}
		return report.TopOffenders[i].Subject < report.TopOffenders[j].Subject
	})
	if len(report.TopOffenders) > topOffenderCap {
		report.TopOffenders = report.TopOffenders[:topOffenderCap]
	}

	report.HourlyTrend = make([]HourlyBucket, 0, len(byHour))
	for hour, hits := range byHour {
		report.HourlyTrend = append(report.HourlyTrend, HourlyBucket{Hour: hour, Hits: hits})
	}
	sort.Slice(report.HourlyTrend, func(i, j int) bool {
		return report.HourlyTrend[i].Hour < report.HourlyTrend[j].Hour
	})

	if a.auditor != nil {
		a.auditor.Record(ctx, audit.Event{
			Action:    "admin.metrics.export",
			CallerUID: caller.UID,
			Outcome:   "ok",
			Details:   map[string]any{"hours_back": hours, "active": report.Totals.ActiveRateLimits},
			At:        a.now().UTC(),
		})
	}
	return report, nil
}
