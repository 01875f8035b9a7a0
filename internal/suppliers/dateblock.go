package suppliers

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/celebrelabs/celebre-backend/pkg/errors"
)

// Two canonical subcollection names exist for historical reasons; both are
// checked by document ID, then both again via a legacy range query for
// documents created with auto-generated IDs.
const (
	collectionBlockedDatesCamel = "blockedDates"
	collectionBlockedDatesSnake = "blocked_dates"

	eventDateLayout = "2006-01-02"
)

// BlockedDateStore is the read-only storage surface the resolver needs.
type BlockedDateStore interface {
	// BlockedDateExists reports whether a document with ID == date exists in the
	// given blocked-dates subcollection of the supplier.
	BlockedDateExists(ctx context.Context, supplierID, collection, date string) (bool, error)
	// BlockedDateInRange reports whether any document's `date` timestamp field
	// falls within [start, end), limited to one match.
	BlockedDateInRange(ctx context.Context, supplierID, collection string, start, end time.Time) (bool, error)
}

// DateBlockResolver decides whether a calendar date is blocked for a supplier.
// It never mutates data.
type DateBlockResolver struct {
	store BlockedDateStore
}

func NewDateBlockResolver(store BlockedDateStore) (*DateBlockResolver, error) {
	if store == nil {
		return nil, fmt.Errorf("blocked date store required")
	}
	return &DateBlockResolver{store: store}, nil
}

// IsDateBlocked runs the four checks strictly in order, short-circuiting on the
// first hit; false means all four missed. Storage failures propagate.
func (r *DateBlockResolver) IsDateBlocked(ctx context.Context, supplierID, eventDate string) (bool, error) {
	day, err := ParseEventDate(eventDate)
	if err != nil {
		return false, err
	}
	// Half-open interval: a timestamp of exactly next-day midnight does not
	// block the current day.
	start := day
	end := day.Add(24 * time.Hour)

	for _, collection := range []string{collectionBlockedDatesCamel, collectionBlockedDatesSnake} {
		hit, err := r.store.BlockedDateExists(ctx, supplierID, collection, eventDate)
		if err != nil {
			return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup blocked date")
		}
		if hit {
			return true, nil
		}
	}

	for _, collection := range []string{collectionBlockedDatesCamel, collectionBlockedDatesSnake} {
		hit, err := r.store.BlockedDateInRange(ctx, supplierID, collection, start, end)
		if err != nil {
			return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query blocked date range")
		}
		if hit {
			return true, nil
		}
	}

	return false, nil
}

// ParseEventDate validates the YYYY-MM-DD event date and anchors it at UTC midnight.
func ParseEventDate(eventDate string) (time.Time, error) {
	day, err := time.ParseInLocation(eventDateLayout, eventDate, time.UTC)
	if err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "event date must be YYYY-MM-DD")
	}
	return day, nil
}
