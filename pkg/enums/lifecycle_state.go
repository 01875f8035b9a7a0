package enums

import (
	"fmt"
	"strings"
)

// LifecycleState is the coarse-grained supplier account state gating all booking activity.
type LifecycleState string

const (
	LifecycleStateDraft            LifecycleState = "draft"
	LifecycleStatePendingReview    LifecycleState = "pending_review"
	LifecycleStateActive           LifecycleState = "active"
	LifecycleStatePausedBySupplier LifecycleState = "paused_by_supplier"
	LifecycleStateSuspended        LifecycleState = "suspended"
	LifecycleStateDisabled         LifecycleState = "disabled"
	LifecycleStateArchived         LifecycleState = "archived"
)

var validLifecycleStates = []LifecycleState{
	LifecycleStateDraft,
	LifecycleStatePendingReview,
	LifecycleStateActive,
	LifecycleStatePausedBySupplier,
	LifecycleStateSuspended,
	LifecycleStateDisabled,
	LifecycleStateArchived,
}

// IsValid reports whether the value matches the canonical lifecycle state enum.
func (s LifecycleState) IsValid() bool {
	for _, candidate := range validLifecycleStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseLifecycleState converts the raw string to LifecycleState.
func ParseLifecycleState(value string) (LifecycleState, error) {
	for _, candidate := range validLifecycleStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid lifecycle state %q", value)
}

// LifecycleStateFromLegacyStatus maps a pre-migration free-form status string to a
// lifecycle state. The second return reports whether the string was recognized;
// unrecognized strings (and the empty string) coerce to draft.
func LifecycleStateFromLegacyStatus(status string) (LifecycleState, bool) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "active", "approved":
		return LifecycleStateActive, true
	case "pending", "pending_review":
		return LifecycleStatePendingReview, true
	case "suspended":
		return LifecycleStateSuspended, true
	case "disabled":
		return LifecycleStateDisabled, true
	case "draft":
		return LifecycleStateDraft, true
	default:
		return LifecycleStateDraft, false
	}
}
