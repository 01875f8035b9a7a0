package enums

import "fmt"

// KYCStatus describes the supplier compliance verification progress.
type KYCStatus string

const (
	KYCStatusNotStarted KYCStatus = "not_started"
	KYCStatusPending    KYCStatus = "pending"
	KYCStatusVerified   KYCStatus = "verified"
	KYCStatusRejected   KYCStatus = "rejected"
)

var validKYCStatuses = []KYCStatus{
	KYCStatusNotStarted,
	KYCStatusPending,
	KYCStatusVerified,
	KYCStatusRejected,
}

// IsValid reports whether the value matches the canonical KYC status enum.
func (k KYCStatus) IsValid() bool {
	for _, candidate := range validKYCStatuses {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseKYCStatus converts the raw string to KYCStatus.
func ParseKYCStatus(value string) (KYCStatus, error) {
	for _, candidate := range validKYCStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid kyc status %q", value)
}
