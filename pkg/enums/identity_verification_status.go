package enums

// IdentityVerificationStatus tracks supplier identity document review, independent
// of the compliance KYC status; both are consulted by the eligibility gate.
type IdentityVerificationStatus string

const (
	IdentityVerificationPending  IdentityVerificationStatus = "pending"
	IdentityVerificationVerified IdentityVerificationStatus = "verified"
	IdentityVerificationRejected IdentityVerificationStatus = "rejected"
)

// IsValid reports whether the value matches the canonical enum.
func (s IdentityVerificationStatus) IsValid() bool {
	switch s {
	case IdentityVerificationPending, IdentityVerificationVerified, IdentityVerificationRejected:
		return true
	}
	return false
}
