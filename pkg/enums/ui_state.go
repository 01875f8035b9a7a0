package enums

// UIState is the three-way classification of an eligibility verdict for
// client-facing presentation.
type UIState string

const (
	UIStateBookable        UIState = "bookable"
	UIStateNotBookable     UIState = "not_bookable"
	UIStateDateUnavailable UIState = "date_unavailable"
)

// IsValid reports whether the value matches the canonical UI state enum.
func (u UIState) IsValid() bool {
	switch u {
	case UIStateBookable, UIStateNotBookable, UIStateDateUnavailable:
		return true
	}
	return false
}
