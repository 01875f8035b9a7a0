package ratelimit

import (
	"fmt"
	"time"
)

// Limit is the configured ceiling for one action within its fixed window.
type Limit struct {
	Max    int           `json:"max"`
	Window time.Duration `json:"-"`
}

const defaultLimitKey = "default"

// configuredLimits mirrors the per-action ceilings enforced at request time.
// Unknown actions fall back to the default entry.
var configuredLimits = map[string]Limit{
	"booking.create":   {Max: 10, Window: time.Hour},
	"booking.inquiry":  {Max: 30, Window: time.Hour},
	"supplier.contact": {Max: 20, Window: 24 * time.Hour},
	"review.create":    {Max: 5, Window: 24 * time.Hour},
	"media.upload":     {Max: 50, Window: time.Hour},
	defaultLimitKey:    {Max: 60, Window: time.Hour},
}

// LimitFor returns the configured limit for an action, falling back to the
// default entry.
func LimitFor(action string) Limit {
	if l, ok := configuredLimits[action]; ok {
		return l
	}
	return configuredLimits[defaultLimitKey]
}

// FormatWindow renders a window duration for display, in Portuguese.
func FormatWindow(window time.Duration) string {
	switch {
	case window < time.Minute:
		return fmt.Sprintf("%d segundos", int(window.Seconds()))
	case window < time.Hour:
		return fmt.Sprintf("%d minutos", int(window.Minutes()))
	case window < 24*time.Hour:
		hours := int(window.Hours())
		if hours == 1 {
			return "1 hora"
		}
		return fmt.Sprintf("%d horas", hours)
	default:
		days := int(window.Hours() / 24)
		if days == 1 {
			return "1 dia"
		}
		return fmt.Sprintf("%d dias", days)
	}
}
