// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring: it depends on nothing.
package domain

// ─── Trip Types ─────────────────────────────────────────────────────────────

// Trip is the input triple for one reimbursement calculation.
type Trip struct {
	Days     int     `json:"trip_duration_days" yaml:"trip_duration_days"`
	Miles    float64 `json:"miles_traveled" yaml:"miles_traveled"`
	Receipts float64 `json:"total_receipts_amount" yaml:"total_receipts_amount"`
}

// MilesPerDay returns miles divided by days, or 0 for a non-positive duration.
func (t Trip) MilesPerDay() float64 {
	if t.Days <= 0 {
		return 0
	}
	return t.Miles / float64(t.Days)
}

// Path identifies which branch of the rule table priced a trip.
type Path string

const (
	PathNone         Path = "none" // coercion failed or days <= 0
	PathMegaTrip     Path = "mega_trip"
	PathFullWorkWeek Path = "full_work_week"
	PathStandard     Path = "standard"
)

// Paths lists the pricing branches in precedence order.
func Paths() []Path {
	return []Path{PathMegaTrip, PathFullWorkWeek, PathStandard}
}

// Quote is the trace of a single calculation.
// Amount is the clamped, unrounded result.
type Quote struct {
	Trip           Trip    `json:"trip"`
	Path           Path    `json:"path"`
	Base           float64 `json:"base"`
	MegaMultiplier bool    `json:"mega_trip_multiplier"`
	LuckyCents     bool    `json:"lucky_cents"`
	Amount         float64 `json:"amount"`
}
