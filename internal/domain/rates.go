package domain

// ─── Constant Table ─────────────────────────────────────────────────────────
// The coefficients were picked offline. The branch structure they feed is a
// historical patchwork; keep the thresholds literal.

// Rates is the constant table consumed by the calculator.
// Values are copied into a calculator at construction and never mutated.
type Rates struct {
	MileageRateStd    float64 `json:"mileage_rate_std" toml:"mileage_rate_std"`
	PerDiemStd        float64 `json:"per_diem_std" toml:"per_diem_std"`
	MileageRateMega   float64 `json:"mileage_rate_mega" toml:"mileage_rate_mega"`
	DayRateMega       float64 `json:"day_rate_mega" toml:"day_rate_mega"`
	MegaTripBonusMult float64 `json:"mega_trip_bonus_mult" toml:"mega_trip_bonus_mult"`
	FWWMileRate       float64 `json:"fww_mile_rate" toml:"fww_mile_rate"`
	FWWReceiptRate    float64 `json:"fww_receipt_rate" toml:"fww_receipt_rate"`
	FWWFinalBonusMult float64 `json:"fww_final_bonus_mult" toml:"fww_final_bonus_mult"`
	LuckyCentsBonus   float64 `json:"lucky_cents_bonus" toml:"lucky_cents_bonus"`
}

// DefaultRates returns the production constant table.
func DefaultRates() Rates {
	return Rates{
		MileageRateStd:    0.4000,
		PerDiemStd:        85,
		MileageRateMega:   1.3348,
		DayRateMega:       45,
		MegaTripBonusMult: 0.9978,
		FWWMileRate:       0.9000,
		FWWReceiptRate:    0.8187,
		FWWFinalBonusMult: 1.0650,
		LuckyCentsBonus:   10,
	}
}

// RateField is a named coefficient, for display.
type RateField struct {
	Name  string
	Value float64
}

// Fields enumerates the table in declaration order.
func (r Rates) Fields() []RateField {
	return []RateField{
		{"mileage_rate_std", r.MileageRateStd},
		{"per_diem_std", r.PerDiemStd},
		{"mileage_rate_mega", r.MileageRateMega},
		{"day_rate_mega", r.DayRateMega},
		{"mega_trip_bonus_mult", r.MegaTripBonusMult},
		{"fww_mile_rate", r.FWWMileRate},
		{"fww_receipt_rate", r.FWWReceiptRate},
		{"fww_final_bonus_mult", r.FWWFinalBonusMult},
		{"lucky_cents_bonus", r.LuckyCentsBonus},
	}
}
