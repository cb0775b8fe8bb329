// Package reimburse implements the travel reimbursement rule table.
//
// A trip is priced by exactly one of three paths, checked in order:
//  1. Mega trip:      days >= 5 and miles >= 900
//  2. Full work week: exactly 5 or 12 days
//  3. Standard:       everything else
//
// A lucky-cents bonus is then added when the receipts' fractional part lands
// in [0.48, 0.50] or [0.98, 1.00], and the result is clamped at zero.
package reimburse

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tutu-network/reimburse/internal/domain"
)

// Thresholds that select a pricing path. These are literal rules, not
// configuration.
const (
	megaTripMinDays  = 5
	megaTripMinMiles = 900.0

	megaBandMinMilesPerDay = 200.0
	megaBandMaxMilesPerDay = 250.0
)

// Calculator prices trips against a fixed constant table.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	rates domain.Rates
}

// New creates a calculator over a copy of the given table.
func New(rates domain.Rates) *Calculator {
	return &Calculator{rates: rates}
}

// Default returns a calculator over domain.DefaultRates.
func Default() *Calculator {
	return New(domain.DefaultRates())
}

// Rates returns the calculator's constant table.
func (c *Calculator) Rates() domain.Rates { return c.rates }

// Calculate coerces the three raw inputs and returns the reimbursement.
// Any input that fails to parse yields 0.
func Calculate(daysInput, milesInput, receiptsInput string) float64 {
	return Default().Calculate(daysInput, milesInput, receiptsInput)
}

// Calculate coerces the three raw inputs and returns the reimbursement.
func (c *Calculator) Calculate(daysInput, milesInput, receiptsInput string) float64 {
	return c.Quote(daysInput, milesInput, receiptsInput).Amount
}

// Quote coerces the raw inputs and prices them. A coercion failure returns
// a zero quote on PathNone.
func (c *Calculator) Quote(daysInput, milesInput, receiptsInput string) domain.Quote {
	trip, ok := ParseTrip(daysInput, milesInput, receiptsInput)
	if !ok {
		return domain.Quote{Path: domain.PathNone}
	}
	return c.Compute(trip)
}

// ParseTrip converts raw inputs into a Trip. Days must be a base-10 integer;
// miles and receipts a decimal float literal. Surrounding whitespace is
// ignored and single underscores may group digits.
func ParseTrip(daysInput, milesInput, receiptsInput string) (domain.Trip, bool) {
	days, ok := parseDays(daysInput)
	if !ok {
		return domain.Trip{}, false
	}
	miles, ok := parseAmount(milesInput)
	if !ok {
		return domain.Trip{}, false
	}
	receipts, ok := parseAmount(receiptsInput)
	if !ok {
		return domain.Trip{}, false
	}
	return domain.Trip{Days: days, Miles: miles, Receipts: receipts}, true
}

func parseDays(s string) (int, bool) {
	s, ok := ungroup(strings.TrimSpace(s))
	if !ok {
		return 0, false
	}
	days, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return days, true
}

// parseAmount accepts decimal literals, inf and nan. Literals beyond float64
// range become ±Inf; hexadecimal literals are rejected.
func parseAmount(s string) (float64, bool) {
	s, ok := ungroup(strings.TrimSpace(s))
	if !ok {
		return 0, false
	}
	digits := strings.TrimLeft(s, "+-")
	if len(digits) > 1 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}

// ungroup removes digit-grouping underscores. It fails unless every
// underscore sits between two digits.
func ungroup(s string) (string, bool) {
	if !strings.Contains(s, "_") {
		return s, true
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			continue
		}
		if i == 0 || i == len(s)-1 || !isDigit(s[i-1]) || !isDigit(s[i+1]) {
			return "", false
		}
	}
	return strings.ReplaceAll(s, "_", ""), true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Compute prices an already-typed trip.
func (c *Calculator) Compute(t domain.Trip) domain.Quote {
	q := domain.Quote{Trip: t, Path: domain.PathNone}
	if t.Days <= 0 {
		return q
	}

	p := c.rates
	days := float64(t.Days)

	// The explicit float64 conversions below stop the compiler from fusing
	// multiply-adds, so results are bit-identical on every GOARCH.
	switch {
	case t.Days >= megaTripMinDays && t.Miles >= megaTripMinMiles:
		q.Path = domain.PathMegaTrip
		q.Base = float64(t.Miles*p.MileageRateMega) + float64(days*p.DayRateMega)
		if mpd := t.MilesPerDay(); mpd >= megaBandMinMilesPerDay && mpd <= megaBandMaxMilesPerDay {
			q.Base *= p.MegaTripBonusMult
			q.MegaMultiplier = true
		}

	case t.Days == 5 || t.Days == 12:
		q.Path = domain.PathFullWorkWeek
		q.Base = (float64(t.Miles*p.FWWMileRate) + float64(t.Receipts*p.FWWReceiptRate)) * p.FWWFinalBonusMult

	default:
		q.Path = domain.PathStandard
		expense := t.Receipts
		if perDiem := days * p.PerDiemStd; perDiem > expense {
			expense = perDiem
		}
		q.Base = float64(t.Miles*p.MileageRateStd) + expense
	}

	final := q.Base
	if LuckyCents(t.Receipts) {
		final += p.LuckyCentsBonus
		q.LuckyCents = true
	}

	// NaN and negatives both clamp to a positive zero.
	if final > 0 {
		q.Amount = final
	}
	return q
}

// LuckyCents reports whether the fractional part of receipts falls in
// [0.48, 0.50] or [0.98, 1.00].
func LuckyCents(receipts float64) bool {
	cents := receipts - math.Floor(receipts)
	return (cents >= 0.48 && cents <= 0.50) || (cents >= 0.98 && cents <= 1.00)
}

// FormatAmount renders an amount with exactly two decimals. Non-finite
// amounts render as inf, -inf or nan.
func FormatAmount(amount float64) string {
	switch {
	case math.IsNaN(amount):
		return "nan"
	case math.IsInf(amount, 1):
		return "inf"
	case math.IsInf(amount, -1):
		return "-inf"
	}
	return fmt.Sprintf("%.2f", amount)
}

// Round2 rounds an amount the way FormatAmount prints it. Non-finite
// amounts are returned unchanged.
func Round2(amount float64) float64 {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return amount
	}
	v, err := strconv.ParseFloat(FormatAmount(amount), 64)
	if err != nil {
		return amount
	}
	return v
}
