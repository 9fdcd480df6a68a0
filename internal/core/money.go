// Package core holds the financial record model: money parsing, record
// kinds, input validation, and the aggregation functions the dashboard is
// built on. It performs no I/O.
package core

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidAmount is returned for amounts that are not positive numbers.
var ErrInvalidAmount = errors.New("invalid amount")

// Money is a monetary value in cents.
type Money struct {
	Cents int64
}

// Validate rejects non-positive values.
func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Dollars returns the dollar value as a float64 for display purposes.
// Use cents for calculations to avoid floating-point precision issues.
func (m Money) Dollars() float64 {
	return float64(m.Cents) / 100.0
}

// ParseDecimalToCents converts a decimal string to cents with proper rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. The result is always positive
// cents. Returns an error for invalid formats, negative values, or zero.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; then half-up rounding on third
	var fracCents int64 = 0
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracCents = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracCents += d2
			if len(fracPart) > 2 {
				if fracPart[2] >= '5' {
					fracCents++
				}
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// Amount is a monetary field as read from a stored document. Stored records
// are not guaranteed to carry numeric amounts (legacy rows may hold strings
// or nothing), so Amount keeps the raw text and a validity flag instead of
// failing the whole decode. Aggregation skips invalid amounts and reports
// them as diagnostics.
type Amount struct {
	Money Money
	Valid bool
	Raw   string
}

// AmountOf wraps a Money value as a valid Amount.
func AmountOf(m Money) Amount {
	return Amount{Money: m, Valid: true}
}

// Cents returns the cent value of a valid Amount, or 0.
func (a Amount) Cents() int64 {
	if !a.Valid {
		return 0
	}
	return a.Money.Cents
}

// MarshalJSON writes the amount as a JSON number of cents. Invalid amounts
// round-trip their raw text so a rewrite never loses information.
func (a Amount) MarshalJSON() ([]byte, error) {
	if a.Valid {
		return json.Marshal(a.Money.Cents)
	}
	return json.Marshal(a.Raw)
}

// UnmarshalJSON accepts integer cents, tolerates float cents, and marks
// anything else invalid while preserving the raw text. A stored null is not
// a number: it must come out invalid, not as a silent zero (json.Unmarshal
// leaves the target untouched for null).
func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = Amount{Raw: "null"}
		return nil
	}
	var cents int64
	if err := json.Unmarshal(data, &cents); err == nil {
		*a = Amount{Money: Money{Cents: cents}, Valid: true}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*a = Amount{Money: Money{Cents: int64(math.Round(f))}, Valid: true}
		return nil
	}
	*a = Amount{Raw: strings.Trim(string(data), `"`)}
	return nil
}
