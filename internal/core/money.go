// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from strings
// and converting between centavos and display representations.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseDecimalToCents converts a decimal string to centavos with half-up
// rounding on the third decimal place.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. The result
// is always positive cents; invalid formats, negative values and zero amounts
// return ErrInvalidAmount.
//
// Examples:
//
//	ParseDecimalToCents("12.34") -> 1234, nil
//	ParseDecimalToCents("12,34") -> 1234, nil
//	ParseDecimalToCents("12.345") -> 1234, nil (rounds down)
//	ParseDecimalToCents("12.346") -> 1235, nil (rounds up)
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

// CentsFromFloat converts a numeric column value (PostgREST decodes numeric as
// float64) to centavos with half-up rounding. Used only at the storage
// boundary; everything past it stays in integer cents.
func CentsFromFloat(v float64) int64 {
	return int64(math.Round(v * 100))
}

// MarshalJSON renders the amount as a plain decimal with two places, so
// clients see 150.50 instead of a cents object.
func (m Money) MarshalJSON() ([]byte, error) {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := fmt.Sprintf("%d.%02d", cents/100, cents%100)
	if neg {
		s = "-" + s
	}
	return []byte(s), nil
}

// UnmarshalJSON parses the decimal form exactly, without a float64 round
// trip. Zero and negative amounts decode fine; Validate is the gate on sign.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		m.Cents = 0
		return nil
	}
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	if isDecimalZero(s) {
		m.Cents = 0
		return nil
	}
	cents, err := ParseDecimalToCents(s)
	if err != nil {
		return err
	}
	if neg {
		cents = -cents
	}
	m.Cents = cents
	return nil
}

// isDecimalZero reports whether s is a well-formed decimal spelling of zero,
// like "0", "0.0" or ".00".
func isDecimalZero(s string) bool {
	seenDigit := false
	dots := 0
	for _, r := range s {
		switch {
		case r == '.':
			dots++
		case r >= '0' && r <= '9':
			seenDigit = true
			if r != '0' {
				return false
			}
		default:
			return false
		}
	}
	return seenDigit && dots <= 1
}

// Reais returns the amount as a float64 for display and chart scaling.
// Use cents for calculations to avoid floating-point precision issues.
func (m Money) Reais() float64 {
	return float64(m.Cents) / 100.0
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Sub returns the difference of two amounts. Balances may go negative.
func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

// FormatBRL renders the amount as "R$ 12,34" (minus sign ahead of the symbol
// for negative balances).
func (m Money) FormatBRL() string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "," + fmt.Sprintf("%02d", cents%100)
	if neg {
		return "-R$ " + s
	}
	return "R$ " + s
}
