// Package core provides the ledger domain types and money handling.
//
// This file contains the parsing of amounts typed into chat messages and
// the single formatting helper used for every amount shown to users.
package core

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// maxCents bounds a single parsed amount. Sums are kept in Total, which has
// no upper bound.
var maxCents = decimal.NewFromInt(1 << 53)

var hundred = decimal.NewFromInt(100)

// ParseAmount converts a non-negative decimal literal to Money.
//
// Only decimal digits with an optional dot fraction are accepted. Digits of
// any script count, so Thai ๕๐ reads as 50. Extra fraction digits are
// rounded half-up to the cent.
//
// Examples:
//
//	ParseAmount("50000")  -> 5000000 cents
//	ParseAmount("12.345") -> 1235 cents
//	ParseAmount("๕๐")     -> 5000 cents
//	ParseAmount("-1")     -> ErrInvalidAmount
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	ascii, ok := asciiDigits(s)
	if !ok {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(ascii)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Shift(2).Round(0)
	if cents.IsNegative() || cents.GreaterThan(maxCents) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents.IntPart()}, nil
}

// asciiDigits rewrites every Unicode decimal digit of s as its ASCII form.
// It fails on anything other than digits and dots.
func asciiDigits(s string) (string, bool) {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '.' || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		case unicode.IsDigit(r):
			b.WriteByte(byte('0' + digitValue(r)))
		default:
			return "", false
		}
	}
	return b.String(), true
}

// digitValue relies on every script laying out its digits as a contiguous
// zero to nine run.
func digitValue(r rune) int {
	start := r
	for unicode.IsDigit(start - 1) {
		start--
	}
	return int(r-start) % 10
}

// FormatAmount renders m with two decimals and comma thousands separators,
// e.g. 5000000 cents -> "50,000.00".
func FormatAmount(m Money) string {
	return FormatCents(m.Cents)
}

// FormatCents is FormatAmount for a raw cent value.
func FormatCents(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	frac := cents % 100
	s := humanize.Comma(cents/100) + "."
	if frac < 10 {
		s += "0"
	}
	s += strconv.FormatInt(frac, 10)
	if neg {
		return "-" + s
	}
	return s
}

// FormatTotal is FormatAmount for an aggregate that may exceed int64.
func FormatTotal(t Total) string {
	abs := t.cents.Abs()
	whole := abs.Shift(-2).Truncate(0)
	frac := abs.Sub(whole.Mul(hundred)).IntPart()
	s := humanize.BigComma(whole.BigInt()) + "."
	if frac < 10 {
		s += "0"
	}
	s += strconv.FormatInt(frac, 10)
	if t.Sign() < 0 {
		return "-" + s
	}
	return s
}
