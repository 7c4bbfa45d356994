package core

import (
	"math"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"0", 0, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{"12.344", 1234, true},
		{" 2.50 ", 250, true},
		{"50000", 5000000, true},
		{"๕๐", 5000, true},
		{"๕๐๐๐๐", 5000000, true},
		{"๑๒.๓๔", 1234, true},
		{"१०", 1000, true},
		{"٣", 300, true},
		{"5๐", 5000, true},
		{"๕,๐", 0, false},
		{"-1", 0, false},
		{"1,23", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"99999999999999999999999", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{30000, "300.00"},
		{100000, "1,000.00"},
		{5000000, "50,000.00"},
		{123456789, "1,234,567.89"},
		{-70000, "-700.00"},
		{-50, "-0.50"},
	}
	for _, tc := range cases {
		if got := FormatAmount(Money{Cents: tc.cents}); got != tc.want {
			t.Errorf("FormatAmount(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestFormatTotal(t *testing.T) {
	cases := []struct {
		total Total
		want  string
	}{
		{Total{}, "0.00"},
		{NewTotal(5), "0.05"},
		{NewTotal(5000000), "50,000.00"},
		{NewTotal(-70000), "-700.00"},
		{NewTotal(math.MaxInt64).AddMoney(Money{Cents: 1}), "92,233,720,368,547,758.08"},
	}
	for _, tc := range cases {
		if got := FormatTotal(tc.total); got != tc.want {
			t.Errorf("FormatTotal = %q, want %q", got, tc.want)
		}
	}
}
