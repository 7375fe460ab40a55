package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestCentsFromFloat(t *testing.T) {
	cases := []struct {
		in  float64
		out int64
	}{
		{0, 0},
		{1000, 100000},
		{12.34, 1234},
		{12.345, 1235}, // half-up
		{0.1 + 0.2, 30},
	}
	for _, tc := range cases {
		if got := CentsFromFloat(tc.in); got != tc.out {
			t.Fatalf("%v expected %d, got %d", tc.in, tc.out, got)
		}
	}
}

func TestMoneyMarshalJSON(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{7, "0.07"},
		{15050, "150.50"},
		{-2500, "-25.00"},
	}
	for _, tc := range cases {
		got, err := json.Marshal(Money{Cents: tc.cents})
		if err != nil {
			t.Fatalf("%d: %v", tc.cents, err)
		}
		if string(got) != tc.want {
			t.Fatalf("%d expected %s, got %s", tc.cents, tc.want, got)
		}
	}
}

func TestMoneyUnmarshalJSON(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"150.5", 15050, true},
		{`"150,50"`, 15050, true},
		{"4.015", 402, true}, // exact decimal, no float round trip
		{"0", 0, true},
		{"0.00", 0, true},
		{"null", 0, true},
		{"-25.00", -2500, true},
		{`"abc"`, 0, false},
		{"1.2.3", 0, false},
	}
	for _, tc := range cases {
		var m Money
		err := json.Unmarshal([]byte(tc.in), &m)
		if tc.ok {
			if err != nil || m.Cents != tc.out {
				t.Fatalf("%s expected %d, got %d (err=%v)", tc.in, tc.out, m.Cents, err)
			}
		} else if err == nil {
			t.Fatalf("%s expected error, got %d", tc.in, m.Cents)
		}
	}
}

func TestFormatBRL(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "R$ 0,00"},
		{1234, "R$ 12,34"},
		{100000, "R$ 1000,00"},
		{-70050, "-R$ 700,50"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).FormatBRL(); got != tc.want {
			t.Fatalf("%d expected %q, got %q", tc.cents, tc.want, got)
		}
	}
}
