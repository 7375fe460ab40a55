package schedule

import (
	"testing"
	"time"

	"github.com/Glivan2903/minhagrana/internal/core"
)

func TestMonthStepperClampsShortMonths(t *testing.T) {
	s, err := ForPeriod(core.Monthly)
	if err != nil {
		t.Fatalf("ForPeriod: %v", err)
	}
	anchor := core.NewDate(2024, 1, 31)

	cases := []struct {
		i    int
		want string
	}{
		{0, "2024-01-31"},
		{1, "2024-02-29"}, // leap february, clamped
		{2, "2024-03-31"}, // anchor day restored
		{3, "2024-04-30"},
		{13, "2025-02-28"},
	}
	for _, tc := range cases {
		if got := s.Occurrence(anchor, tc.i).String(); got != tc.want {
			t.Fatalf("occurrence %d = %s, want %s", tc.i, got, tc.want)
		}
	}
}

func TestSteppersByPeriod(t *testing.T) {
	anchor := core.NewDate(2024, 3, 10)
	cases := []struct {
		period core.RecurrencePeriod
		want   string // first occurrence after the anchor
	}{
		{core.Daily, "2024-03-11"},
		{core.Weekly, "2024-03-17"},
		{core.Biweekly, "2024-03-24"},
		{core.Monthly, "2024-04-10"},
		{core.Bimonthly, "2024-05-10"},
		{core.Quarterly, "2024-06-10"},
		{core.Semiannual, "2024-09-10"},
		{core.Annual, "2025-03-10"},
	}
	for _, tc := range cases {
		t.Run(string(tc.period), func(t *testing.T) {
			s, err := ForPeriod(tc.period)
			if err != nil {
				t.Fatalf("ForPeriod: %v", err)
			}
			if got := s.Occurrence(anchor, 1).String(); got != tc.want {
				t.Fatalf("Occurrence(1) = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestForPeriodUnknown(t *testing.T) {
	if _, err := ForPeriod("fortnightly-ish"); err == nil {
		t.Fatal("expected error for unknown period")
	}
}

func TestNextOccurrence(t *testing.T) {
	after := time.Date(2024, 6, 20, 10, 0, 0, 0, time.UTC)

	t.Run("non-recurring returns expected date", func(t *testing.T) {
		e := core.FutureEntry{ExpectedDate: core.NewDate(2024, 5, 1)}
		got, err := NextOccurrence(e, after)
		if err != nil {
			t.Fatalf("NextOccurrence: %v", err)
		}
		if got.String() != "2024-05-01" {
			t.Fatalf("got %s, want the stored expected date", got)
		}
	})

	t.Run("monthly catches up past occurrences", func(t *testing.T) {
		e := core.FutureEntry{
			ExpectedDate: core.NewDate(2024, 1, 5),
			Recurring:    true,
			Period:       core.Monthly,
		}
		got, err := NextOccurrence(e, after)
		if err != nil {
			t.Fatalf("NextOccurrence: %v", err)
		}
		if got.String() != "2024-07-05" {
			t.Fatalf("got %s, want 2024-07-05", got)
		}
	})

	t.Run("future anchor is returned unchanged", func(t *testing.T) {
		e := core.FutureEntry{
			ExpectedDate: core.NewDate(2024, 8, 1),
			Recurring:    true,
			Period:       core.Weekly,
		}
		got, err := NextOccurrence(e, after)
		if err != nil {
			t.Fatalf("NextOccurrence: %v", err)
		}
		if got.String() != "2024-08-01" {
			t.Fatalf("got %s, want 2024-08-01", got)
		}
	})

	t.Run("recurring with bad period errors", func(t *testing.T) {
		e := core.FutureEntry{
			ExpectedDate: core.NewDate(2024, 1, 1),
			Recurring:    true,
			Period:       "sometimes",
		}
		if _, err := NextOccurrence(e, after); err == nil {
			t.Fatal("expected error")
		}
	})
}
