package core

import (
	"testing"
	"time"
)

func TestGoalProgressPercent(t *testing.T) {
	cases := []struct {
		name    string
		current int64
		target  int64
		want    int
	}{
		{"zero target short-circuits", 5000, 0, 0},
		{"halfway", 5000, 10000, 50},
		{"rounds to nearest", 333, 1000, 33},
		{"rounds up", 335, 1000, 34},
		{"exactly done", 10000, 10000, 100},
		{"over target clamps to 100", 15000, 10000, 100},
		{"nothing saved", 0, 10000, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := Goal{Current: Money{Cents: tc.current}, Target: Money{Cents: tc.target}}
			if got := g.ProgressPercent(); got != tc.want {
				t.Fatalf("ProgressPercent() = %d, want %d", got, tc.want)
			}
			if got := g.ProgressPercent(); got < 0 || got > 100 {
				t.Fatalf("ProgressPercent() = %d out of [0,100]", got)
			}
		})
	}
}

func TestGoalFinished(t *testing.T) {
	cases := []struct {
		name string
		g    Goal
		want bool
	}{
		{"explicit status wins", Goal{Status: GoalFinished, Current: Money{}, Target: Money{Cents: 100}}, true},
		{"progress reaches target", Goal{Status: GoalInProgress, Current: Money{Cents: 100}, Target: Money{Cents: 100}}, true},
		{"in progress", Goal{Status: GoalInProgress, Current: Money{Cents: 50}, Target: Money{Cents: 100}}, false},
		{"zero target not auto-finished", Goal{Status: GoalInProgress}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.g.Finished(); got != tc.want {
				t.Fatalf("Finished() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestGoalDaysRemaining(t *testing.T) {
	now := time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)
	cases := []struct {
		name   string
		target Date
		want   int
	}{
		{"future date rounds partial day up", NewDate(2024, 6, 15), 5},
		{"past date clamps to zero", NewDate(2024, 6, 1), 0},
		{"no target date", Date{}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := Goal{TargetDate: tc.target}
			got := g.DaysRemaining(now)
			if got != tc.want {
				t.Fatalf("DaysRemaining() = %d, want %d", got, tc.want)
			}
			if got < 0 {
				t.Fatalf("DaysRemaining() negative: %d", got)
			}
		})
	}
}
