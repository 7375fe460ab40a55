package core

import (
	"math"
	"time"
)

// ProgressPercent returns how far the goal is along, as an integer percentage
// clamped to [0, 100]. A zero or negative target short-circuits to 0 rather
// than dividing by zero.
func (g Goal) ProgressPercent() int {
	if g.Target.Cents <= 0 {
		return 0
	}
	p := int(math.Round(float64(g.Current.Cents) / float64(g.Target.Cents) * 100))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Finished reports whether the goal counts as done: either the stored status
// flag says so, or accumulated progress reached 100%. The classification is
// recomputed by every consumer, never persisted.
func (g Goal) Finished() bool {
	if g.Status == GoalFinished {
		return true
	}
	return g.Target.Cents > 0 && g.Current.Cents >= g.Target.Cents
}

// DaysRemaining returns whole days until the target date, rounding partial
// days up and clamping overdue goals to 0. Goals without a target date report
// 0 as well.
func (g Goal) DaysRemaining(now time.Time) int {
	if g.TargetDate.IsEmpty() {
		return 0
	}
	days := int(math.Ceil(g.TargetDate.Sub(now).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}
