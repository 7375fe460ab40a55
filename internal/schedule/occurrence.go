// Package schedule computes occurrence dates for recurring and installment
// future entries. It is display support for the upcoming view only: recurrence
// attributes are stored data, and nothing here executes or schedules anything.
//
// Each recurrence period has its own stepper encapsulating the date
// arithmetic for that frequency.
package schedule

import (
	"fmt"
	"time"

	"github.com/Glivan2903/minhagrana/internal/core"
)

// Stepper is the strategy interface for one recurrence period.
type Stepper interface {
	// Occurrence returns the i-th date of a series anchored at start.
	// i = 0 is the anchor itself.
	Occurrence(start core.Date, i int) core.Date
}

// dayStepper advances a fixed number of days per occurrence.
type dayStepper struct {
	days int
}

func (s dayStepper) Occurrence(start core.Date, i int) core.Date {
	return core.Date{Time: start.AddDate(0, 0, s.days*i)}
}

// monthStepper advances whole months, clamping the anchor day to the last day
// of shorter months (Jan 31 -> Feb 28 -> Mar 31, the anchor is never lost).
type monthStepper struct {
	months int
}

func (s monthStepper) Occurrence(start core.Date, i int) core.Date {
	y, m, d := start.Date()
	total := int(m) - 1 + s.months*i
	year := y + total/12
	month := time.Month(total%12 + 1)
	if last := lastDayOfMonth(year, month); d > last {
		d = last
	}
	return core.NewDate(year, int(month), d)
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// steppers maps recurrence periods to their date arithmetic.
var steppers = map[core.RecurrencePeriod]Stepper{
	core.Daily:      dayStepper{days: 1},
	core.Weekly:     dayStepper{days: 7},
	core.Biweekly:   dayStepper{days: 14},
	core.Monthly:    monthStepper{months: 1},
	core.Bimonthly:  monthStepper{months: 2},
	core.Quarterly:  monthStepper{months: 3},
	core.Semiannual: monthStepper{months: 6},
	core.Annual:     monthStepper{months: 12},
}

// ForPeriod returns the stepper for a recurrence period.
func ForPeriod(p core.RecurrencePeriod) (Stepper, error) {
	s, ok := steppers[p]
	if !ok {
		return nil, fmt.Errorf("unknown recurrence period: %s", p)
	}
	return s, nil
}

// NextOccurrence returns the first date of the entry's series strictly after
// the reference time. Non-recurring entries have a single occurrence: their
// expected date, returned as-is even when already past (the caller decides
// how to render overdue entries).
func NextOccurrence(e core.FutureEntry, after time.Time) (core.Date, error) {
	if !e.Recurring {
		return e.ExpectedDate, nil
	}
	s, err := ForPeriod(e.Period)
	if err != nil {
		return core.Date{}, err
	}
	// Bounded walk; even a daily series spanning a decade stays well inside.
	for i := 0; i < 5000; i++ {
		d := s.Occurrence(e.ExpectedDate, i)
		if d.After(after) {
			return d, nil
		}
	}
	return core.Date{}, fmt.Errorf("no occurrence of %s series after %s within bounds", e.Period, after.Format("2006-01-02"))
}
