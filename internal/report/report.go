// Package report is the aggregation engine: pure, deterministic
// transformations of transaction and future-entry rows into the derived
// values the dashboard and report views render. No I/O, no retained state;
// every function recomputes from scratch on each call.
package report

import (
	"sort"
	"strconv"

	"github.com/Glivan2903/minhagrana/internal/core"
)

// Totals summarizes a period already filtered to one user by the caller.
type Totals struct {
	Income  core.Money `json:"income"`
	Expense core.Money `json:"expense"`
	Balance core.Money `json:"balance"`

	// ExpenseRatioPercent is expense/income*100, or 0 when there is no
	// income (never a division by zero).
	ExpenseRatioPercent float64 `json:"expense_ratio_percent"`
}

// PeriodTotals sums income and expense amounts over the given transactions.
// Empty input yields the zero value.
func PeriodTotals(txs []core.Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		switch tx.Type {
		case core.EntryIncome:
			t.Income = t.Income.Add(tx.Amount)
		case core.EntryExpense:
			t.Expense = t.Expense.Add(tx.Amount)
		}
	}
	t.Balance = t.Income.Sub(t.Expense)
	if t.Income.Cents > 0 {
		t.ExpenseRatioPercent = float64(t.Expense.Cents) / float64(t.Income.Cents) * 100
	}
	return t
}

// CategoryLookup resolves a category id to its row. It is total: a miss is an
// explicit (zero, false), forcing the caller to pick a fallback label
// deliberately.
type CategoryLookup func(id int64) (core.Category, bool)

// LookupIn builds a CategoryLookup over an in-memory category list.
func LookupIn(cats []core.Category) CategoryLookup {
	byID := make(map[int64]core.Category, len(cats))
	for _, c := range cats {
		byID[c.ID] = c
	}
	return func(id int64) (core.Category, bool) {
		c, ok := byID[id]
		return c, ok
	}
}

// FallbackLabel names a group whose category lookup missed (or whose rows
// carry no category at all). The two report views intentionally use different
// policies; pick per call site, do not unify.
type FallbackLabel func(id *int64) string

// FallbackCategoryID is the dashboard policy: a synthetic per-id label.
func FallbackCategoryID(id *int64) string {
	if id == nil {
		return "Sem categoria"
	}
	return "Categoria " + strconv.FormatInt(*id, 10)
}

// FallbackOutros is the detailed-report policy: everything unresolved folds
// into a single "Outros" bucket.
func FallbackOutros(id *int64) string {
	return "Outros"
}

// palette cycles by group index, matching the original charts. The same
// category may change color between renders when group order changes; a
// stable id-hash assignment would be the better invariant but is not the
// documented behavior.
var palette = []string{
	"#0088FE", "#00C49F", "#FFBB28", "#FF8042", "#A020F0",
	"#FF6384", "#36A2EB", "#FFCE56", "#4BC0C0", "#9966FF",
}

// CategorySlice is one group of the category breakdown.
type CategorySlice struct {
	CategoryID *int64     `json:"category_id"`
	Name       string     `json:"name"`
	Total      core.Money `json:"total"`
	Color      string     `json:"color"`
}

// CategoryBreakdown groups transactions of the given type, in first-occurrence
// order (callers needing another order sort themselves). Resolved rows group
// by category id, so two categories sharing a description stay separate
// slices; only unresolved rows group by their fallback label, which is what
// lets the Outros policy fold them into one bucket. Group totals always
// partition the type total: sum(slices) == PeriodTotals income or expense for
// the same input.
func CategoryBreakdown(txs []core.Transaction, lookup CategoryLookup, typ core.EntryType, fallback FallbackLabel) []CategorySlice {
	var out []CategorySlice
	index := make(map[string]int) // group key -> position in out
	for _, tx := range txs {
		if tx.Type != typ {
			continue
		}
		var key, name string
		if tx.CategoryID != nil {
			if c, ok := lookup(*tx.CategoryID); ok {
				key = "id:" + strconv.FormatInt(*tx.CategoryID, 10)
				name = c.Description
			}
		}
		if name == "" {
			name = fallback(tx.CategoryID)
			key = "label:" + name
		}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, CategorySlice{
				CategoryID: tx.CategoryID,
				Name:       name,
				Color:      palette[i%len(palette)],
			})
		}
		out[i].Total = out[i].Total.Add(tx.Amount)
	}
	return out
}

// BalancePoint is one step of the running-balance series.
type BalancePoint struct {
	Date    core.Date  `json:"date"`
	Balance core.Money `json:"balance"`
}

// RunningBalanceSeries walks the transactions in chronological order and
// accumulates income minus expense, emitting one point per transaction.
// Same-date ties keep the input order (stable sort); multiple transactions on
// one date each produce their own point.
func RunningBalanceSeries(txs []core.Transaction) []BalancePoint {
	ordered := make([]core.Transaction, len(txs))
	copy(ordered, txs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date.Time)
	})

	out := make([]BalancePoint, 0, len(ordered))
	var balance core.Money
	for _, tx := range ordered {
		switch tx.Type {
		case core.EntryIncome:
			balance = balance.Add(tx.Amount)
		case core.EntryExpense:
			balance = balance.Sub(tx.Amount)
		}
		out = append(out, BalancePoint{Date: tx.Date, Balance: balance})
	}
	return out
}

// Report extends Totals with per-source splits across realized transactions
// and future entries.
type Report struct {
	Totals

	IncomeFromTransactions  core.Money `json:"income_from_transactions"`
	IncomeFromFuture        core.Money `json:"income_from_future"`
	ExpenseFromTransactions core.Money `json:"expense_from_transactions"`
	ExpenseFromFuture       core.Money `json:"expense_from_future"`

	// MostRecentExpenseDate is the max over expense transaction dates and
	// expense future-entry expected dates; nil when neither source has an
	// expense.
	MostRecentExpenseDate *core.Date `json:"most_recent_expense_date,omitempty"`
}

// ReportTotals computes the period report over both sources. Each source is
// filtered by type independently before summing; the combined totals are the
// pairwise sums.
func ReportTotals(txs []core.Transaction, futures []core.FutureEntry) Report {
	var r Report
	var latest core.Date

	for _, tx := range txs {
		switch tx.Type {
		case core.EntryIncome:
			r.IncomeFromTransactions = r.IncomeFromTransactions.Add(tx.Amount)
		case core.EntryExpense:
			r.ExpenseFromTransactions = r.ExpenseFromTransactions.Add(tx.Amount)
			if latest.IsEmpty() || tx.Date.After(latest.Time) {
				latest = tx.Date
			}
		}
	}
	for _, f := range futures {
		switch f.Type {
		case core.EntryIncome:
			r.IncomeFromFuture = r.IncomeFromFuture.Add(f.Amount)
		case core.EntryExpense:
			r.ExpenseFromFuture = r.ExpenseFromFuture.Add(f.Amount)
			if latest.IsEmpty() || f.ExpectedDate.After(latest.Time) {
				latest = f.ExpectedDate
			}
		}
	}

	r.Income = r.IncomeFromTransactions.Add(r.IncomeFromFuture)
	r.Expense = r.ExpenseFromTransactions.Add(r.ExpenseFromFuture)
	r.Balance = r.Income.Sub(r.Expense)
	if r.Income.Cents > 0 {
		r.ExpenseRatioPercent = float64(r.Expense.Cents) / float64(r.Income.Cents) * 100
	}
	if !latest.IsEmpty() {
		r.MostRecentExpenseDate = &latest
	}
	return r
}
