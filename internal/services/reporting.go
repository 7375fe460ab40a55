package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Glivan2903/minhagrana/internal/core"
	"github.com/Glivan2903/minhagrana/internal/export"
	"github.com/Glivan2903/minhagrana/internal/log"
	"github.com/Glivan2903/minhagrana/internal/report"
	"github.com/Glivan2903/minhagrana/internal/schedule"
	"github.com/Glivan2903/minhagrana/internal/storage"
)

// Dashboard is the month view: totals, per-category breakdowns with the
// per-id fallback labels, the running balance series and the live goals.
type Dashboard struct {
	Month             core.MonthRef          `json:"month"`
	Totals            report.Totals          `json:"totals"`
	ExpenseByCategory []report.CategorySlice `json:"expense_by_category"`
	IncomeByCategory  []report.CategorySlice `json:"income_by_category"`
	BalanceSeries     []report.BalancePoint  `json:"balance_series"`
	Goals             []GoalProgress         `json:"goals"`
	Recent            []core.Transaction     `json:"recent"`
}

// recentLimit is how many of the month's newest transactions the dashboard
// shows.
const recentLimit = 5

// GoalProgress decorates a goal with its derived values.
type GoalProgress struct {
	core.Goal
	ProgressPercent int  `json:"progress_percent"`
	DaysRemaining   int  `json:"days_remaining"`
	Finished        bool `json:"finished"`
}

// NewGoalProgress computes the goal's derived values at the given instant.
func NewGoalProgress(g core.Goal, now time.Time) GoalProgress {
	return GoalProgress{
		Goal:            g,
		ProgressPercent: g.ProgressPercent(),
		DaysRemaining:   g.DaysRemaining(now),
		Finished:        g.Finished(),
	}
}

// GoalProgressList decorates every goal. Never nil, so the JSON encodes as
// an empty array rather than null.
func GoalProgressList(goals []core.Goal, now time.Time) []GoalProgress {
	out := make([]GoalProgress, 0, len(goals))
	for _, g := range goals {
		out = append(out, NewGoalProgress(g, now))
	}
	return out
}

// Dashboard assembles the month view for one account.
func (s *FinanceService) Dashboard(ctx context.Context, acct core.Account, month core.MonthRef) (Dashboard, error) {
	if err := month.Validate(); err != nil {
		return Dashboard{}, err
	}
	txs, err := s.repo.ListTransactions(ctx, acct.ID, storage.TransactionFilter{Month: month})
	if err != nil {
		return Dashboard{}, fmt.Errorf("list transactions: %w", err)
	}
	cats, err := s.repo.ListCategories(ctx, acct.ID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list categories: %w", err)
	}
	goals, err := s.repo.ListGoals(ctx, acct.ID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list goals: %w", err)
	}

	lookup := report.LookupIn(cats)
	progress := GoalProgressList(goals, time.Now())

	// The repository returns the month newest-first, so the head of the
	// slice is the recent activity feed.
	recent := txs
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}

	return Dashboard{
		Month:             month,
		Totals:            report.PeriodTotals(txs),
		ExpenseByCategory: report.CategoryBreakdown(txs, lookup, core.EntryExpense, report.FallbackCategoryID),
		IncomeByCategory:  report.CategoryBreakdown(txs, lookup, core.EntryIncome, report.FallbackCategoryID),
		BalanceSeries:     report.RunningBalanceSeries(txs),
		Goals:             progress,
		Recent:            recent,
	}, nil
}

// DetailedReport is the date-range view combining both row sources. Unknown
// categories fold into the single Outros bucket here, unlike the dashboard.
type DetailedReport struct {
	Start             core.Date              `json:"start"`
	End               core.Date              `json:"end"`
	Report            report.Report          `json:"report"`
	ExpenseByCategory []report.CategorySlice `json:"expense_by_category"`
	IncomeByCategory  []report.CategorySlice `json:"income_by_category"`
	BalanceSeries     []report.BalancePoint  `json:"balance_series"`
}

// DetailedReport assembles the range view over transactions and pending
// future entries.
func (s *FinanceService) DetailedReport(ctx context.Context, acct core.Account, start, end core.Date) (DetailedReport, error) {
	if err := start.Validate(); err != nil {
		return DetailedReport{}, err
	}
	if err := end.Validate(); err != nil {
		return DetailedReport{}, err
	}
	if end.Before(start.Time) {
		return DetailedReport{}, fmt.Errorf("range %s..%s: %w", start, end, core.ErrInvalidDate)
	}

	txs, err := s.repo.ListTransactions(ctx, acct.ID, storage.TransactionFilter{StartDate: &start, EndDate: &end})
	if err != nil {
		return DetailedReport{}, fmt.Errorf("list transactions: %w", err)
	}
	futures, err := s.repo.ListFutureEntries(ctx, acct.ID, storage.FutureEntryFilter{
		StartDate: &start,
		EndDate:   &end,
		Status:    core.StatusPending,
	})
	if err != nil {
		return DetailedReport{}, fmt.Errorf("list future entries: %w", err)
	}
	cats, err := s.repo.ListCategories(ctx, acct.ID)
	if err != nil {
		return DetailedReport{}, fmt.Errorf("list categories: %w", err)
	}

	lookup := report.LookupIn(cats)
	return DetailedReport{
		Start:             start,
		End:               end,
		Report:            report.ReportTotals(txs, futures),
		ExpenseByCategory: report.CategoryBreakdown(txs, lookup, core.EntryExpense, report.FallbackOutros),
		IncomeByCategory:  report.CategoryBreakdown(txs, lookup, core.EntryIncome, report.FallbackOutros),
		BalanceSeries:     report.RunningBalanceSeries(txs),
	}, nil
}

// Occurrence is one upcoming projection of a future entry.
type Occurrence struct {
	Entry core.FutureEntry `json:"entry"`
	Due   core.Date        `json:"due"`
}

// UpcomingOccurrences projects each pending entry's next due date after the
// given instant and returns those falling inside the horizon, soonest first.
func (s *FinanceService) UpcomingOccurrences(ctx context.Context, acct core.Account, after time.Time, horizon time.Duration) ([]Occurrence, error) {
	entries, err := s.repo.ListFutureEntries(ctx, acct.ID, storage.FutureEntryFilter{Status: core.StatusPending})
	if err != nil {
		return nil, fmt.Errorf("list future entries: %w", err)
	}

	limit := after.Add(horizon)
	var out []Occurrence
	for _, e := range entries {
		due, err := schedule.NextOccurrence(e, after)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", e.ID, err)
		}
		if due.IsEmpty() || due.After(limit) {
			continue
		}
		out = append(out, Occurrence{Entry: e, Due: due})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Due.Before(out[j].Due.Time)
	})
	return out, nil
}

// ExportTransactionsCSV renders the account's transactions for download.
func (s *FinanceService) ExportTransactionsCSV(ctx context.Context, acct core.Account, f storage.TransactionFilter) (string, error) {
	txs, err := s.repo.ListTransactions(ctx, acct.ID, f)
	if err != nil {
		return "", fmt.Errorf("list transactions: %w", err)
	}
	cats, err := s.repo.ListCategories(ctx, acct.ID)
	if err != nil {
		return "", fmt.Errorf("list categories: %w", err)
	}
	s.logger.InfoContext(ctx, "transactions exported",
		log.FieldOperation, log.OpExport,
		log.FieldUserID, acct.ID, "rows", len(txs))
	return export.TransactionsCSV(txs, report.LookupIn(cats)), nil
}
