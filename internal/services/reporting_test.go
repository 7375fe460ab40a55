package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Glivan2903/minhagrana/internal/core"
	"github.com/Glivan2903/minhagrana/internal/storage"
)

func seedMonth(t *testing.T, svc *FinanceService, acct core.Account) {
	t.Helper()
	ctx := context.Background()
	rows := []core.Transaction{
		{Date: core.NewDate(2025, 5, 2), Description: "Salário", Type: core.EntryIncome, Amount: core.Money{Cents: 500000}},
		{Date: core.NewDate(2025, 5, 10), Description: "Mercado", Type: core.EntryExpense, Amount: core.Money{Cents: 80000}},
		{Date: core.NewDate(2025, 5, 20), Description: "Luz", Type: core.EntryExpense, Amount: core.Money{Cents: 20000}},
	}
	for i := range rows {
		if err := svc.CreateTransaction(ctx, acct, &rows[i]); err != nil {
			t.Fatalf("seed transaction %d: %v", i, err)
		}
	}
}

func TestDashboardMonthView(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeAuth{}, time.Now())
	acct := freeAccount()
	seedMonth(t, svc, acct)

	dash, err := svc.Dashboard(context.Background(), acct, "2025-05")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dash.Totals.Income.Cents != 500000 {
		t.Errorf("income = %d, want 500000", dash.Totals.Income.Cents)
	}
	if dash.Totals.Expense.Cents != 100000 {
		t.Errorf("expense = %d, want 100000", dash.Totals.Expense.Cents)
	}
	if dash.Totals.Balance.Cents != 400000 {
		t.Errorf("balance = %d, want 400000", dash.Totals.Balance.Cents)
	}
	if len(dash.BalanceSeries) != 3 {
		t.Errorf("balance series has %d points, want 3", len(dash.BalanceSeries))
	}
	// Expenses have no category, so the dashboard shows the per-row fallback.
	if len(dash.ExpenseByCategory) != 1 || dash.ExpenseByCategory[0].Name != "Sem categoria" {
		t.Errorf("expense breakdown = %+v", dash.ExpenseByCategory)
	}
	if len(dash.Recent) != 3 {
		t.Errorf("recent feed has %d rows, want 3", len(dash.Recent))
	}
}

func TestDashboardRecentCapsAtFive(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeAuth{}, time.Now())
	acct := premiumAccount(core.NewDate(2030, 1, 1))
	ctx := context.Background()

	for day := 1; day <= 8; day++ {
		tx := core.Transaction{
			Date:        core.NewDate(2025, 5, day),
			Description: "Compra",
			Type:        core.EntryExpense,
			Amount:      core.Money{Cents: 1000},
		}
		if err := svc.CreateTransaction(ctx, acct, &tx); err != nil {
			t.Fatalf("seed transaction %d: %v", day, err)
		}
	}

	dash, err := svc.Dashboard(ctx, acct, "2025-05")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(dash.Recent) != 5 {
		t.Errorf("recent feed has %d rows, want 5", len(dash.Recent))
	}
}

func TestDashboardRejectsBadMonth(t *testing.T) {
	svc := newTestService(&fakeRepo{}, &fakeAuth{}, time.Now())
	if _, err := svc.Dashboard(context.Background(), freeAccount(), "05/2025"); err == nil {
		t.Fatal("expected invalid month error")
	}
}

func TestDetailedReportRejectsInvertedRange(t *testing.T) {
	svc := newTestService(&fakeRepo{}, &fakeAuth{}, time.Now())
	_, err := svc.DetailedReport(context.Background(), freeAccount(),
		core.NewDate(2025, 5, 31), core.NewDate(2025, 5, 1))
	if err == nil {
		t.Fatal("expected range error")
	}
}

func TestDetailedReportCombinesSources(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeAuth{}, time.Now())
	acct := freeAccount()
	seedMonth(t, svc, acct)

	entry := core.FutureEntry{
		ExpectedDate: core.NewDate(2025, 5, 28),
		Description:  "Aluguel",
		Type:         core.EntryExpense,
		Amount:       core.Money{Cents: 150000},
	}
	if err := svc.CreateFutureEntry(context.Background(), acct, &entry); err != nil {
		t.Fatalf("create entry: %v", err)
	}

	rep, err := svc.DetailedReport(context.Background(), acct,
		core.NewDate(2025, 5, 1), core.NewDate(2025, 5, 31))
	if err != nil {
		t.Fatalf("detailed report: %v", err)
	}
	if rep.Report.ExpenseFromTransactions.Cents != 100000 {
		t.Errorf("expense from transactions = %d, want 100000", rep.Report.ExpenseFromTransactions.Cents)
	}
	if rep.Report.ExpenseFromFuture.Cents != 150000 {
		t.Errorf("expense from future = %d, want 150000", rep.Report.ExpenseFromFuture.Cents)
	}
	if rep.Report.Expense.Cents != 250000 {
		t.Errorf("combined expense = %d, want 250000", rep.Report.Expense.Cents)
	}
	if rep.Report.MostRecentExpenseDate == nil || rep.Report.MostRecentExpenseDate.String() != "2025-05-28" {
		t.Errorf("most recent expense date = %v, want 2025-05-28", rep.Report.MostRecentExpenseDate)
	}
	// The detailed view folds uncategorized rows into Outros.
	if len(rep.ExpenseByCategory) != 1 || rep.ExpenseByCategory[0].Name != "Outros" {
		t.Errorf("expense breakdown = %+v", rep.ExpenseByCategory)
	}
}

func TestUpcomingOccurrences(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeAuth{}, time.Now())
	acct := freeAccount()
	ctx := context.Background()

	entries := []core.FutureEntry{
		{ExpectedDate: core.NewDate(2025, 6, 20), Description: "Parcela", Type: core.EntryExpense, Amount: core.Money{Cents: 1000}},
		{ExpectedDate: core.NewDate(2025, 6, 5), Description: "Aluguel", Type: core.EntryExpense, Amount: core.Money{Cents: 2000},
			Recurring: true, Period: core.Monthly},
		{ExpectedDate: core.NewDate(2025, 12, 25), Description: "Distante", Type: core.EntryExpense, Amount: core.Money{Cents: 3000}},
	}
	for i := range entries {
		if err := svc.CreateFutureEntry(ctx, acct, &entries[i]); err != nil {
			t.Fatalf("create entry %d: %v", i, err)
		}
	}

	after := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	occ, err := svc.UpcomingOccurrences(ctx, acct, after, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(occ) != 2 {
		t.Fatalf("got %d occurrences, want 2 (the December entry is outside the horizon): %+v", len(occ), occ)
	}
	if occ[0].Entry.Description != "Aluguel" || occ[1].Entry.Description != "Parcela" {
		t.Errorf("occurrences not sorted by due date: %q then %q",
			occ[0].Entry.Description, occ[1].Entry.Description)
	}
}

func TestExportTransactionsCSV(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeAuth{}, time.Now())
	acct := freeAccount()
	seedMonth(t, svc, acct)

	out, err := svc.ExportTransactionsCSV(context.Background(), acct, storage.TransactionFilter{Month: "2025-05"})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasPrefix(out, "Data,Descrição,Categoria,Tipo,Valor,Mês,Pagador,Recebedor\n") {
		t.Fatalf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "Salário") || !strings.Contains(out, "Receita") {
		t.Errorf("income row missing:\n%s", out)
	}
}
