// Command relatorio prints a monthly report for one account to the terminal.
// It talks to the same Supabase project as the server and is meant for quick
// checks without opening the frontend.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Glivan2903/minhagrana/internal/cli"
	"github.com/Glivan2903/minhagrana/internal/core"
	"github.com/Glivan2903/minhagrana/internal/report"
	"github.com/Glivan2903/minhagrana/internal/services"
)

func main() {
	now := time.Now()
	thisMonth := core.MonthOf(core.NewDate(now.Year(), int(now.Month()), now.Day()))

	email := flag.String("email", "", "account email to report on")
	month := flag.String("month", string(thisMonth), "month to report, YYYY-MM")
	upcoming := flag.Bool("upcoming", false, "include entries due in the next 30 days")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "usage: relatorio -email user@example.com [-month 2025-06] [-upcoming]")
		os.Exit(2)
	}

	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)
	svc, repo := cli.BuildService(cfg, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	acct, err := repo.GetAccountByEmail(ctx, *email)
	if err != nil {
		logger.Error("Account lookup failed", "email", *email, "error", err)
		os.Exit(1)
	}

	dash, err := svc.Dashboard(ctx, acct, core.MonthRef(*month))
	if err != nil {
		logger.Error("Report failed", "month", *month, "error", err)
		os.Exit(1)
	}

	fmt.Printf("Relatório de %s — %s\n\n", acct.Name, dash.Month)
	printTotals(dash)
	printBreakdown("Despesas por categoria", dash.ExpenseByCategory)
	printBreakdown("Receitas por categoria", dash.IncomeByCategory)
	printGoals(dash.Goals)

	if *upcoming {
		occ, err := svc.UpcomingOccurrences(ctx, acct, time.Now(), 30*24*time.Hour)
		if err != nil {
			logger.Error("Upcoming projection failed", "error", err)
			os.Exit(1)
		}
		printUpcoming(occ)
	}
}

func printTotals(dash services.Dashboard) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Receitas", "Despesas", "Saldo", "% gasto"})
	balance := dash.Totals.Balance.FormatBRL()
	if dash.Totals.Balance.Cents < 0 {
		balance = text.FgRed.Sprint(balance)
	}
	t.AppendRow(table.Row{
		dash.Totals.Income.FormatBRL(),
		dash.Totals.Expense.FormatBRL(),
		balance,
		fmt.Sprintf("%.1f%%", dash.Totals.ExpenseRatioPercent),
	})
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Render()
	fmt.Println()
}

func printBreakdown(title string, slices []report.CategorySlice) {
	if len(slices) == 0 {
		return
	}
	var total core.Money
	for _, s := range slices {
		total = total.Add(s.Total)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Categoria", "Total"})
	for _, s := range slices {
		t.AppendRow(table.Row{s.Name, s.Total.FormatBRL()})
	}
	t.AppendSeparator()
	t.AppendFooter(table.Row{text.Bold.Sprint("Total"), text.Bold.Sprint(total.FormatBRL())})
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	t.Render()
	fmt.Println()
}

func printGoals(goals []services.GoalProgress) {
	if len(goals) == 0 {
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Metas")
	t.AppendHeader(table.Row{"Meta", "Acumulado", "Alvo", "Progresso", "Dias restantes"})
	for _, g := range goals {
		progress := fmt.Sprintf("%d%%", g.ProgressPercent)
		if g.Finished {
			progress = text.FgGreen.Sprint("concluída")
		}
		days := "-"
		if !g.Finished && g.DaysRemaining > 0 {
			days = fmt.Sprintf("%d", g.DaysRemaining)
		}
		t.AppendRow(table.Row{g.Title, g.Current.FormatBRL(), g.Target.FormatBRL(), progress, days})
	}
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	t.Render()
	fmt.Println()
}

func printUpcoming(occ []services.Occurrence) {
	if len(occ) == 0 {
		fmt.Println("Nenhum lançamento previsto nos próximos 30 dias.")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Próximos lançamentos")
	t.AppendHeader(table.Row{"Data", "Descrição", "Tipo", "Valor"})
	for _, o := range occ {
		kind := "entrada"
		if o.Entry.Type == core.EntryExpense {
			kind = text.FgRed.Sprint("saída")
		}
		t.AppendRow(table.Row{o.Due.String(), o.Entry.Description, kind, o.Entry.Amount.FormatBRL()})
	}
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 4, Align: text.AlignRight}})
	t.Render()
}
