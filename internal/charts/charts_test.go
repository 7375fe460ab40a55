package charts

import (
	"bytes"
	"testing"

	"github.com/Glivan2903/minhagrana/internal/core"
	"github.com/Glivan2903/minhagrana/internal/report"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestCategoryPieEmptyInput(t *testing.T) {
	r := NewRenderer()
	png, err := r.CategoryPie("Despesas", nil)
	if err != nil {
		t.Fatalf("CategoryPie: %v", err)
	}
	if png != nil {
		t.Fatalf("expected nil bytes for empty breakdown, got %d bytes", len(png))
	}
}

func TestCategoryPieRendersPNG(t *testing.T) {
	r := NewRenderer()
	id := int64(1)
	slices := []report.CategorySlice{
		{CategoryID: &id, Name: "Alimentação", Total: core.Money{Cents: 50000}, Color: "#0088FE"},
		{Name: "Outros", Total: core.Money{Cents: 25000}, Color: "#00C49F"},
	}
	png, err := r.CategoryPie("Despesas por categoria", slices)
	if err != nil {
		t.Fatalf("CategoryPie: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Fatalf("output does not look like a PNG (first bytes %v)", png[:min(4, len(png))])
	}
}

func TestIncomeExpenseDonutEmpty(t *testing.T) {
	r := NewRenderer()
	png, err := r.IncomeExpenseDonut(report.Totals{})
	if err != nil {
		t.Fatalf("IncomeExpenseDonut: %v", err)
	}
	if png != nil {
		t.Fatal("zero totals should not render")
	}
}

func TestIncomeExpenseDonutRendersPNG(t *testing.T) {
	r := NewRenderer()
	totals := report.Totals{
		Income:  core.Money{Cents: 500000},
		Expense: core.Money{Cents: 120000},
	}
	png, err := r.IncomeExpenseDonut(totals)
	if err != nil {
		t.Fatalf("IncomeExpenseDonut: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Fatal("output does not look like a PNG")
	}
}

func TestRunningBalanceSinglePoint(t *testing.T) {
	r := NewRenderer()
	points := []report.BalancePoint{
		{Date: core.NewDate(2025, 1, 1), Balance: core.Money{Cents: 1000}},
	}
	png, err := r.RunningBalance(points)
	if err != nil {
		t.Fatalf("RunningBalance: %v", err)
	}
	if png != nil {
		t.Fatal("single point should not render")
	}
}

func TestRunningBalanceRendersPNG(t *testing.T) {
	r := NewRenderer()
	points := []report.BalancePoint{
		{Date: core.NewDate(2025, 1, 1), Balance: core.Money{Cents: 100000}},
		{Date: core.NewDate(2025, 1, 15), Balance: core.Money{Cents: 70000}},
		{Date: core.NewDate(2025, 1, 31), Balance: core.Money{Cents: 120000}},
	}
	png, err := r.RunningBalance(points)
	if err != nil {
		t.Fatalf("RunningBalance: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Fatal("output does not look like a PNG")
	}
}
