package storage

import (
	"errors"
	"testing"

	"github.com/Glivan2903/minhagrana/internal/core"
)

func TestTransactionTypeLabels(t *testing.T) {
	cases := []struct {
		typ   core.EntryType
		label string
	}{
		{core.EntryIncome, "receita"},
		{core.EntryExpense, "despesa"},
	}
	for _, tc := range cases {
		label, err := transactionTypeLabel(tc.typ)
		if err != nil {
			t.Fatalf("transactionTypeLabel(%q): %v", tc.typ, err)
		}
		if label != tc.label {
			t.Errorf("transactionTypeLabel(%q) = %q, want %q", tc.typ, label, tc.label)
		}
		back, err := transactionTypeFromLabel(label)
		if err != nil {
			t.Fatalf("transactionTypeFromLabel(%q): %v", label, err)
		}
		if back != tc.typ {
			t.Errorf("round trip of %q came back as %q", tc.typ, back)
		}
	}
}

func TestFutureTypeLabels(t *testing.T) {
	cases := []struct {
		typ   core.EntryType
		label string
	}{
		{core.EntryIncome, "entrada"},
		{core.EntryExpense, "saida"},
	}
	for _, tc := range cases {
		label, err := futureTypeLabel(tc.typ)
		if err != nil {
			t.Fatalf("futureTypeLabel(%q): %v", tc.typ, err)
		}
		if label != tc.label {
			t.Errorf("futureTypeLabel(%q) = %q, want %q", tc.typ, label, tc.label)
		}
		back, err := futureTypeFromLabel(label)
		if err != nil {
			t.Fatalf("futureTypeFromLabel(%q): %v", label, err)
		}
		if back != tc.typ {
			t.Errorf("round trip of %q came back as %q", tc.typ, back)
		}
	}
}

// The two tables speak different dialects. A transactions label must never be
// accepted on the future-entries path and vice versa.
func TestVocabulariesDoNotCross(t *testing.T) {
	if _, err := transactionTypeFromLabel("entrada"); !errors.Is(err, core.ErrInvalidType) {
		t.Errorf("transactionTypeFromLabel(entrada) err = %v, want ErrInvalidType", err)
	}
	if _, err := transactionTypeFromLabel("saida"); !errors.Is(err, core.ErrInvalidType) {
		t.Errorf("transactionTypeFromLabel(saida) err = %v, want ErrInvalidType", err)
	}
	if _, err := futureTypeFromLabel("receita"); !errors.Is(err, core.ErrInvalidType) {
		t.Errorf("futureTypeFromLabel(receita) err = %v, want ErrInvalidType", err)
	}
	if _, err := futureTypeFromLabel("despesa"); !errors.Is(err, core.ErrInvalidType) {
		t.Errorf("futureTypeFromLabel(despesa) err = %v, want ErrInvalidType", err)
	}
}

func TestFutureStatusLabels(t *testing.T) {
	cases := []struct {
		status core.FutureStatus
		label  string
	}{
		{core.StatusPending, "pendente"},
		{core.StatusSettled, "efetivado"},
		{core.StatusCanceled, "cancelado"},
	}
	for _, tc := range cases {
		label, err := futureStatusLabel(tc.status)
		if err != nil {
			t.Fatalf("futureStatusLabel(%q): %v", tc.status, err)
		}
		if label != tc.label {
			t.Errorf("futureStatusLabel(%q) = %q, want %q", tc.status, label, tc.label)
		}
		back, err := futureStatusFromLabel(label)
		if err != nil {
			t.Fatalf("futureStatusFromLabel(%q): %v", label, err)
		}
		if back != tc.status {
			t.Errorf("round trip of %q came back as %q", tc.status, back)
		}
	}
}

func TestGoalStatusFromLabelLegacyRows(t *testing.T) {
	cases := []struct {
		label string
		want  core.GoalStatus
	}{
		{"Finalizada", core.GoalFinished},
		{"Em andamento", core.GoalInProgress},
		{"ativa", core.GoalInProgress},
		{"", core.GoalInProgress},
	}
	for _, tc := range cases {
		if got := goalStatusFromLabel(tc.label); got != tc.want {
			t.Errorf("goalStatusFromLabel(%q) = %q, want %q", tc.label, got, tc.want)
		}
	}
}

func TestPeriodLabelsRoundTrip(t *testing.T) {
	for period, label := range periodLabels {
		got, ok := periodsByLabel[label]
		if !ok {
			t.Fatalf("label %q missing from inverse map", label)
		}
		if got != period {
			t.Errorf("label %q maps back to %q, want %q", label, got, period)
		}
	}
	if len(periodLabels) != 8 {
		t.Errorf("expected 8 recurrence periods, got %d", len(periodLabels))
	}
}

func TestTransactionRowRoundTrip(t *testing.T) {
	catID := int64(7)
	tx := core.Transaction{
		ID:          42,
		UserID:      3,
		Date:        core.NewDate(2025, 2, 15),
		Description: "Mercado",
		CategoryID:  &catID,
		Type:        core.EntryExpense,
		Amount:      core.Money{Cents: 12345},
		Month:       "2025-02",
		Payer:       "Ana",
	}
	row, err := toTransactionRow(tx)
	if err != nil {
		t.Fatalf("toTransactionRow: %v", err)
	}
	if row.Type != "despesa" {
		t.Errorf("row type = %q, want despesa", row.Type)
	}
	if row.Amount != 123.45 {
		t.Errorf("row amount = %v, want 123.45", row.Amount)
	}
	back, err := row.toCore()
	if err != nil {
		t.Fatalf("toCore: %v", err)
	}
	if back.Amount.Cents != tx.Amount.Cents {
		t.Errorf("amount round trip: got %d cents, want %d", back.Amount.Cents, tx.Amount.Cents)
	}
	if back.Type != tx.Type || back.Month != tx.Month || *back.CategoryID != catID {
		t.Errorf("round trip mismatch: %+v", back)
	}
}

func TestFutureEntryRowRecurring(t *testing.T) {
	entry := core.FutureEntry{
		ID:           9,
		UserID:       3,
		ExpectedDate: core.NewDate(2025, 3, 1),
		Description:  "Aluguel",
		Type:         core.EntryExpense,
		Amount:       core.Money{Cents: 150000},
		Recurring:    true,
		Period:       core.Monthly,
		Status:       core.StatusPending,
	}
	row, err := toFutureEntryRow(entry)
	if err != nil {
		t.Fatalf("toFutureEntryRow: %v", err)
	}
	if row.Period == nil || *row.Period != "Mensal" {
		t.Fatalf("row period = %v, want Mensal", row.Period)
	}
	if row.Type != "saida" {
		t.Errorf("row type = %q, want saida", row.Type)
	}
	back, err := row.toCore()
	if err != nil {
		t.Fatalf("toCore: %v", err)
	}
	if back.Period != core.Monthly || !back.Recurring {
		t.Errorf("round trip lost recurrence: %+v", back)
	}
}

func TestFutureEntryRowRejectsUnknownPeriodLabel(t *testing.T) {
	bad := "Lunar"
	row := futureEntryRow{
		Type:      "entrada",
		Status:    "pendente",
		Recurring: true,
		Period:    &bad,
	}
	if _, err := row.toCore(); !errors.Is(err, core.ErrInvalidPeriod) {
		t.Errorf("toCore err = %v, want ErrInvalidPeriod", err)
	}
}
