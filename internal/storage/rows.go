package storage

import (
	"fmt"

	"github.com/Glivan2903/minhagrana/internal/core"
)

// Wire rows for the hosted PostgREST tables. Column names and labels are the
// store's, with Portuguese values the UI has always stored. Two independent
// type vocabularies exist on purpose: the transactions table speaks
// receita/despesa and the future-entries table speaks entrada/saida. Both map
// to the same closed enum here and nowhere else.

const (
	tableAccounts      = "usuarios"
	tableTransactions  = "transacoes"
	tableFutureEntries = "lancamentos_futuros"
	tableCategories    = "categoria_trasacoes" // sic, table name carries the historical typo
	tableGoals         = "metas"
)

type accountRow struct {
	ID            int64     `json:"id,omitempty"`
	Name          string    `json:"nome"`
	Email         string    `json:"email"`
	Phone         string    `json:"celular"`
	Status        string    `json:"status"`
	ExpiresAt     core.Date `json:"vencimento,omitempty"`
	AcceptedTerms bool      `json:"aceite_termos"`
}

type transactionRow struct {
	ID          int64     `json:"id,omitempty"`
	UserID      int64     `json:"usuario_id"`
	Date        core.Date `json:"data"`
	Description string    `json:"descricao"`
	CategoryID  *int64    `json:"categoria_id"`
	Type        string    `json:"tipo"`
	Amount      float64   `json:"valor"`
	Month       string    `json:"mes"`
	Payer       string    `json:"pagador,omitempty"`
	Payee       string    `json:"recebedor,omitempty"`
}

type futureEntryRow struct {
	ID               int64     `json:"id,omitempty"`
	UserID           int64     `json:"usuario_id"`
	ExpectedDate     core.Date `json:"data_prevista"`
	Description      string    `json:"descricao"`
	CategoryID       *int64    `json:"categoria_id"`
	Type             string    `json:"tipo"`
	Amount           float64   `json:"valor"`
	PayerPayee       string    `json:"pagador_recebedor,omitempty"`
	Recurring        bool      `json:"recorrente"`
	Period           *string   `json:"periodicidade"`
	Installment      bool      `json:"parcelamento"`
	InstallmentCount *int      `json:"numero_parcelas"`
	InstallmentIndex *int      `json:"parcela_atual"`
	Status           string    `json:"status"`
	TransactionID    *int64    `json:"transacao_id,omitempty"`
}

type categoryRow struct {
	ID          int64  `json:"id,omitempty"`
	UserID      int64  `json:"usuario_id"`
	Description string `json:"descricao"`
}

type goalRow struct {
	ID           int64     `json:"id,omitempty"`
	UserID       int64     `json:"usuario_id"`
	Title        string    `json:"titulo"`
	Description  string    `json:"descricao"`
	Target       float64   `json:"valor_meta"`
	Current      float64   `json:"valor_atual"`
	StartDate    core.Date `json:"data_inicio"`
	TargetDate   core.Date `json:"data_prevista,omitempty"`
	Category     string    `json:"categoria,omitempty"`
	Status       string    `json:"status"`
	FinishedDate core.Date `json:"data_finalizada,omitempty"`
}

// Transactions table vocabulary.
const (
	tipoReceita = "receita"
	tipoDespesa = "despesa"
)

// Future-entries table vocabulary.
const (
	tipoEntrada = "entrada"
	tipoSaida   = "saida"
)

const (
	statusPendente  = "pendente"
	statusEfetivado = "efetivado"
	statusCancelado = "cancelado"
)

const (
	goalEmAndamento = "Em andamento"
	goalFinalizada  = "Finalizada"
)

var periodLabels = map[core.RecurrencePeriod]string{
	core.Daily:      "Diário",
	core.Weekly:     "Semanal",
	core.Biweekly:   "Quinzenal",
	core.Monthly:    "Mensal",
	core.Bimonthly:  "Bimestral",
	core.Quarterly:  "Trimestral",
	core.Semiannual: "Semestral",
	core.Annual:     "Anual",
}

var periodsByLabel = invert(periodLabels)

func invert(m map[core.RecurrencePeriod]string) map[string]core.RecurrencePeriod {
	out := make(map[string]core.RecurrencePeriod, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

func transactionTypeLabel(t core.EntryType) (string, error) {
	switch t {
	case core.EntryIncome:
		return tipoReceita, nil
	case core.EntryExpense:
		return tipoDespesa, nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrInvalidType, string(t))
}

func transactionTypeFromLabel(s string) (core.EntryType, error) {
	switch s {
	case tipoReceita:
		return core.EntryIncome, nil
	case tipoDespesa:
		return core.EntryExpense, nil
	}
	return "", fmt.Errorf("%w: transactions label %q", core.ErrInvalidType, s)
}

func futureTypeLabel(t core.EntryType) (string, error) {
	switch t {
	case core.EntryIncome:
		return tipoEntrada, nil
	case core.EntryExpense:
		return tipoSaida, nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrInvalidType, string(t))
}

func futureTypeFromLabel(s string) (core.EntryType, error) {
	switch s {
	case tipoEntrada:
		return core.EntryIncome, nil
	case tipoSaida:
		return core.EntryExpense, nil
	}
	return "", fmt.Errorf("%w: future-entries label %q", core.ErrInvalidType, s)
}

func futureStatusLabel(s core.FutureStatus) (string, error) {
	switch s {
	case core.StatusPending:
		return statusPendente, nil
	case core.StatusSettled:
		return statusEfetivado, nil
	case core.StatusCanceled:
		return statusCancelado, nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrInvalidStatus, string(s))
}

func futureStatusFromLabel(s string) (core.FutureStatus, error) {
	switch s {
	case statusPendente:
		return core.StatusPending, nil
	case statusEfetivado:
		return core.StatusSettled, nil
	case statusCancelado:
		return core.StatusCanceled, nil
	}
	return "", fmt.Errorf("%w: future-entries label %q", core.ErrInvalidStatus, s)
}

func goalStatusLabel(s core.GoalStatus) string {
	if s == core.GoalFinished {
		return goalFinalizada
	}
	return goalEmAndamento
}

func goalStatusFromLabel(s string) core.GoalStatus {
	if s == goalFinalizada {
		return core.GoalFinished
	}
	// Legacy rows carry free-form labels; anything not finalizada counts as
	// still running.
	return core.GoalInProgress
}

func toTransactionRow(t core.Transaction) (transactionRow, error) {
	tipo, err := transactionTypeLabel(t.Type)
	if err != nil {
		return transactionRow{}, err
	}
	return transactionRow{
		ID:          t.ID,
		UserID:      t.UserID,
		Date:        t.Date,
		Description: t.Description,
		CategoryID:  t.CategoryID,
		Type:        tipo,
		Amount:      t.Amount.Reais(),
		Month:       string(t.Month),
		Payer:       t.Payer,
		Payee:       t.Payee,
	}, nil
}

func (r transactionRow) toCore() (core.Transaction, error) {
	typ, err := transactionTypeFromLabel(r.Type)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		ID:          r.ID,
		UserID:      r.UserID,
		Date:        r.Date,
		Description: r.Description,
		CategoryID:  r.CategoryID,
		Type:        typ,
		Amount:      core.Money{Cents: core.CentsFromFloat(r.Amount)},
		Month:       core.MonthRef(r.Month),
		Payer:       r.Payer,
		Payee:       r.Payee,
	}, nil
}

func toFutureEntryRow(f core.FutureEntry) (futureEntryRow, error) {
	tipo, err := futureTypeLabel(f.Type)
	if err != nil {
		return futureEntryRow{}, err
	}
	status, err := futureStatusLabel(f.Status)
	if err != nil {
		return futureEntryRow{}, err
	}
	row := futureEntryRow{
		ID:            f.ID,
		UserID:        f.UserID,
		ExpectedDate:  f.ExpectedDate,
		Description:   f.Description,
		CategoryID:    f.CategoryID,
		Type:          tipo,
		Amount:        f.Amount.Reais(),
		PayerPayee:    f.PayerPayee,
		Recurring:     f.Recurring,
		Installment:   f.Installment,
		Status:        status,
		TransactionID: f.TransactionID,
	}
	if f.Recurring {
		label, ok := periodLabels[f.Period]
		if !ok {
			return futureEntryRow{}, fmt.Errorf("%w: %q", core.ErrInvalidPeriod, string(f.Period))
		}
		row.Period = &label
	}
	if f.Installment {
		count, index := f.InstallmentCount, f.InstallmentIndex
		row.InstallmentCount = &count
		row.InstallmentIndex = &index
	}
	return row, nil
}

func (r futureEntryRow) toCore() (core.FutureEntry, error) {
	typ, err := futureTypeFromLabel(r.Type)
	if err != nil {
		return core.FutureEntry{}, err
	}
	status, err := futureStatusFromLabel(r.Status)
	if err != nil {
		return core.FutureEntry{}, err
	}
	f := core.FutureEntry{
		ID:            r.ID,
		UserID:        r.UserID,
		ExpectedDate:  r.ExpectedDate,
		Description:   r.Description,
		CategoryID:    r.CategoryID,
		Type:          typ,
		Amount:        core.Money{Cents: core.CentsFromFloat(r.Amount)},
		PayerPayee:    r.PayerPayee,
		Recurring:     r.Recurring,
		Installment:   r.Installment,
		Status:        status,
		TransactionID: r.TransactionID,
	}
	if r.Recurring && r.Period != nil {
		p, ok := periodsByLabel[*r.Period]
		if !ok {
			return core.FutureEntry{}, fmt.Errorf("%w: label %q", core.ErrInvalidPeriod, *r.Period)
		}
		f.Period = p
	}
	if r.Installment {
		if r.InstallmentCount != nil {
			f.InstallmentCount = *r.InstallmentCount
		}
		if r.InstallmentIndex != nil {
			f.InstallmentIndex = *r.InstallmentIndex
		}
	}
	return f, nil
}

func toAccountRow(a core.Account) accountRow {
	return accountRow{
		ID:            a.ID,
		Name:          a.Name,
		Email:         a.Email,
		Phone:         a.Phone,
		Status:        string(a.Status),
		ExpiresAt:     a.ExpiresAt,
		AcceptedTerms: a.AcceptedTerms,
	}
}

func (r accountRow) toCore() core.Account {
	status := core.AccountFree
	if r.Status == string(core.AccountPremium) {
		status = core.AccountPremium
	}
	return core.Account{
		ID:            r.ID,
		Name:          r.Name,
		Email:         r.Email,
		Phone:         r.Phone,
		Status:        status,
		ExpiresAt:     r.ExpiresAt,
		AcceptedTerms: r.AcceptedTerms,
	}
}

func toGoalRow(g core.Goal) goalRow {
	return goalRow{
		ID:           g.ID,
		UserID:       g.UserID,
		Title:        g.Title,
		Description:  g.Description,
		Target:       g.Target.Reais(),
		Current:      g.Current.Reais(),
		StartDate:    g.StartDate,
		TargetDate:   g.TargetDate,
		Category:     g.Category,
		Status:       goalStatusLabel(g.Status),
		FinishedDate: g.FinishedDate,
	}
}

func (r goalRow) toCore() core.Goal {
	return core.Goal{
		ID:           r.ID,
		UserID:       r.UserID,
		Title:        r.Title,
		Description:  r.Description,
		Target:       core.Money{Cents: core.CentsFromFloat(r.Target)},
		Current:      core.Money{Cents: core.CentsFromFloat(r.Current)},
		StartDate:    r.StartDate,
		TargetDate:   r.TargetDate,
		Category:     r.Category,
		Status:       goalStatusFromLabel(r.Status),
		FinishedDate: r.FinishedDate,
	}
}

func toCategoryRow(c core.Category) categoryRow {
	return categoryRow{ID: c.ID, UserID: c.UserID, Description: c.Description}
}

func (r categoryRow) toCore() core.Category {
	return core.Category{ID: r.ID, UserID: r.UserID, Description: r.Description}
}
