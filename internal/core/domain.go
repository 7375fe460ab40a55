package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// EntryType is the closed income/expense discriminator shared by transactions
// and future entries. Wire formats use Portuguese labels (two different
// vocabularies, see internal/storage); in memory there is exactly one enum.
type EntryType string

const (
	EntryIncome  EntryType = "income"
	EntryExpense EntryType = "expense"
)

func (t EntryType) Valid() bool {
	return t == EntryIncome || t == EntryExpense
}

// RecurrencePeriod enumerates how often a recurring future entry repeats.
type RecurrencePeriod string

const (
	Daily      RecurrencePeriod = "daily"
	Weekly     RecurrencePeriod = "weekly"
	Biweekly   RecurrencePeriod = "biweekly"
	Monthly    RecurrencePeriod = "monthly"
	Bimonthly  RecurrencePeriod = "bimonthly"
	Quarterly  RecurrencePeriod = "quarterly"
	Semiannual RecurrencePeriod = "semiannual"
	Annual     RecurrencePeriod = "annual"
)

func (p RecurrencePeriod) Valid() bool {
	switch p {
	case Daily, Weekly, Biweekly, Monthly, Bimonthly, Quarterly, Semiannual, Annual:
		return true
	}
	return false
}

// FutureStatus is the lifecycle state of a scheduled entry.
type FutureStatus string

const (
	StatusPending  FutureStatus = "pending"
	StatusSettled  FutureStatus = "settled"
	StatusCanceled FutureStatus = "canceled"
)

func (s FutureStatus) Valid() bool {
	return s == StatusPending || s == StatusSettled || s == StatusCanceled
}

// AccountStatus is the subscription tier of a user account.
type AccountStatus string

const (
	AccountFree    AccountStatus = "free"
	AccountPremium AccountStatus = "premium"
)

// GoalStatus is the explicit state flag stored on a savings goal. A goal can
// also count as finished by progress alone, see Goal.Finished.
type GoalStatus string

const (
	GoalInProgress GoalStatus = "in_progress"
	GoalFinished   GoalStatus = "finished"
)

var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidMonth       = errors.New("invalid month reference")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidType        = errors.New("invalid entry type")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidPeriod      = errors.New("invalid recurrence period")
	ErrEmptyDescription   = errors.New("empty description")
	ErrPeriodWithoutFlag  = errors.New("recurrence period set on non-recurring entry")
	ErrInstallmentFields  = errors.New("installment fields set on non-installment entry")
	ErrMissingPeriod      = errors.New("recurring entry without recurrence period")
	ErrMissingInstallment = errors.New("installment entry without installment count")
)

type (
	// Date is a calendar day. The time-of-day part is always midnight UTC;
	// JSON and PostgREST wire format is "2006-01-02".
	Date struct {
		time.Time
	}

	// MonthRef labels a calendar month as "YYYY-MM", the grouping key the
	// transactions table is filtered by.
	MonthRef string

	// Money is an amount in centavos. All arithmetic happens in cents so
	// totals stay exact; floats appear only at render time.
	Money struct {
		Cents int64
	}

	// Transaction is a realized income or expense row, scoped to one user.
	// The JSON tags are the API wire format; PostgREST rows have their own
	// structs in internal/storage.
	Transaction struct {
		ID          int64     `json:"id"`
		UserID      int64     `json:"user_id"`
		Date        Date      `json:"date"`
		Description string    `json:"description"`
		CategoryID  *int64    `json:"category_id"`
		Type        EntryType `json:"type"`
		Amount      Money     `json:"amount"`
		Month       MonthRef  `json:"month"`
		Payer       string    `json:"payer"`
		Payee       string    `json:"payee"`
	}

	// FutureEntry is a scheduled, possibly recurring or installment-based
	// entry that has not been realized yet.
	FutureEntry struct {
		ID               int64            `json:"id"`
		UserID           int64            `json:"user_id"`
		ExpectedDate     Date             `json:"expected_date"`
		Description      string           `json:"description"`
		CategoryID       *int64           `json:"category_id"`
		Type             EntryType        `json:"type"`
		Amount           Money            `json:"amount"`
		PayerPayee       string           `json:"payer_payee"`
		Recurring        bool             `json:"recurring"`
		Period           RecurrencePeriod `json:"period,omitempty"`
		Installment      bool             `json:"installment"`
		InstallmentCount int              `json:"installment_count,omitempty"`
		InstallmentIndex int              `json:"installment_index,omitempty"`
		Status           FutureStatus     `json:"status"`
		TransactionID    *int64           `json:"transaction_id"`
	}

	// Category is a user-defined grouping label referenced by id from
	// transactions and future entries.
	Category struct {
		ID          int64  `json:"id"`
		UserID      int64  `json:"user_id"`
		Description string `json:"description"`
	}

	// Goal is a savings target tracked against an accumulated amount.
	Goal struct {
		ID           int64      `json:"id"`
		UserID       int64      `json:"user_id"`
		Title        string     `json:"title"`
		Description  string     `json:"description"`
		Target       Money      `json:"target"`
		Current      Money      `json:"current"`
		StartDate    Date       `json:"start_date"`
		TargetDate   Date       `json:"target_date"` // optional, zero when unset
		Category     string     `json:"category"`
		Status       GoalStatus `json:"status"`
		FinishedDate Date       `json:"finished_date"` // optional
	}

	// Account is the user profile row carrying the subscription tier the
	// access gate evaluates.
	Account struct {
		ID            int64         `json:"id"`
		Name          string        `json:"name"`
		Email         string        `json:"email"`
		Phone         string        `json:"phone"`
		Status        AccountStatus `json:"status"`
		ExpiresAt     Date          `json:"expires_at"` // premium only
		AcceptedTerms bool          `json:"accepted_terms"`
	}
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "2006-01-02" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// IsEmpty reports whether the date is unset (optional dates store zero).
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	// PostgREST may return timestamps for date columns; keep the day part.
	if len(s) > 10 {
		s = s[:10]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MonthOf returns the month reference containing the given date.
func MonthOf(d Date) MonthRef {
	return MonthRef(d.Format("2006-01"))
}

func (m MonthRef) Validate() error {
	if _, err := time.Parse("2006-01", string(m)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidMonth, string(m))
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if t.Month != "" {
		if err := t.Month.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (f FutureEntry) Validate() error {
	if err := f.ExpectedDate.Validate(); err != nil {
		return errors.New("invalid expected date: " + err.Error())
	}
	if len(strings.TrimSpace(f.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(f.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if !f.Type.Valid() {
		return ErrInvalidType
	}
	if err := f.Amount.Validate(); err != nil {
		return err
	}
	if !f.Status.Valid() {
		return ErrInvalidStatus
	}

	// Period is set exactly when the entry is recurring.
	if f.Recurring {
		if !f.Period.Valid() {
			return ErrMissingPeriod
		}
	} else if f.Period != "" {
		return ErrPeriodWithoutFlag
	}

	// Installment counters are set exactly when the entry is an installment.
	if f.Installment {
		if f.InstallmentCount < 1 {
			return ErrMissingInstallment
		}
		if f.InstallmentIndex < 1 || f.InstallmentIndex > f.InstallmentCount {
			return fmt.Errorf("installment index %d out of range 1..%d", f.InstallmentIndex, f.InstallmentCount)
		}
	} else if f.InstallmentCount != 0 || f.InstallmentIndex != 0 {
		return ErrInstallmentFields
	}

	return nil
}

func (c Category) Validate() error {
	if len(strings.TrimSpace(c.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(c.Description) > 100 {
		return errors.New("description too long (max 100 characters)")
	}
	return nil
}

func (g Goal) Validate() error {
	if len(strings.TrimSpace(g.Title)) == 0 {
		return errors.New("empty title")
	}
	if err := g.Target.Validate(); err != nil {
		return err
	}
	if g.Current.Cents < 0 {
		return ErrInvalidAmount
	}
	if err := g.StartDate.Validate(); err != nil {
		return errors.New("invalid start date: " + err.Error())
	}
	if !g.TargetDate.IsEmpty() && g.TargetDate.Before(g.StartDate.Time) {
		return errors.New("target date before start date")
	}
	if g.Status != GoalInProgress && g.Status != GoalFinished {
		return ErrInvalidStatus
	}
	return nil
}
