package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/supabase-community/supabase-go"

	"github.com/Glivan2903/minhagrana/internal/core"
)

// SupabaseRepository talks to the hosted project through PostgREST. It is the
// only place that knows column names and wire labels; everything above it
// deals in core types.
type SupabaseRepository struct {
	client *supabase.Client
}

func NewSupabaseRepository(url, key string) (*SupabaseRepository, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("supabase client: %w", err)
	}
	return &SupabaseRepository{client: client}, nil
}

func userFilter(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// Accounts

func (r *SupabaseRepository) CreateAccount(ctx context.Context, acct *core.Account) error {
	row := toAccountRow(*acct)
	data, _, err := r.client.From(tableAccounts).Insert(row, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	var created []accountRow
	if err := json.Unmarshal(data, &created); err != nil {
		return fmt.Errorf("parse created account: %w", err)
	}
	if len(created) > 0 {
		*acct = created[0].toCore()
	}
	return nil
}

func (r *SupabaseRepository) GetAccountByEmail(ctx context.Context, email string) (core.Account, error) {
	data, _, err := r.client.From(tableAccounts).
		Select("*", "", false).
		Eq("email", email).
		Limit(1, "").
		Execute()
	if err != nil {
		return core.Account{}, fmt.Errorf("get account: %w", err)
	}
	var rows []accountRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return core.Account{}, fmt.Errorf("parse account: %w", err)
	}
	if len(rows) == 0 {
		return core.Account{}, fmt.Errorf("account %q: %w", email, ErrNotFound)
	}
	return rows[0].toCore(), nil
}

// ListAccounts returns every account. The recurring sweep walks this to
// materialize due entries for each user.
func (r *SupabaseRepository) ListAccounts(ctx context.Context) ([]core.Account, error) {
	data, _, err := r.client.From(tableAccounts).
		Select("*", "", false).
		Order("id.asc", nil).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	var rows []accountRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse accounts: %w", err)
	}
	accounts := make([]core.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, row.toCore())
	}
	return accounts, nil
}

// Transactions

func (r *SupabaseRepository) CreateTransaction(ctx context.Context, tx *core.Transaction) error {
	row, err := toTransactionRow(*tx)
	if err != nil {
		return err
	}
	data, _, err := r.client.From(tableTransactions).Insert(row, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	var created []transactionRow
	if err := json.Unmarshal(data, &created); err != nil {
		return fmt.Errorf("parse created transaction: %w", err)
	}
	if len(created) > 0 {
		out, err := created[0].toCore()
		if err != nil {
			return err
		}
		*tx = out
	}
	return nil
}

func (r *SupabaseRepository) ListTransactions(ctx context.Context, userID int64, f TransactionFilter) ([]core.Transaction, error) {
	query := r.client.From(tableTransactions).
		Select("*", "", false).
		Eq("usuario_id", userFilter(userID))

	if f.Month != "" {
		query = query.Eq("mes", string(f.Month))
	}
	if f.StartDate != nil {
		query = query.Gte("data", f.StartDate.Format("2006-01-02"))
	}
	if f.EndDate != nil {
		query = query.Lte("data", f.EndDate.Format("2006-01-02"))
	}
	if f.Type != "" {
		tipo, err := transactionTypeLabel(f.Type)
		if err != nil {
			return nil, err
		}
		query = query.Eq("tipo", tipo)
	}
	query = query.Order("data.desc", nil)
	if f.Limit > 0 {
		query = query.Limit(f.Limit, "")
	}

	data, _, err := query.Execute()
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	var rows []transactionRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse transactions: %w", err)
	}
	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		tx, err := row.toCore()
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}

func (r *SupabaseRepository) CountTransactions(ctx context.Context, userID int64) (int, error) {
	_, count, err := r.client.From(tableTransactions).
		Select("id", "exact", false).
		Eq("usuario_id", userFilter(userID)).
		Execute()
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return int(count), nil
}

func (r *SupabaseRepository) CountTransactionsByCategory(ctx context.Context, userID, categoryID int64) (int, error) {
	_, count, err := r.client.From(tableTransactions).
		Select("id", "exact", false).
		Eq("usuario_id", userFilter(userID)).
		Eq("categoria_id", strconv.FormatInt(categoryID, 10)).
		Execute()
	if err != nil {
		return 0, fmt.Errorf("count transactions by category: %w", err)
	}
	return int(count), nil
}

func (r *SupabaseRepository) UpdateTransaction(ctx context.Context, tx *core.Transaction) error {
	row, err := toTransactionRow(*tx)
	if err != nil {
		return err
	}
	_, count, err := r.client.From(tableTransactions).
		Update(row, "", "exact").
		Eq("id", strconv.FormatInt(tx.ID, 10)).
		Eq("usuario_id", userFilter(tx.UserID)).
		Execute()
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("transaction %d: %w", tx.ID, ErrNotFound)
	}
	return nil
}

func (r *SupabaseRepository) DeleteTransaction(ctx context.Context, id, userID int64) error {
	_, count, err := r.client.From(tableTransactions).
		Delete("", "exact").
		Eq("id", strconv.FormatInt(id, 10)).
		Eq("usuario_id", userFilter(userID)).
		Execute()
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}
	return nil
}

// Future entries

func (r *SupabaseRepository) CreateFutureEntry(ctx context.Context, e *core.FutureEntry) error {
	row, err := toFutureEntryRow(*e)
	if err != nil {
		return err
	}
	data, _, err := r.client.From(tableFutureEntries).Insert(row, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("create future entry: %w", err)
	}
	var created []futureEntryRow
	if err := json.Unmarshal(data, &created); err != nil {
		return fmt.Errorf("parse created future entry: %w", err)
	}
	if len(created) > 0 {
		out, err := created[0].toCore()
		if err != nil {
			return err
		}
		*e = out
	}
	return nil
}

func (r *SupabaseRepository) ListFutureEntries(ctx context.Context, userID int64, f FutureEntryFilter) ([]core.FutureEntry, error) {
	query := r.client.From(tableFutureEntries).
		Select("*", "", false).
		Eq("usuario_id", userFilter(userID))

	if f.StartDate != nil {
		query = query.Gte("data_prevista", f.StartDate.Format("2006-01-02"))
	}
	if f.EndDate != nil {
		query = query.Lte("data_prevista", f.EndDate.Format("2006-01-02"))
	}
	if f.Status != "" {
		label, err := futureStatusLabel(f.Status)
		if err != nil {
			return nil, err
		}
		query = query.Eq("status", label)
	}
	if f.Type != "" {
		tipo, err := futureTypeLabel(f.Type)
		if err != nil {
			return nil, err
		}
		query = query.Eq("tipo", tipo)
	}
	query = query.Order("data_prevista.asc", nil)

	data, _, err := query.Execute()
	if err != nil {
		return nil, fmt.Errorf("list future entries: %w", err)
	}
	var rows []futureEntryRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse future entries: %w", err)
	}
	out := make([]core.FutureEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := row.toCore()
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

func (r *SupabaseRepository) CountFutureEntries(ctx context.Context, userID int64) (int, error) {
	_, count, err := r.client.From(tableFutureEntries).
		Select("id", "exact", false).
		Eq("usuario_id", userFilter(userID)).
		Execute()
	if err != nil {
		return 0, fmt.Errorf("count future entries: %w", err)
	}
	return int(count), nil
}

func (r *SupabaseRepository) UpdateFutureEntry(ctx context.Context, e *core.FutureEntry) error {
	row, err := toFutureEntryRow(*e)
	if err != nil {
		return err
	}
	_, count, err := r.client.From(tableFutureEntries).
		Update(row, "", "exact").
		Eq("id", strconv.FormatInt(e.ID, 10)).
		Eq("usuario_id", userFilter(e.UserID)).
		Execute()
	if err != nil {
		return fmt.Errorf("update future entry: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("future entry %d: %w", e.ID, ErrNotFound)
	}
	return nil
}

func (r *SupabaseRepository) DeleteFutureEntry(ctx context.Context, id, userID int64) error {
	_, count, err := r.client.From(tableFutureEntries).
		Delete("", "exact").
		Eq("id", strconv.FormatInt(id, 10)).
		Eq("usuario_id", userFilter(userID)).
		Execute()
	if err != nil {
		return fmt.Errorf("delete future entry: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("future entry %d: %w", id, ErrNotFound)
	}
	return nil
}

// Categories

func (r *SupabaseRepository) CreateCategory(ctx context.Context, c *core.Category) error {
	row := toCategoryRow(*c)
	data, _, err := r.client.From(tableCategories).Insert(row, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	var created []categoryRow
	if err := json.Unmarshal(data, &created); err != nil {
		return fmt.Errorf("parse created category: %w", err)
	}
	if len(created) > 0 {
		*c = created[0].toCore()
	}
	return nil
}

func (r *SupabaseRepository) ListCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	data, _, err := r.client.From(tableCategories).
		Select("*", "", false).
		Eq("usuario_id", userFilter(userID)).
		Order("descricao.asc", nil).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	var rows []categoryRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse categories: %w", err)
	}
	out := make([]core.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toCore())
	}
	return out, nil
}

func (r *SupabaseRepository) UpdateCategory(ctx context.Context, c *core.Category) error {
	row := toCategoryRow(*c)
	_, count, err := r.client.From(tableCategories).
		Update(row, "", "exact").
		Eq("id", strconv.FormatInt(c.ID, 10)).
		Eq("usuario_id", userFilter(c.UserID)).
		Execute()
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("category %d: %w", c.ID, ErrNotFound)
	}
	return nil
}

func (r *SupabaseRepository) DeleteCategory(ctx context.Context, id, userID int64) error {
	_, count, err := r.client.From(tableCategories).
		Delete("", "exact").
		Eq("id", strconv.FormatInt(id, 10)).
		Eq("usuario_id", userFilter(userID)).
		Execute()
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("category %d: %w", id, ErrNotFound)
	}
	return nil
}

// Goals

func (r *SupabaseRepository) CreateGoal(ctx context.Context, g *core.Goal) error {
	row := toGoalRow(*g)
	data, _, err := r.client.From(tableGoals).Insert(row, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	var created []goalRow
	if err := json.Unmarshal(data, &created); err != nil {
		return fmt.Errorf("parse created goal: %w", err)
	}
	if len(created) > 0 {
		*g = created[0].toCore()
	}
	return nil
}

func (r *SupabaseRepository) ListGoals(ctx context.Context, userID int64) ([]core.Goal, error) {
	data, _, err := r.client.From(tableGoals).
		Select("*", "", false).
		Eq("usuario_id", userFilter(userID)).
		Order("data_inicio.desc", nil).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	var rows []goalRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse goals: %w", err)
	}
	out := make([]core.Goal, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toCore())
	}
	return out, nil
}

func (r *SupabaseRepository) UpdateGoal(ctx context.Context, g *core.Goal) error {
	row := toGoalRow(*g)
	_, count, err := r.client.From(tableGoals).
		Update(row, "", "exact").
		Eq("id", strconv.FormatInt(g.ID, 10)).
		Eq("usuario_id", userFilter(g.UserID)).
		Execute()
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("goal %d: %w", g.ID, ErrNotFound)
	}
	return nil
}

func (r *SupabaseRepository) DeleteGoal(ctx context.Context, id, userID int64) error {
	_, count, err := r.client.From(tableGoals).
		Delete("", "exact").
		Eq("id", strconv.FormatInt(id, 10)).
		Eq("usuario_id", userFilter(userID)).
		Execute()
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("goal %d: %w", id, ErrNotFound)
	}
	return nil
}
