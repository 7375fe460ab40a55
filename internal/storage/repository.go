// Package storage adapts the hosted Supabase project (PostgREST row API) to
// the domain model. Every query carries the usuario_id ownership filter;
// omitting it is the bug class the fake-backed service tests guard against.
package storage

import (
	"context"
	"errors"

	"github.com/Glivan2903/minhagrana/internal/core"
)

// ErrNotFound is returned when a row scoped to the user does not exist.
var ErrNotFound = errors.New("row not found")

// TransactionFilter narrows ListTransactions. Zero fields are ignored.
type TransactionFilter struct {
	Month     core.MonthRef
	StartDate *core.Date
	EndDate   *core.Date
	Type      core.EntryType
	Limit     int
}

// FutureEntryFilter narrows ListFutureEntries. Zero fields are ignored.
type FutureEntryFilter struct {
	StartDate *core.Date
	EndDate   *core.Date
	Status    core.FutureStatus
	Type      core.EntryType
}

// Repository is the row-store port the service layer talks to. The Supabase
// implementation is the production adapter; tests use in-memory fakes.
type Repository interface {
	// Accounts
	CreateAccount(ctx context.Context, acct *core.Account) error
	GetAccountByEmail(ctx context.Context, email string) (core.Account, error)
	ListAccounts(ctx context.Context) ([]core.Account, error)

	// Transactions
	CreateTransaction(ctx context.Context, tx *core.Transaction) error
	ListTransactions(ctx context.Context, userID int64, f TransactionFilter) ([]core.Transaction, error)
	CountTransactions(ctx context.Context, userID int64) (int, error)
	CountTransactionsByCategory(ctx context.Context, userID, categoryID int64) (int, error)
	UpdateTransaction(ctx context.Context, tx *core.Transaction) error
	DeleteTransaction(ctx context.Context, id, userID int64) error

	// Future entries
	CreateFutureEntry(ctx context.Context, e *core.FutureEntry) error
	ListFutureEntries(ctx context.Context, userID int64, f FutureEntryFilter) ([]core.FutureEntry, error)
	CountFutureEntries(ctx context.Context, userID int64) (int, error)
	UpdateFutureEntry(ctx context.Context, e *core.FutureEntry) error
	DeleteFutureEntry(ctx context.Context, id, userID int64) error

	// Categories
	CreateCategory(ctx context.Context, c *core.Category) error
	ListCategories(ctx context.Context, userID int64) ([]core.Category, error)
	UpdateCategory(ctx context.Context, c *core.Category) error
	DeleteCategory(ctx context.Context, id, userID int64) error

	// Goals
	CreateGoal(ctx context.Context, g *core.Goal) error
	ListGoals(ctx context.Context, userID int64) ([]core.Goal, error)
	UpdateGoal(ctx context.Context, g *core.Goal) error
	DeleteGoal(ctx context.Context, id, userID int64) error
}
