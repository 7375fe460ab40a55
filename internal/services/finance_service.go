// Package services orchestrates the domain operations: every handler calls
// through here, and this is the only layer that combines the row store, the
// auth backend, the access gate and the webhook notifier.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Glivan2903/minhagrana/internal/access"
	"github.com/Glivan2903/minhagrana/internal/core"
	"github.com/Glivan2903/minhagrana/internal/log"
	"github.com/Glivan2903/minhagrana/internal/notify"
	"github.com/Glivan2903/minhagrana/internal/storage"
)

// ErrCategoryInUse rejects deleting a category that still has transactions
// pointing at it.
var ErrCategoryInUse = errors.New("category has transactions")

// welcomeTimeout bounds the fire-and-forget webhook delivery after signup.
const welcomeTimeout = 15 * time.Second

// FinanceService is the application core behind the HTTP handlers.
type FinanceService struct {
	repo     storage.Repository
	auth     storage.Authenticator
	gate     *access.Gate
	notifier *notify.WelcomeNotifier
	logger   *log.Logger
	events   *log.StructuredLogger
}

func NewFinanceService(repo storage.Repository, auth storage.Authenticator, gate *access.Gate, notifier *notify.WelcomeNotifier, logger *log.Logger) *FinanceService {
	logger = logger.WithComponent(log.ComponentFinance)
	return &FinanceService{
		repo:     repo,
		auth:     auth,
		gate:     gate,
		notifier: notifier,
		logger:   logger,
		events:   log.NewStructuredLogger(logger),
	}
}

// SignupInput carries the fields of the registration form.
type SignupInput struct {
	Name          string
	Email         string
	Phone         string
	Password      string
	AcceptedTerms bool
}

// ErrTermsNotAccepted rejects signups without the terms checkbox.
var ErrTermsNotAccepted = errors.New("terms must be accepted")

// SignUp registers the auth user, creates the profile row as a free account
// and fires the welcome webhook in the background. Webhook failures never
// fail the signup.
func (s *FinanceService) SignUp(ctx context.Context, in SignupInput) (core.Account, storage.Session, error) {
	if !in.AcceptedTerms {
		return core.Account{}, storage.Session{}, ErrTermsNotAccepted
	}
	if in.Name == "" || in.Email == "" {
		return core.Account{}, storage.Session{}, core.ErrEmptyDescription
	}

	session, err := s.auth.SignUp(ctx, in.Email, in.Password)
	if err != nil {
		return core.Account{}, storage.Session{}, fmt.Errorf("sign up: %w", err)
	}

	acct := core.Account{
		Name:          in.Name,
		Email:         in.Email,
		Phone:         in.Phone,
		Status:        core.AccountFree,
		AcceptedTerms: true,
	}
	if err := s.repo.CreateAccount(ctx, &acct); err != nil {
		return core.Account{}, storage.Session{}, fmt.Errorf("create account row: %w", err)
	}

	if s.notifier != nil && s.notifier.Enabled() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), welcomeTimeout)
			defer cancel()
			s.notifier.Welcome(ctx, acct.Name, acct.Email, acct.Phone)
		}()
	}

	s.logger.InfoContext(ctx, "account created",
		log.FieldOperation, log.OpCreate, log.FieldUserID, acct.ID)
	return acct, session, nil
}

// SignIn authenticates and runs the access gate. A blocked premium account
// gets its fresh session revoked immediately and ErrAccessExpired back.
func (s *FinanceService) SignIn(ctx context.Context, email, password string) (core.Account, storage.Session, error) {
	session, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		return core.Account{}, storage.Session{}, err
	}
	acct, err := s.repo.GetAccountByEmail(ctx, email)
	if err != nil {
		return core.Account{}, storage.Session{}, fmt.Errorf("load account: %w", err)
	}
	if err := s.gate.Authorize(acct); err != nil {
		if signOutErr := s.auth.SignOut(ctx, session.AccessToken); signOutErr != nil {
			s.logger.WarnContext(ctx, "revoke blocked session failed",
				log.FieldError, signOutErr.Error())
		}
		return core.Account{}, storage.Session{}, err
	}
	return acct, session, nil
}

// SignOut revokes the session token.
func (s *FinanceService) SignOut(ctx context.Context, accessToken string) error {
	return s.auth.SignOut(ctx, accessToken)
}

// AccountForToken resolves a bearer token to the profile row and re-runs the
// gate. Used by the auth middleware on every request.
func (s *FinanceService) AccountForToken(ctx context.Context, accessToken string) (core.Account, error) {
	email, err := s.auth.UserEmail(ctx, accessToken)
	if err != nil {
		return core.Account{}, err
	}
	acct, err := s.repo.GetAccountByEmail(ctx, email)
	if err != nil {
		return core.Account{}, fmt.Errorf("load account: %w", err)
	}
	if err := s.gate.Authorize(acct); err != nil {
		return core.Account{}, err
	}
	return acct, nil
}

// AccessState exposes the gate classification for the session endpoint.
func (s *FinanceService) AccessState(acct core.Account) access.State {
	return s.gate.Evaluate(acct)
}

// Transactions

// CreateTransaction validates, enforces the free-tier cap and inserts. The
// cap check runs before the insert so a capped account never reaches the
// store.
func (s *FinanceService) CreateTransaction(ctx context.Context, acct core.Account, tx *core.Transaction) error {
	tx.UserID = acct.ID
	if tx.Month == "" {
		tx.Month = core.MonthOf(tx.Date)
	}
	if err := tx.Validate(); err != nil {
		return err
	}

	existing, err := s.repo.CountTransactions(ctx, acct.ID)
	if err != nil {
		return fmt.Errorf("count transactions: %w", err)
	}
	if err := s.gate.AllowCreate(acct, existing); err != nil {
		return err
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	s.events.LogEntryCreated(ctx, tx.UserID, tx.Description, tx.Amount.Cents, string(tx.Type))
	return nil
}

// ListTransactions returns the account's transactions, newest first.
func (s *FinanceService) ListTransactions(ctx context.Context, acct core.Account, f storage.TransactionFilter) ([]core.Transaction, error) {
	return s.repo.ListTransactions(ctx, acct.ID, f)
}

// UpdateTransaction validates and updates an owned row.
func (s *FinanceService) UpdateTransaction(ctx context.Context, acct core.Account, tx *core.Transaction) error {
	tx.UserID = acct.ID
	if tx.Month == "" {
		tx.Month = core.MonthOf(tx.Date)
	}
	if err := tx.Validate(); err != nil {
		return err
	}
	return s.repo.UpdateTransaction(ctx, tx)
}

// DeleteTransaction removes an owned row.
func (s *FinanceService) DeleteTransaction(ctx context.Context, acct core.Account, id int64) error {
	return s.repo.DeleteTransaction(ctx, id, acct.ID)
}

// Future entries

// CreateFutureEntry validates, enforces the free-tier cap (counted
// separately from transactions) and inserts.
func (s *FinanceService) CreateFutureEntry(ctx context.Context, acct core.Account, e *core.FutureEntry) error {
	e.UserID = acct.ID
	if e.Status == "" {
		e.Status = core.StatusPending
	}
	if err := e.Validate(); err != nil {
		return err
	}

	existing, err := s.repo.CountFutureEntries(ctx, acct.ID)
	if err != nil {
		return fmt.Errorf("count future entries: %w", err)
	}
	if err := s.gate.AllowCreate(acct, existing); err != nil {
		return err
	}

	if err := s.repo.CreateFutureEntry(ctx, e); err != nil {
		return fmt.Errorf("create future entry: %w", err)
	}
	s.events.LogEntryCreated(ctx, e.UserID, e.Description, e.Amount.Cents, string(e.Type))
	return nil
}

func (s *FinanceService) ListFutureEntries(ctx context.Context, acct core.Account, f storage.FutureEntryFilter) ([]core.FutureEntry, error) {
	return s.repo.ListFutureEntries(ctx, acct.ID, f)
}

func (s *FinanceService) UpdateFutureEntry(ctx context.Context, acct core.Account, e *core.FutureEntry) error {
	e.UserID = acct.ID
	if err := e.Validate(); err != nil {
		return err
	}
	return s.repo.UpdateFutureEntry(ctx, e)
}

func (s *FinanceService) DeleteFutureEntry(ctx context.Context, acct core.Account, id int64) error {
	return s.repo.DeleteFutureEntry(ctx, id, acct.ID)
}

// SettleFutureEntry converts a pending entry into a real transaction on the
// given date and links the two rows. Settling is itself a transaction create,
// so the free-tier cap applies.
func (s *FinanceService) SettleFutureEntry(ctx context.Context, acct core.Account, id int64, settledOn core.Date) (core.Transaction, error) {
	entries, err := s.repo.ListFutureEntries(ctx, acct.ID, storage.FutureEntryFilter{})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("list future entries: %w", err)
	}
	var entry *core.FutureEntry
	for i := range entries {
		if entries[i].ID == id {
			entry = &entries[i]
			break
		}
	}
	if entry == nil {
		return core.Transaction{}, fmt.Errorf("future entry %d: %w", id, storage.ErrNotFound)
	}
	if entry.Status != core.StatusPending {
		return core.Transaction{}, fmt.Errorf("future entry %d is %s: %w", id, entry.Status, core.ErrInvalidStatus)
	}

	tx := core.Transaction{
		Date:        settledOn,
		Description: entry.Description,
		CategoryID:  entry.CategoryID,
		Type:        entry.Type,
		Amount:      entry.Amount,
		Payer:       entry.PayerPayee,
	}
	if err := s.CreateTransaction(ctx, acct, &tx); err != nil {
		return core.Transaction{}, err
	}

	entry.Status = core.StatusSettled
	entry.TransactionID = &tx.ID
	if err := s.repo.UpdateFutureEntry(ctx, entry); err != nil {
		return core.Transaction{}, fmt.Errorf("mark entry settled: %w", err)
	}
	return tx, nil
}

// Categories

func (s *FinanceService) CreateCategory(ctx context.Context, acct core.Account, c *core.Category) error {
	c.UserID = acct.ID
	if err := c.Validate(); err != nil {
		return err
	}
	return s.repo.CreateCategory(ctx, c)
}

func (s *FinanceService) ListCategories(ctx context.Context, acct core.Account) ([]core.Category, error) {
	return s.repo.ListCategories(ctx, acct.ID)
}

func (s *FinanceService) UpdateCategory(ctx context.Context, acct core.Account, c *core.Category) error {
	c.UserID = acct.ID
	if err := c.Validate(); err != nil {
		return err
	}
	return s.repo.UpdateCategory(ctx, c)
}

// DeleteCategory refuses to delete a category that transactions still
// reference. Orphaning rows silently would corrupt every report grouped by
// category.
func (s *FinanceService) DeleteCategory(ctx context.Context, acct core.Account, id int64) error {
	inUse, err := s.repo.CountTransactionsByCategory(ctx, acct.ID, id)
	if err != nil {
		return fmt.Errorf("count category usage: %w", err)
	}
	if inUse > 0 {
		return fmt.Errorf("category %d has %d transactions: %w", id, inUse, ErrCategoryInUse)
	}
	return s.repo.DeleteCategory(ctx, id, acct.ID)
}

// Goals

// CreateGoal validates and inserts; goals are not capped on the free tier.
func (s *FinanceService) CreateGoal(ctx context.Context, acct core.Account, g *core.Goal) error {
	g.UserID = acct.ID
	if g.Status == "" {
		g.Status = core.GoalInProgress
	}
	if err := g.Validate(); err != nil {
		return err
	}
	return s.repo.CreateGoal(ctx, g)
}

func (s *FinanceService) ListGoals(ctx context.Context, acct core.Account) ([]core.Goal, error) {
	return s.repo.ListGoals(ctx, acct.ID)
}

// UpdateGoal validates and persists. When the saved amount reaches the
// target the goal flips to finished and stamps the date; this is the only
// place that transition happens.
func (s *FinanceService) UpdateGoal(ctx context.Context, acct core.Account, g *core.Goal) error {
	g.UserID = acct.ID
	if err := g.Validate(); err != nil {
		return err
	}
	if g.Status != core.GoalFinished && g.Target.Cents > 0 && g.Current.Cents >= g.Target.Cents {
		g.Status = core.GoalFinished
		now := time.Now().UTC()
		g.FinishedDate = core.NewDate(now.Year(), int(now.Month()), now.Day())
	}
	return s.repo.UpdateGoal(ctx, g)
}

func (s *FinanceService) DeleteGoal(ctx context.Context, acct core.Account, id int64) error {
	return s.repo.DeleteGoal(ctx, id, acct.ID)
}
