package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Glivan2903/minhagrana/internal/access"
	"github.com/Glivan2903/minhagrana/internal/core"
	"github.com/Glivan2903/minhagrana/internal/log"
	"github.com/Glivan2903/minhagrana/internal/schedule"
	"github.com/Glivan2903/minhagrana/internal/storage"
)

// RecurringProcessor materializes due future entries into real transactions.
// One-shot entries are settled; recurring entries spawn a transaction for the
// due occurrence and roll their expected date to the next one, staying
// pending.
type RecurringProcessor struct {
	svc    *FinanceService
	logger *log.Logger
	events *log.StructuredLogger
}

func NewRecurringProcessor(svc *FinanceService, logger *log.Logger) *RecurringProcessor {
	logger = logger.WithComponent(log.ComponentFinance)
	return &RecurringProcessor{
		svc:    svc,
		logger: logger,
		events: log.NewStructuredLogger(logger),
	}
}

// ProcessAll sweeps every account and materializes its due entries. Blocked
// accounts are skipped; their entries stay pending until the subscription is
// renewed. Errors on one account do not stop the sweep.
func (p *RecurringProcessor) ProcessAll(ctx context.Context, now time.Time) (int, error) {
	accounts, err := p.svc.repo.ListAccounts(ctx)
	if err != nil {
		return 0, fmt.Errorf("list accounts: %w", err)
	}

	total := 0
	for _, acct := range accounts {
		if p.svc.AccessState(acct) == access.Blocked {
			continue
		}
		n, err := p.ProcessDueEntries(ctx, acct, now)
		if err != nil {
			p.events.LogError(ctx, "account sweep failed", err, log.OpSweep,
				log.NewFields().With(log.FieldUserID, acct.ID))
			continue
		}
		total += n
	}
	return total, nil
}

// ProcessDueEntries walks the account's pending entries and materializes
// every one due on or before now. A failure on one entry is logged and the
// walk continues; the count of materialized entries is returned either way.
func (p *RecurringProcessor) ProcessDueEntries(ctx context.Context, acct core.Account, now time.Time) (int, error) {
	entries, err := p.svc.ListFutureEntries(ctx, acct, storage.FutureEntryFilter{Status: core.StatusPending})
	if err != nil {
		return 0, fmt.Errorf("list pending entries: %w", err)
	}

	today := core.NewDate(now.Year(), int(now.Month()), now.Day())
	processed := 0
	for _, e := range entries {
		if e.ExpectedDate.After(today.Time) {
			continue
		}
		if err := p.materialize(ctx, acct, e, today); err != nil {
			p.events.LogError(ctx, "materialize due entry failed", err, log.OpSweep,
				log.NewFields().
					With(log.FieldUserID, acct.ID).
					With(log.FieldDescription, e.Description))
			continue
		}
		processed++
	}

	if processed > 0 {
		p.logger.InfoContext(ctx, "due entries processed",
			log.FieldOperation, log.OpSweep,
			log.FieldUserID, acct.ID, "processed", processed)
	}
	return processed, nil
}

func (p *RecurringProcessor) materialize(ctx context.Context, acct core.Account, e core.FutureEntry, today core.Date) error {
	if !e.Recurring {
		_, err := p.svc.SettleFutureEntry(ctx, acct, e.ID, e.ExpectedDate)
		return err
	}

	tx := core.Transaction{
		Date:        e.ExpectedDate,
		Description: e.Description,
		CategoryID:  e.CategoryID,
		Type:        e.Type,
		Amount:      e.Amount,
		Payer:       e.PayerPayee,
	}
	if err := p.svc.CreateTransaction(ctx, acct, &tx); err != nil {
		return err
	}

	next, err := schedule.NextOccurrence(e, today.Time)
	if err != nil {
		return fmt.Errorf("advance recurrence: %w", err)
	}
	e.ExpectedDate = next
	if err := p.svc.UpdateFutureEntry(ctx, acct, &e); err != nil {
		return fmt.Errorf("roll entry forward: %w", err)
	}
	return nil
}
