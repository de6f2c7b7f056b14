package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"ledger/internal/amqp"
	"ledger/internal/core"
)

// EventPublisher announces ledger changes. *amqp.Client satisfies it.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, kind amqp.EventKind, id int64) error
	Close() error
}

// LedgerService orchestrates ledger writes across the store and AMQP.
// The store is the source of truth: publish failures are logged and never
// fail the operation.
type LedgerService struct {
	store     core.Store
	publisher EventPublisher
}

var _ core.Store = (*LedgerService)(nil)

// NewLedgerService wraps store. publisher may be nil.
func NewLedgerService(store core.Store, publisher EventPublisher) *LedgerService {
	return &LedgerService{
		store:     store,
		publisher: publisher,
	}
}

func (s *LedgerService) Add(ctx context.Context, amount decimal.Decimal, category, note string) error {
	_, err := s.AddExpense(ctx, amount, category, note)
	return err
}

// AddExpense saves the expense and announces it, returning the new id.
func (s *LedgerService) AddExpense(ctx context.Context, amount decimal.Decimal, category, note string) (int64, error) {
	id, err := s.store.AddExpense(ctx, amount, category, note)
	if err != nil {
		return 0, fmt.Errorf("save expense: %w", err)
	}
	s.publish(ctx, amqp.EventCreated, id)
	return id, nil
}

func (s *LedgerService) Update(ctx context.Context, id int64, amount decimal.Decimal, category, note string) error {
	if err := s.store.Update(ctx, id, amount, category, note); err != nil {
		return err
	}
	s.publish(ctx, amqp.EventUpdated, id)
	return nil
}

// Remove deletes the expense. Only removals of an existing record are announced.
func (s *LedgerService) Remove(ctx context.Context, id int64) error {
	_, err := s.store.Get(ctx, id)
	existed := err == nil
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return err
	}

	if err := s.store.Remove(ctx, id); err != nil {
		return err
	}
	if existed {
		s.publish(ctx, amqp.EventDeleted, id)
	}
	return nil
}

func (s *LedgerService) Query(ctx context.Context, filter core.Filter, ref core.Date) ([]core.Expense, error) {
	return s.store.Query(ctx, filter, ref)
}

func (s *LedgerService) Get(ctx context.Context, id int64) (core.Expense, error) {
	return s.store.Get(ctx, id)
}

func (s *LedgerService) Initialize(ctx context.Context) error {
	return s.store.Initialize(ctx)
}

func (s *LedgerService) publish(ctx context.Context, kind amqp.EventKind, id int64) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "No event publisher, skipping event", "kind", kind, "id", id)
		return
	}
	if err := s.publisher.PublishExpenseEvent(ctx, kind, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"kind", kind, "id", id, "error", err)
	}
}

// Close closes both the store and the publisher.
func (s *LedgerService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %w", errors.Join(errs...))
	}

	return nil
}
