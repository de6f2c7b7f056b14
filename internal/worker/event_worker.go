package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"ledger/internal/amqp"
	"ledger/internal/core"
)

// Stats counts handled events per kind.
type Stats struct {
	Created int
	Updated int
	Deleted int
	Stale   int // created/updated events whose record is already gone
}

// EventWorker follows ledger change events and logs the affected records.
type EventWorker struct {
	ledger core.Ledger

	mu    sync.Mutex
	stats Stats
}

func NewEventWorker(ledger core.Ledger) *EventWorker {
	return &EventWorker{ledger: ledger}
}

// HandleEvent processes a single event. A record deleted before its create or
// update event arrives is counted as stale, not retried.
func (w *EventWorker) HandleEvent(ctx context.Context, evt *amqp.ExpenseEvent) error {
	switch evt.Kind {
	case amqp.EventCreated, amqp.EventUpdated:
		e, err := w.ledger.Get(ctx, evt.ID)
		if errors.Is(err, core.ErrNotFound) {
			slog.InfoContext(ctx, "Expense gone before event was handled", "id", evt.ID, "kind", evt.Kind)
			w.record(func(s *Stats) { s.Stale++ })
			return nil
		}
		if err != nil {
			return fmt.Errorf("get expense %d: %w", evt.ID, err)
		}

		slog.InfoContext(ctx, "Expense changed",
			"kind", evt.Kind,
			"id", e.ID,
			"amount", core.FormatAmount(e.Amount),
			"category", e.Category,
			"date", e.Date.String())
		if evt.Kind == amqp.EventCreated {
			w.record(func(s *Stats) { s.Created++ })
		} else {
			w.record(func(s *Stats) { s.Updated++ })
		}
		return nil

	case amqp.EventDeleted:
		slog.InfoContext(ctx, "Expense deleted", "id", evt.ID)
		w.record(func(s *Stats) { s.Deleted++ })
		return nil

	default:
		return fmt.Errorf("%w: unknown kind %q", amqp.ErrInvalidEvent, evt.Kind)
	}
}

func (w *EventWorker) record(f func(*Stats)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	f(&w.stats)
}

// Stats returns a copy of the counters.
func (w *EventWorker) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}
