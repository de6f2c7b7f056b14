package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// Ports implemented by ledger backends.
type (
	// Ledger is the record-set surface used by the view model and the API.
	Ledger interface {
		Add(ctx context.Context, amount decimal.Decimal, category, note string) error
		Update(ctx context.Context, id int64, amount decimal.Decimal, category, note string) error
		// Remove is idempotent: removing a missing id is not an error.
		Remove(ctx context.Context, id int64) error
		// Query returns matching records, newest date first, then newest id.
		Query(ctx context.Context, filter Filter, ref Date) ([]Expense, error)
		Get(ctx context.Context, id int64) (Expense, error)
	}

	// Store owns the persisted record set.
	Store interface {
		Ledger
		Initialize(ctx context.Context) error
		// AddExpense behaves like Add and also reports the assigned id.
		AddExpense(ctx context.Context, amount decimal.Decimal, category, note string) (int64, error)
		Close() error
	}
)
