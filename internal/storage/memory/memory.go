package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
)

// Store keeps expenses in process memory. It follows the same rules as the
// SQLite repository and is meant for local runs and tests.
type Store struct {
	mu     sync.Mutex
	items  []core.Expense
	lastID int64
	now    func() time.Time
}

func New() *Store {
	return &Store{now: time.Now}
}

// NewWithClock returns a store that stamps new expenses using now.
func NewWithClock(now func() time.Time) *Store {
	return &Store{now: now}
}

func (s *Store) Initialize(_ context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) Add(ctx context.Context, amount decimal.Decimal, category, note string) error {
	_, err := s.AddExpense(ctx, amount, category, note)
	return err
}

// AddExpense stores the expense and returns its id. Ids are never reused.
func (s *Store) AddExpense(_ context.Context, amount decimal.Decimal, category, note string) (int64, error) {
	if err := core.ValidateInput(amount, category); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	s.items = append(s.items, core.Expense{
		ID:       s.lastID,
		Amount:   amount,
		Category: strings.TrimSpace(category),
		Note:     core.NormalizeNote(note),
		Date:     core.Today(s.now()),
	})
	return s.lastID, nil
}

func (s *Store) Update(_ context.Context, id int64, amount decimal.Decimal, category, note string) error {
	if err := core.ValidateInput(amount, category); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("update expense %d: %w", id, core.ErrNotFound)
	}
	s.items[i].Amount = amount
	s.items[i].Category = strings.TrimSpace(category)
	s.items[i].Note = core.NormalizeNote(note)
	return nil
}

func (s *Store) Remove(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.items = slices.Delete(s.items, i, i+1)
	}
	return nil
}

func (s *Store) Query(_ context.Context, filter core.Filter, ref core.Date) ([]core.Expense, error) {
	if !filter.Valid() {
		return nil, core.ErrUnknownFilter
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Expense
	for _, e := range s.items {
		if filter.Match(e.Date, ref) {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b core.Expense) int {
		if c := b.Date.Compare(a.Date.Time); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

func (s *Store) Get(_ context.Context, id int64) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return core.Expense{}, fmt.Errorf("get expense %d: %w", id, core.ErrNotFound)
	}
	return s.items[i], nil
}

func (s *Store) indexOf(id int64) int {
	return slices.IndexFunc(s.items, func(e core.Expense) bool { return e.ID == id })
}
