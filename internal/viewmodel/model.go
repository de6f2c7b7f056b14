// Package viewmodel holds the presentation state of the ledger: the active
// filter, the visible records, their aggregates and the current edit session.
//
// Every successful mutation is followed by a fresh query, so the visible
// records and summary always mirror the store. A failed operation leaves the
// state untouched.
package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ledger/internal/core"
)

// ErrNoEditSession is returned by SaveEdit when no record is being edited.
var ErrNoEditSession = errors.New("no edit session")

// Form is the raw user input for a record.
type Form struct {
	Amount   string
	Category string
	Note     string
}

// EditSession tracks the record currently being edited.
type EditSession struct {
	ID       int64
	Original core.Expense
}

// Prefill returns the form contents for the edited record.
func (s EditSession) Prefill() Form {
	return Form{
		Amount:   core.FormatAmount(s.Original.Amount),
		Category: s.Original.Category,
		Note:     s.Original.NoteText(),
	}
}

// State is a snapshot of what the presentation layer should show.
type State struct {
	Filter    core.Filter
	Reference core.Date
	Expenses  []core.Expense
	Summary   core.Summary
	Editing   *EditSession
}

// Model coordinates a ledger with presentation state.
type Model struct {
	mu     sync.Mutex
	ledger core.Ledger
	now    func() time.Time
	filter core.Filter
	edit   *EditSession
	state  State
}

// Option configures a Model.
type Option func(*Model)

// WithClock overrides the clock used as the filter reference date.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithFilter sets the initial filter.
func WithFilter(f core.Filter) Option {
	return func(m *Model) { m.filter = f }
}

// New creates a model over ledger. Call Refresh to load the first snapshot.
func New(ledger core.Ledger, opts ...Option) *Model {
	m := &Model{
		ledger: ledger,
		now:    time.Now,
		filter: core.All,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.state = State{Filter: m.filter, Summary: core.Summarize(nil)}
	return m
}

// State returns the latest snapshot.
func (m *Model) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.state
	st.Editing = m.editing()
	return st
}

// Filter returns the active filter.
func (m *Model) Filter() core.Filter {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter
}

// Refresh re-queries the ledger with the active filter.
func (m *Model) Refresh(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reload(ctx, m.filter)
}

// SetFilter switches the active filter and reloads. On failure the previous
// filter and snapshot are kept.
func (m *Model) SetFilter(ctx context.Context, f core.Filter) error {
	if !f.Valid() {
		return core.ErrUnknownFilter
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reload(ctx, f)
}

// Add parses the form and appends a new record.
func (m *Model) Add(ctx context.Context, form Form) error {
	amount, err := core.ParseAmount(form.Amount)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ledger.Add(ctx, amount, form.Category, form.Note); err != nil {
		return err
	}
	return m.reload(ctx, m.filter)
}

// Update parses the form and replaces the mutable fields of record id.
func (m *Model) Update(ctx context.Context, id int64, form Form) error {
	amount, err := core.ParseAmount(form.Amount)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ledger.Update(ctx, id, amount, form.Category, form.Note); err != nil {
		return err
	}
	return m.reload(ctx, m.filter)
}

// Delete removes record id. If that record was being edited the session ends.
func (m *Model) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ledger.Remove(ctx, id); err != nil {
		return err
	}
	if m.edit != nil && m.edit.ID == id {
		m.edit = nil
	}
	return m.reload(ctx, m.filter)
}

// BeginEdit opens an edit session for id, replacing any previous one.
func (m *Model) BeginEdit(ctx context.Context, id int64) (Form, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.ledger.Get(ctx, id)
	if err != nil {
		return Form{}, err
	}
	m.edit = &EditSession{ID: id, Original: e}
	return m.edit.Prefill(), nil
}

// CancelEdit discards the current edit session, if any.
func (m *Model) CancelEdit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edit = nil
}

// Editing returns the current edit session, or nil.
func (m *Model) Editing() *EditSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.editing()
}

// SaveEdit applies form to the record being edited and ends the session.
// The session stays open when the update fails.
func (m *Model) SaveEdit(ctx context.Context, form Form) error {
	amount, err := core.ParseAmount(form.Amount)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.edit == nil {
		return ErrNoEditSession
	}
	id := m.edit.ID
	if err := m.ledger.Update(ctx, id, amount, form.Category, form.Note); err != nil {
		return err
	}
	m.edit = nil
	return m.reload(ctx, m.filter)
}

func (m *Model) editing() *EditSession {
	if m.edit == nil {
		return nil
	}
	s := *m.edit
	return &s
}

// reload must be called with mu held.
func (m *Model) reload(ctx context.Context, f core.Filter) error {
	ref := core.Today(m.now())
	records, err := m.ledger.Query(ctx, f, ref)
	if err != nil {
		return fmt.Errorf("refresh (filter=%s): %w", f, err)
	}
	m.filter = f
	m.state = State{
		Filter:    f,
		Reference: ref,
		Expenses:  records,
		Summary:   core.Summarize(records),
	}
	slog.DebugContext(ctx, "View refreshed",
		"filter", f.String(),
		"count", len(records),
		"total", m.state.Summary.Total.String())
	return nil
}
