package viewmodel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/core"
	"ledger/internal/storage/memory"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newModel(t *testing.T) (*Model, *memory.Store, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2024, 5, 15, 10, 0, 0, 0, time.Local)}
	store := memory.NewWithClock(c.now)
	m := New(store, WithClock(c.now))
	require.NoError(t, m.Refresh(context.Background()))
	return m, store, c
}

func TestAddRefreshesSummary(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newModel(t)

	require.NoError(t, m.Add(ctx, Form{Amount: "12,50", Category: "Food", Note: "lunch"}))
	require.NoError(t, m.Add(ctx, Form{Amount: "3", Category: "Transport"}))
	require.NoError(t, m.Add(ctx, Form{Amount: "2.5", Category: "Food"}))

	st := m.State()
	assert.Equal(t, 3, st.Summary.Count)
	assert.True(t, st.Summary.Total.Equal(decimal.RequireFromString("18")))
	require.Len(t, st.Summary.ByCategory, 2)
	assert.Equal(t, "Food", st.Summary.ByCategory[0].Category)
	assert.True(t, st.Summary.ByCategory[0].Total.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, int64(3), st.Expenses[0].ID)
}

func TestAddInvalidLeavesState(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newModel(t)
	require.NoError(t, m.Add(ctx, Form{Amount: "1", Category: "Food"}))

	before := m.State()
	assert.ErrorIs(t, m.Add(ctx, Form{Amount: "abc", Category: "Food"}), core.ErrInvalidAmount)
	assert.ErrorIs(t, m.Add(ctx, Form{Amount: "0", Category: "Food"}), core.ErrInvalidAmount)
	assert.ErrorIs(t, m.Add(ctx, Form{Amount: "4", Category: "  "}), core.ErrEmptyCategory)
	assert.Equal(t, before, m.State())
}

func TestSetFilter(t *testing.T) {
	ctx := context.Background()
	m, store, c := newModel(t)

	c.t = time.Date(2024, 4, 30, 9, 0, 0, 0, time.Local)
	require.NoError(t, store.Add(ctx, decimal.NewFromInt(5), "Old", ""))
	c.t = time.Date(2024, 5, 15, 9, 0, 0, 0, time.Local)
	require.NoError(t, m.Add(ctx, Form{Amount: "7", Category: "New"}))

	assert.Equal(t, 2, m.State().Summary.Count)

	require.NoError(t, m.SetFilter(ctx, core.ThisMonth))
	st := m.State()
	assert.Equal(t, core.ThisMonth, st.Filter)
	assert.Equal(t, core.NewDate(2024, 5, 15), st.Reference)
	require.Len(t, st.Expenses, 1)
	assert.Equal(t, "New", st.Expenses[0].Category)

	assert.ErrorIs(t, m.SetFilter(ctx, core.Filter(42)), core.ErrUnknownFilter)
	assert.Equal(t, core.ThisMonth, m.Filter())
}

type failingLedger struct {
	core.Ledger
	err error
}

func (f failingLedger) Query(context.Context, core.Filter, core.Date) ([]core.Expense, error) {
	return nil, f.err
}

func TestSetFilterRevertsOnQueryFailure(t *testing.T) {
	boom := errors.New("disk gone")
	m := New(failingLedger{err: boom}, WithFilter(core.ThisWeek))

	err := m.SetFilter(context.Background(), core.ThisMonth)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, core.ThisWeek, m.Filter())
	assert.Equal(t, core.ThisWeek, m.State().Filter)
}

func TestEditSession(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newModel(t)
	require.NoError(t, m.Add(ctx, Form{Amount: "12.5", Category: "Food", Note: "lunch"}))
	require.NoError(t, m.Add(ctx, Form{Amount: "4", Category: "Coffee"}))

	form, err := m.BeginEdit(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, Form{Amount: "12.50", Category: "Food", Note: "lunch"}, form)
	require.NotNil(t, m.Editing())
	assert.Equal(t, int64(1), m.Editing().ID)

	// A second BeginEdit replaces the first session.
	_, err = m.BeginEdit(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), m.State().Editing.ID)

	// Failed save keeps the session open.
	assert.ErrorIs(t, m.SaveEdit(ctx, Form{Amount: "5", Category: ""}), core.ErrEmptyCategory)
	require.NotNil(t, m.Editing())

	require.NoError(t, m.SaveEdit(ctx, Form{Amount: "5", Category: "Coffee", Note: "oat"}))
	assert.Nil(t, m.Editing())
	st := m.State()
	assert.Equal(t, int64(2), st.Expenses[0].ID)
	assert.Equal(t, "oat", st.Expenses[0].NoteText())
	assert.True(t, st.Summary.Total.Equal(decimal.RequireFromString("17.5")))

	assert.ErrorIs(t, m.SaveEdit(ctx, Form{Amount: "5", Category: "X"}), ErrNoEditSession)
}

func TestBeginEditMissing(t *testing.T) {
	m, _, _ := newModel(t)
	_, err := m.BeginEdit(context.Background(), 99)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Nil(t, m.Editing())
}

func TestCancelEdit(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newModel(t)
	require.NoError(t, m.Add(ctx, Form{Amount: "1", Category: "A"}))
	_, err := m.BeginEdit(ctx, 1)
	require.NoError(t, err)
	m.CancelEdit()
	assert.Nil(t, m.Editing())
}

func TestDeleteEndsMatchingSession(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newModel(t)
	require.NoError(t, m.Add(ctx, Form{Amount: "1", Category: "A"}))
	require.NoError(t, m.Add(ctx, Form{Amount: "2", Category: "B"}))

	_, err := m.BeginEdit(ctx, 2)
	require.NoError(t, err)
	require.NoError(t, m.Delete(ctx, 1))
	assert.NotNil(t, m.Editing(), "deleting another record keeps the session")

	require.NoError(t, m.Delete(ctx, 2))
	assert.Nil(t, m.Editing())
	assert.Equal(t, 0, m.State().Summary.Count)
	assert.True(t, m.State().Summary.Total.IsZero())

	require.NoError(t, m.Delete(ctx, 2), "delete is idempotent")
}

func TestUpdateMissing(t *testing.T) {
	m, _, _ := newModel(t)
	err := m.Update(context.Background(), 5, Form{Amount: "1", Category: "A"})
	assert.ErrorIs(t, err, core.ErrNotFound)
}
