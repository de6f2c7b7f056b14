package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ledger/internal/core"

	_ "modernc.org/sqlite"
)

const selectExpenses = `SELECT id, amount, category, note, date FROM expenses`

type SQLiteRepository struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

// Option configures a SQLiteRepository.
type Option func(*SQLiteRepository)

// WithClock overrides the clock used to stamp new expenses.
func WithClock(now func() time.Time) Option {
	return func(r *SQLiteRepository) {
		r.now = now
	}
}

func NewSQLiteRepository(dbPath string, opts ...Option) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Single writer: every operation goes through one connection in order.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	repo := &SQLiteRepository{
		db:     db,
		dbPath: dbPath,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(repo)
	}

	if err := repo.Initialize(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

// Initialize ensures the expenses table exists. It never drops data.
func (r *SQLiteRepository) Initialize(ctx context.Context) error {
	if err := RunMigrations(r.dbPath); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	slog.DebugContext(ctx, "Ledger schema ready", "path", r.dbPath)
	return nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Add implements core.Ledger
func (r *SQLiteRepository) Add(ctx context.Context, amount decimal.Decimal, category, note string) error {
	_, err := r.AddExpense(ctx, amount, category, note)
	return err
}

// AddExpense validates and inserts a new expense dated today, returning its id.
func (r *SQLiteRepository) AddExpense(ctx context.Context, amount decimal.Decimal, category, note string) (int64, error) {
	if err := core.ValidateInput(amount, category); err != nil {
		return 0, err
	}

	category = strings.TrimSpace(category)
	date := core.Today(r.now())

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (amount, category, note, date) VALUES (?, ?, ?, ?)`,
		formatStoredAmount(amount), category, nullString(core.NormalizeNote(note)), date.String())
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read expense id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", id,
		"amount", amount.String(),
		"category", category,
		"date", date.String())

	return id, nil
}

// Update implements core.Ledger. The record's id and date never change.
func (r *SQLiteRepository) Update(ctx context.Context, id int64, amount decimal.Decimal, category, note string) error {
	if err := core.ValidateInput(amount, category); err != nil {
		return err
	}

	category = strings.TrimSpace(category)
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET amount = ?, category = ?, note = ? WHERE id = ?`,
		formatStoredAmount(amount), category, nullString(core.NormalizeNote(note)), id)
	if err != nil {
		return fmt.Errorf("update expense %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update expense %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("update expense %d: %w", id, core.ErrNotFound)
	}

	slog.InfoContext(ctx, "Expense updated",
		"id", id,
		"amount", amount.String(),
		"category", category)

	return nil
}

// Remove implements core.Ledger. Removing a missing id is a no-op.
func (r *SQLiteRepository) Remove(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		slog.DebugContext(ctx, "Expense already absent", "id", id)
		return nil
	}

	slog.InfoContext(ctx, "Expense deleted", "id", id)
	return nil
}

// Query implements core.Ledger
func (r *SQLiteRepository) Query(ctx context.Context, filter core.Filter, ref core.Date) ([]core.Expense, error) {
	if !filter.Valid() {
		return nil, core.ErrUnknownFilter
	}

	query := selectExpenses
	var args []any
	if rng, ok := filter.Range(ref); ok {
		// YYYY-MM-DD text compares in calendar order.
		query += ` WHERE date BETWEEN ? AND ?`
		args = append(args, rng.From.String(), rng.To.String())
	}
	query += ` ORDER BY date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses (filter=%s): %w", filter, err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	return expenses, nil
}

// Get retrieves a single expense by ID
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx, selectExpenses+` WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, fmt.Errorf("get expense %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(s scanner) (core.Expense, error) {
	var (
		e      core.Expense
		amount string
		note   sql.NullString
		date   string
	)
	if err := s.Scan(&e.ID, &amount, &e.Category, &note, &date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Expense{}, err
		}
		return core.Expense{}, fmt.Errorf("scan expense: %w", err)
	}

	a, err := decimal.NewFromString(amount)
	if err != nil {
		return core.Expense{}, fmt.Errorf("scan expense %d: amount %q: %w", e.ID, amount, err)
	}
	e.Amount = a

	d, err := core.ParseDate(date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("scan expense %d: %w", e.ID, err)
	}
	e.Date = d
	if note.Valid {
		e.Note = core.NormalizeNote(note.String)
	}

	return e, nil
}

// formatStoredAmount renders a validated amount as the exact decimal text
// kept in the amount column.
func formatStoredAmount(d decimal.Decimal) string {
	return d.StringFixed(core.MaxAmountPlaces)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
