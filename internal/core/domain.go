package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the persisted, lexically sortable form of a Date.
const DateLayout = "2006-01-02"

type (
	// Date is a calendar day. The wrapped time is always midnight UTC so
	// that day arithmetic never crosses a DST boundary.
	Date struct {
		time.Time
	}

	Expense struct {
		ID       int64
		Amount   decimal.Decimal
		Category string
		Note     *string // nil when the expense has no note
		Date     Date
	}
)

var (
	ErrValidation    = errors.New("validation error")
	ErrInvalidAmount = fmt.Errorf("%w: amount must be a positive number", ErrValidation)
	ErrEmptyCategory = fmt.Errorf("%w: empty category", ErrValidation)
	ErrUnknownFilter = fmt.Errorf("%w: unknown filter", ErrValidation)

	ErrNotFound    = errors.New("expense not found")
	ErrInvalidDate = errors.New("invalid date")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// Today returns the local calendar day for the given instant.
func Today(now time.Time) Date {
	return DateOf(now.Local())
}

// ParseDate parses a date in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w %q: %v", ErrInvalidDate, s, err)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: zero date", ErrInvalidDate)
	}
	return nil
}

// NoteText returns the note or "" when absent.
func (e Expense) NoteText() string {
	if e.Note == nil {
		return ""
	}
	return *e.Note
}

// ValidateInput checks the user-editable fields shared by add and update.
func ValidateInput(amount decimal.Decimal, category string) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	if strings.TrimSpace(category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// NormalizeNote maps an empty or blank note to "no note".
func NormalizeNote(note string) *string {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil
	}
	return &note
}

func (e Expense) Validate() error {
	if err := ValidateInput(e.Amount, e.Category); err != nil {
		return err
	}
	return e.Date.Validate()
}
