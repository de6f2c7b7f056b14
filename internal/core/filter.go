package core

import (
	"strings"
)

// Filter selects the date window applied to a query.
type Filter int

const (
	All Filter = iota
	ThisWeek
	ThisMonth
)

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	From Date
	To   Date
}

// Contains reports whether d falls within [From, To].
func (r DateRange) Contains(d Date) bool {
	return !d.Before(r.From.Time) && !d.After(r.To.Time)
}

// ParseFilter maps user input to a Filter. Empty input means All.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return All, nil
	case "week", "this-week", "this_week", "thisweek":
		return ThisWeek, nil
	case "month", "this-month", "this_month", "thismonth":
		return ThisMonth, nil
	default:
		return All, ErrUnknownFilter
	}
}

func (f Filter) String() string {
	switch f {
	case All:
		return "all"
	case ThisWeek:
		return "week"
	case ThisMonth:
		return "month"
	default:
		return "unknown"
	}
}

// Valid reports whether f is one of the known filter kinds.
func (f Filter) Valid() bool {
	switch f {
	case All, ThisWeek, ThisMonth:
		return true
	default:
		return false
	}
}

// Range returns the inclusive window for f evaluated at ref. The second
// result is false when f places no restriction on dates.
func (f Filter) Range(ref Date) (DateRange, bool) {
	switch f {
	case ThisWeek:
		return DateRange{From: WeekStart(ref), To: ref}, true
	case ThisMonth:
		return DateRange{From: MonthStart(ref), To: ref}, true
	default:
		return DateRange{}, false
	}
}

// Match reports whether an expense dated d is selected by f at ref.
func (f Filter) Match(d, ref Date) bool {
	rng, ok := f.Range(ref)
	if !ok {
		return true
	}
	return rng.Contains(d)
}

// WeekStart returns the Monday on or before ref (ISO week).
func WeekStart(ref Date) Date {
	offset := (int(ref.Weekday()) + 6) % 7
	return ref.AddDays(-offset)
}

// MonthStart returns the first day of ref's month.
func MonthStart(ref Date) Date {
	return NewDate(ref.Year(), int(ref.Month()), 1)
}
