package core

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

// CategoryTotal represents an amount aggregated by category name.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// Summary is the derived view of a record set.
type Summary struct {
	Count      int
	Total      decimal.Decimal
	ByCategory []CategoryTotal
}

// OverallTotal sums the amounts of all records. Zero for an empty set.
func OverallTotal(records []Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range records {
		total = total.Add(e.Amount)
	}
	return total
}

// CategoryTotals sums amounts per category, largest total first. Equal totals
// are ordered by category name ascending.
func CategoryTotals(records []Expense) []CategoryTotal {
	sums := make(map[string]decimal.Decimal)
	for _, e := range records {
		sum, ok := sums[e.Category]
		if !ok {
			sum = decimal.Zero
		}
		sums[e.Category] = sum.Add(e.Amount)
	}

	out := make([]CategoryTotal, 0, len(sums))
	for name, total := range sums {
		out = append(out, CategoryTotal{Category: name, Total: total})
	}
	slices.SortFunc(out, func(a, b CategoryTotal) int {
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return out
}

// Summarize recomputes every aggregate from scratch.
func Summarize(records []Expense) Summary {
	return Summary{
		Count:      len(records),
		Total:      OverallTotal(records),
		ByCategory: CategoryTotals(records),
	}
}
