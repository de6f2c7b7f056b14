package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-05")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, 1, 5), d)
	assert.Equal(t, "2024-01-05", d.String())

	for _, in := range []string{"", "2024-13-01", "05/01/2024", "2024-02-30"} {
		_, err := ParseDate(in)
		assert.ErrorIs(t, err, ErrInvalidDate, "ParseDate(%q)", in)
	}
}

func TestDateOfIgnoresClockTime(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	late := time.Date(2024, 3, 31, 23, 59, 0, 0, loc)
	assert.Equal(t, NewDate(2024, 3, 31), DateOf(late))
}

func TestDateAddDays(t *testing.T) {
	assert.Equal(t, NewDate(2024, 3, 1), NewDate(2024, 2, 29).AddDays(1))
	assert.Equal(t, NewDate(2023, 12, 31), NewDate(2024, 1, 1).AddDays(-1))
}

func TestValidateInput(t *testing.T) {
	cases := []struct {
		name     string
		amount   decimal.Decimal
		category string
		want     error
	}{
		{"valid", decimal.RequireFromString("12.5"), "Food", nil},
		{"zero amount", decimal.Zero, "Food", ErrInvalidAmount},
		{"negative amount", decimal.RequireFromString("-3"), "Food", ErrInvalidAmount},
		{"empty category", decimal.NewFromInt(1), "", ErrEmptyCategory},
		{"blank category", decimal.NewFromInt(1), " \t ", ErrEmptyCategory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateInput(tc.amount, tc.category)
			if tc.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.want)
			assert.True(t, errors.Is(err, ErrValidation), "validation failures share one parent")
		})
	}
}

func TestNormalizeNote(t *testing.T) {
	assert.Nil(t, NormalizeNote(""))
	assert.Nil(t, NormalizeNote("   "))

	n := NormalizeNote("  lunch ")
	require.NotNil(t, n)
	assert.Equal(t, "lunch", *n)
}

func TestNotFoundIsNotValidation(t *testing.T) {
	assert.False(t, errors.Is(ErrNotFound, ErrValidation))
}
