package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"ledger/internal/core"
	"ledger/internal/viewmodel"
)

func TestJSONResponseBuilder(t *testing.T) {
	rr := httptest.NewRecorder()
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("X-Test", "1").
		Body(map[string]int{"n": 2}).
		Write(rr)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("X-Test"))
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"n":2}`, rr.Body.String())
}

func TestJSONResponseBuilder_NoBody(t *testing.T) {
	rr := httptest.NewRecorder()
	NewJSONResponse().Status(http.StatusNoContent).Write(rr)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{core.ErrInvalidAmount, http.StatusUnprocessableEntity, "invalid_amount"},
		{fmt.Errorf("wrapped: %w", core.ErrEmptyCategory), http.StatusUnprocessableEntity, "empty_category"},
		{core.ErrUnknownFilter, http.StatusBadRequest, "unknown_filter"},
		{fmt.Errorf("update expense 3: %w", core.ErrNotFound), http.StatusNotFound, "not_found"},
		{viewmodel.ErrNoEditSession, http.StatusConflict, "no_edit_session"},
		{errors.New("disk full"), http.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		status, code := errorStatus(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.code, code, tt.err.Error())
	}
}

func TestWriteLedgerError_HidesInternalDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	writeLedgerError(rr, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("sqlite: disk I/O error"))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "sqlite")
}
