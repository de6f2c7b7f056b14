package http

import (
	"net/http"
	"strconv"

	"ledger/internal/core"
	applog "ledger/internal/log"
	"ledger/internal/viewmodel"
)

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady checks that the ledger answers a query.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.ledger.Query(r.Context(), core.ThisWeek, core.Today(s.now())); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Readiness check failed", applog.FieldError, err)
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// model builds a per-request view model loaded with filter.
func (s *Server) model(r *http.Request, filter core.Filter) (*viewmodel.Model, error) {
	m := viewmodel.New(s.ledger, viewmodel.WithClock(s.now), viewmodel.WithFilter(filter))
	if err := m.Refresh(r.Context()); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilterParam(r)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	m, err := s.model(r, filter)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	NewJSONResponse().Body(toListDTO(m.State())).Write(w)
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilterParam(r)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	m, err := s.model(r, filter)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	NewJSONResponse().Body(toSummaryDTO(m.State())).Write(w)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	e, err := s.ledger.Get(r.Context(), id)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	NewJSONResponse().Body(toExpenseDTO(e)).Write(w)
}

// handleCreateExpense adds a record and answers with the refreshed list.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	form, err := parseExpenseForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter, err := parseFilterParam(r)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	m := viewmodel.New(s.ledger, viewmodel.WithClock(s.now), viewmodel.WithFilter(filter))
	if err := m.Add(r.Context(), form); err != nil {
		writeLedgerError(w, r, err)
		return
	}

	applog.FromContext(r.Context()).WithComponent(applog.ComponentExpense).InfoContext(r.Context(), "Expense created",
		applog.FieldOperation, applog.OpCreate,
		applog.FieldCategory, form.Category,
		applog.FieldAmount, form.Amount)

	NewJSONResponse().Status(http.StatusCreated).Body(toListDTO(m.State())).Write(w)
}

// handleUpdateExpense runs a full edit session: begin, save, refresh.
func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	form, err := parseExpenseForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter, err := parseFilterParam(r)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	m := viewmodel.New(s.ledger, viewmodel.WithClock(s.now), viewmodel.WithFilter(filter))
	if _, err := m.BeginEdit(r.Context(), id); err != nil {
		writeLedgerError(w, r, err)
		return
	}
	if err := m.SaveEdit(r.Context(), form); err != nil {
		writeLedgerError(w, r, err)
		return
	}

	applog.FromContext(r.Context()).WithComponent(applog.ComponentExpense).InfoContext(r.Context(), "Expense updated",
		applog.FieldOperation, applog.OpUpdate,
		applog.FieldExpenseID, id)

	NewJSONResponse().Body(toListDTO(m.State())).Write(w)
}

// handleDeleteExpense is idempotent: deleting a missing id still answers 204.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.ledger.Remove(r.Context(), id); err != nil {
		writeLedgerError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).
		Header("X-Expense-Id", strconv.FormatInt(id, 10)).
		Write(w)
}
