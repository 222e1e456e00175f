package http

import (
	"net/http"

	"ledger/internal/core"
	"ledger/internal/log"
)

type budgetRequest struct {
	CategoryID *int64      `json:"category_id"`
	Month      *core.Month `json:"month"`
	Amount     *core.Money `json:"amount"`
}

// handleUpsertBudget sets the cap of a category for a month, replacing any
// previous amount.
func (s *Server) handleUpsertBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	switch {
	case req.CategoryID == nil:
		writeError(w, r, log.OpUpdate, badRequest("category_id is required"))
		return
	case req.Month == nil:
		writeError(w, r, log.OpUpdate, core.ErrInvalidMonth)
		return
	case req.Amount == nil:
		writeError(w, r, log.OpUpdate, badRequest("amount is required"))
		return
	}

	b, err := s.store.UpsertBudget(r.Context(), currentUser(r.Context()).ID, *req.CategoryID, *req.Month, *req.Amount)
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	month, err := optionalMonth(r.URL.Query())
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	budgets, err := s.store.ListBudgets(r.Context(), currentUser(r.Context()).ID, month)
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(budgets))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, log.OpDelete, err)
		return
	}
	if err := s.store.DeleteBudget(r.Context(), currentUser(r.Context()).ID, id); err != nil {
		writeError(w, r, log.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleBudgetSummary compares every expense category's budget with its
// spend for ?month.
func (s *Server) handleBudgetSummary(w http.ResponseWriter, r *http.Request) {
	month, err := requireMonth(r.URL.Query())
	if err != nil {
		writeError(w, r, log.OpReport, err)
		return
	}
	items, err := s.reports.BudgetSummary(r.Context(), currentUser(r.Context()).ID, month)
	if err != nil {
		writeError(w, r, log.OpReport, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(items))
}
