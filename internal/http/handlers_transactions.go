package http

import (
	"net/http"

	"ledger/internal/core"
	"ledger/internal/log"
)

type transactionRequest struct {
	AccountID   *int64      `json:"account_id"`
	CategoryID  *int64      `json:"category_id"`
	Amount      *core.Money `json:"amount"`
	Description *string     `json:"description"`
	Date        *core.Date  `json:"date"`
}

// transaction builds a new transaction from a create request.
func (req transactionRequest) transaction() (core.Transaction, error) {
	switch {
	case req.AccountID == nil:
		return core.Transaction{}, badRequest("account_id is required")
	case req.CategoryID == nil:
		return core.Transaction{}, badRequest("category_id is required")
	case req.Amount == nil:
		return core.Transaction{}, badRequest("amount is required")
	case req.Date == nil:
		return core.Transaction{}, badRequest("date is required")
	}
	t := core.Transaction{
		AccountID:  *req.AccountID,
		CategoryID: *req.CategoryID,
		Amount:     *req.Amount,
		Date:       *req.Date,
	}
	if req.Description != nil {
		t.Description = sanitizeInput(*req.Description)
	}
	return t, t.Validate()
}

// patch builds the edit of a patch request. Only the fields present change.
func (req transactionRequest) patch() (core.TransactionPatch, error) {
	if req.Amount != nil {
		if err := req.Amount.Positive(); err != nil {
			return core.TransactionPatch{}, err
		}
	}
	p := core.TransactionPatch{
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Description: sanitizePtr(req.Description),
		Date:        req.Date,
	}
	if p.Description != nil {
		if err := core.ValidateDescription(*p.Description); err != nil {
			return core.TransactionPatch{}, err
		}
	}
	return p, nil
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	t, err := req.transaction()
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}

	created, err := s.transactions.CreateTransaction(r.Context(), currentUser(r.Context()).ID, t)
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleListTransactions lists the caller's transactions, newest first.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := parseTransactionFilter(r.URL.Query())
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}

	txs, err := s.store.ListTransactions(r.Context(), currentUser(r.Context()).ID, filter)
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(txs))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	t, err := s.store.GetTransaction(r.Context(), currentUser(r.Context()).ID, id)
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	patch, err := req.patch()
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}

	updated, err := s.transactions.UpdateTransaction(r.Context(), currentUser(r.Context()).ID, id, patch)
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, log.OpDelete, err)
		return
	}
	if err := s.transactions.DeleteTransaction(r.Context(), currentUser(r.Context()).ID, id); err != nil {
		writeError(w, r, log.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
