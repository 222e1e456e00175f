package http

import (
	"encoding/json"
	"net/http"

	"ledger/internal/core"
	"ledger/internal/log"
)

type accountRequest struct {
	Name    *string          `json:"account_name"`
	Balance *json.RawMessage `json:"balance"`
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	if req.Name == nil {
		writeError(w, r, log.OpCreate, badRequest("account_name is required"))
		return
	}
	name, err := core.ValidateName(sanitizeInput(*req.Name))
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}

	var opening core.Money
	if req.Balance != nil && string(*req.Balance) != "null" {
		if err := opening.UnmarshalJSON(*req.Balance); err != nil {
			writeError(w, r, log.OpCreate, err)
			return
		}
	}

	acc, err := s.store.CreateAccount(r.Context(), currentUser(r.Context()).ID, name, opening)
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	writeJSON(w, http.StatusCreated, acc)
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.ListAccounts(r.Context(), currentUser(r.Context()).ID)
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(accounts))
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	acc, err := s.store.GetAccount(r.Context(), currentUser(r.Context()).ID, id)
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, acc)
}

// handleUpdateAccount renames an account. The balance is owned by the ledger
// and cannot be patched.
func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	var req accountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	if req.Balance != nil {
		writeError(w, r, log.OpUpdate, badRequest("balance is derived from transactions and cannot be changed"))
		return
	}
	if req.Name == nil {
		writeError(w, r, log.OpUpdate, badRequest("account_name is required"))
		return
	}
	name, err := core.ValidateName(sanitizeInput(*req.Name))
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}

	acc, err := s.store.RenameAccount(r.Context(), currentUser(r.Context()).ID, id, name)
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, acc)
}

// handleDeleteAccount removes the account together with its transactions.
func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, log.OpDelete, err)
		return
	}
	if err := s.store.DeleteAccount(r.Context(), currentUser(r.Context()).ID, id); err != nil {
		writeError(w, r, log.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// nonNil makes empty listings encode as [] instead of null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
