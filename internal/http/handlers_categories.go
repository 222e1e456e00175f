package http

import (
	"net/http"
	"strings"

	"ledger/internal/core"
	"ledger/internal/log"
)

type categoryRequest struct {
	Name *string            `json:"name"`
	Type *core.CategoryType `json:"type"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	if req.Name == nil {
		writeError(w, r, log.OpCreate, badRequest("name is required"))
		return
	}
	if req.Type == nil {
		writeError(w, r, log.OpCreate, core.ErrInvalidCategoryType)
		return
	}
	name, err := core.ValidateName(sanitizeInput(*req.Name))
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}

	cat, err := s.store.CreateCategory(r.Context(), currentUser(r.Context()).ID, name, *req.Type)
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	writeJSON(w, http.StatusCreated, cat)
}

// handleListCategories lists the caller's categories, optionally only those
// of ?type=income|expense.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	var typ *core.CategoryType
	if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
		t, err := core.ParseCategoryType(raw)
		if err != nil {
			writeError(w, r, log.OpList, err)
			return
		}
		typ = &t
	}

	cats, err := s.store.ListCategories(r.Context(), currentUser(r.Context()).ID, typ)
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(cats))
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	cat, err := s.store.GetCategory(r.Context(), currentUser(r.Context()).ID, id)
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	name, err := validateNamePtr(req.Name)
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}

	cat, err := s.store.UpdateCategory(r.Context(), currentUser(r.Context()).ID, id, name, req.Type)
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

// handleDeleteCategory refuses with 409 while transactions reference the
// category. Its budgets go with it.
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, log.OpDelete, err)
		return
	}
	if err := s.store.DeleteCategory(r.Context(), currentUser(r.Context()).ID, id); err != nil {
		writeError(w, r, log.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
