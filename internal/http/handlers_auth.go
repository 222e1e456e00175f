package http

import (
	"errors"
	"net/http"

	"ledger/internal/auth"
	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/storage"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, log.OpRegister, err)
		return
	}
	username := sanitizeInput(req.Username)
	email := sanitizeInput(req.Email)

	if err := core.ValidateRegistration(username, email, req.Password); err != nil {
		writeError(w, r, log.OpRegister, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, r, log.OpRegister, err)
		return
	}

	u, err := s.store.CreateUser(r.Context(), username, email, hash, core.RoleUser)
	if err != nil {
		writeError(w, r, log.OpRegister, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// handleLogin accepts a JSON body or an OAuth2 password form.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		writeError(w, r, log.OpLogin, err)
		return
	}
	username, password := p.Get("username"), p.Raw("password")
	if username == "" || password == "" {
		writeError(w, r, log.OpLogin, badRequest("username and password are required"))
		return
	}

	u, err := s.store.GetUserByUsername(r.Context(), username)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		err = auth.ErrInvalidCredentials
	case err == nil:
		err = auth.CheckPassword(u.PasswordHash, password)
	}
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Login failed", "username", username)
		}
		writeError(w, r, log.OpLogin, err)
		return
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		writeError(w, r, log.OpLogin, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(r.Context()))
}
