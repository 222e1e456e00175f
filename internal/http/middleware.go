package http

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"strings"

	"ledger/internal/auth"
	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/storage"
)

// recoverer turns a handler panic into a logged 500.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.FromContext(r.Context()).ErrorContext(r.Context(), "Handler panic",
					"panic", rec,
					log.FieldMethod, r.Method,
					log.FieldPath, r.URL.Path,
					"stack", string(debug.Stack()))
				InternalServerError().Write(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the token of an "Authorization: Bearer" header.
func bearerToken(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// requireUser authenticates the bearer token and loads the user it names.
// A token for a user that no longer exists is rejected like a bad token.
// The user row is served from a 30 second cache (userCacheTTL); ledger data
// is never cached and every handler reads it from the store.
func (s *Server) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			UnauthorizedError("Not authenticated").Write(w)
			return
		}

		userID, err := s.tokens.Parse(token)
		if err != nil {
			writeError(w, r, log.OpRead, err)
			return
		}

		u, err := s.lookupUser(r.Context(), userID)
		if err != nil {
			writeError(w, r, log.OpRead, err)
			return
		}

		ctx := log.WithUser(withUser(r.Context(), u), u.ID)
		next(w, r.WithContext(ctx))
	}
}

func (s *Server) lookupUser(ctx context.Context, userID int64) (core.User, error) {
	if u, ok := s.users.Get(userID); ok {
		return u, nil
	}
	u, err := s.store.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return core.User{}, auth.ErrInvalidToken
	}
	if err != nil {
		return core.User{}, err
	}
	s.users.Set(userID, u)
	return u, nil
}
