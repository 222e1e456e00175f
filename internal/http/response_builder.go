// Package http serves the ledger JSON API.
//
// This file implements the builder used by every handler to write JSON
// responses, and the mapping from domain errors to API errors.

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"ledger/internal/auth"
	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/sheets"
	"ledger/internal/storage"
)

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	body       any
	headers    map[string]string
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Body sets the value encoded as the response body.
func (b *JSONResponseBuilder) Body(v any) *JSONResponseBuilder {
	b.body = v
	return b
}

// Write sends the built response. A 204 never carries a body.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}

	if b.statusCode == http.StatusNoContent || b.body == nil {
		w.WriteHeader(b.statusCode)
		return
	}

	data, err := json.Marshal(b.body)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error","code":"internal_error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(b.statusCode)
	_, _ = w.Write(append(data, '\n'))
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ErrorResponse creates an error response with the given classification.
func ErrorResponse(statusCode int, code, message string) *JSONResponseBuilder {
	return NewJSONResponse().
		Status(statusCode).
		Body(ErrorBody{Error: message, Code: code})
}

// BadRequestError creates a 400 validation error response.
func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, log.ErrorTypeValidation, message)
}

// NotFoundError creates a 404 Not Found error response.
func NotFoundError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusNotFound, log.ErrorTypeNotFound, message)
}

// UnauthorizedError creates a 401 response asking for a bearer token.
func UnauthorizedError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusUnauthorized, log.ErrorTypeAuth, message).
		Header("WWW-Authenticate", "Bearer")
}

// InternalServerError creates a 500 response that never echoes internals.
func InternalServerError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, log.ErrorTypeInternal, "Internal server error")
}

// requestError is a malformed request detected by the HTTP layer itself,
// such as a missing query parameter or an unreadable body.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(msg string) error { return &requestError{msg: msg} }

// FromError maps an error to its API response. Unknown errors become 500.
func FromError(err error) *JSONResponseBuilder {
	var reqErr *requestError
	var stErr *storage.Error

	switch {
	case errors.As(err, &reqErr):
		return BadRequestError(reqErr.msg)
	case core.ValidationError(err):
		return BadRequestError(validationMessage(err))
	case errors.Is(err, auth.ErrInvalidToken):
		return UnauthorizedError(msgInvalidToken)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return ErrorResponse(http.StatusBadRequest, log.ErrorTypeAuth, msgInvalidCredentials)
	case errors.Is(err, sheets.ErrExportDisabled):
		return ErrorResponse(http.StatusNotImplemented, log.ErrorTypeNotImplemented, "Summary export is not configured")
	case errors.As(err, &stErr):
		switch {
		case errors.Is(stErr.Kind, storage.ErrNotFound):
			return NotFoundError(stErr.Msg)
		case errors.Is(stErr.Kind, storage.ErrForbidden):
			return ErrorResponse(http.StatusForbidden, log.ErrorTypeForbidden, stErr.Msg)
		case errors.Is(stErr.Kind, storage.ErrConflict):
			return ErrorResponse(http.StatusBadRequest, log.ErrorTypeConflict, stErr.Msg)
		case errors.Is(stErr.Kind, storage.ErrInUse):
			return ErrorResponse(http.StatusConflict, log.ErrorTypeConflict, stErr.Msg)
		}
	}
	return InternalServerError()
}

// Messages of the auth errors as the API reports them.
const (
	msgInvalidToken       = "Could not validate credentials"
	msgInvalidCredentials = "Incorrect username or password"
)

// validationMessage drops the operation prefixes added while the error
// travelled up, so that "create transaction: invalid amount" is reported as
// "invalid amount" while `invalid month, expected YYYY-MM: "2025-13"` keeps
// its detail.
func validationMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil || !core.ValidationError(next) || !strings.HasSuffix(err.Error(), next.Error()) {
			return err.Error()
		}
		err = next
	}
}

// writeError logs err and writes its API response. Server side failures are
// logged at error level, client errors at debug.
func writeError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	resp := FromError(err)
	logger := log.FromContext(r.Context())
	if resp.statusCode >= http.StatusInternalServerError && resp.statusCode != http.StatusNotImplemented {
		logger.Failure(r.Context(), "Request failed", operation, err, log.NewFields().WithHTTPRequest(r.Method, r.URL.Path, "", ""))
	} else {
		logger.DebugContext(r.Context(), "Request rejected",
			log.FieldOperation, operation,
			log.FieldStatusCode, resp.statusCode,
			log.FieldError, err.Error())
	}
	resp.Write(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	NewJSONResponse().Status(status).Body(v).Write(w)
}
