// Package http serves the ledger JSON API.
//
// This file implements utilities for parsing and validating HTTP request
// data: JSON and form bodies, path ids and the query filters.

package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"ledger/internal/core"
)

// maxBodyBytes caps every request body.
const maxBodyBytes = 1 << 20

// RequestBodyParser reads a body that may be JSON or form encoded. Login
// accepts both so that OAuth2 password form clients keep working.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]interface{}
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		p.err = badRequest("Request body too large or unreadable")
		return p.err
	}

	body := strings.TrimSpace(string(p.body))
	if body == "" {
		p.formData = url.Values{}
		return nil
	}

	if strings.HasPrefix(p.contentType, "application/json") || body[0] == '{' {
		p.jsonData = make(map[string]interface{})
		if err := json.Unmarshal([]byte(body), &p.jsonData); err != nil {
			p.err = badRequest("Invalid JSON body")
			return p.err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(body)
	if p.err != nil {
		p.err = badRequest("Invalid form body")
	}
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	return sanitizeInput(p.Raw(key))
}

// Raw returns the value exactly as sent. Secrets such as passwords must be
// compared unmodified.
func (p *RequestBodyParser) Raw(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return stringValue(val)
		}
		return ""
	}
	if p.formData != nil {
		return p.formData.Get(key)
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// decodeJSON decodes the request body into dst. Errors raised by the domain
// decoders (amount, date, month, category type) pass through unchanged so
// they map to validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			return badRequest("Request body is required")
		case errors.As(err, &maxErr):
			return badRequest("Request body too large")
		case core.ValidationError(err):
			return err
		case errors.As(err, &typeErr):
			return badRequest("Invalid type for field " + typeErr.Field)
		default:
			return badRequest("Invalid JSON body")
		}
	}
	if dec.More() {
		return badRequest("Request body must hold a single JSON object")
	}
	return nil
}

// pathID parses the {name} path value as a positive id.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		return 0, badRequest("invalid " + name)
	}
	return id, nil
}

// requireMonth reads the mandatory month query parameter.
func requireMonth(q url.Values) (core.Month, error) {
	raw := strings.TrimSpace(q.Get("month"))
	if raw == "" {
		return core.Month{}, badRequest("month query parameter is required (YYYY-MM)")
	}
	return core.ParseMonth(raw)
}

// optionalMonth reads the month query parameter when present.
func optionalMonth(q url.Values) (*core.Month, error) {
	raw := strings.TrimSpace(q.Get("month"))
	if raw == "" {
		return nil, nil
	}
	m, err := core.ParseMonth(raw)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func optionalInt64(q url.Values, key string) (*int64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, badRequest("invalid " + key)
	}
	return &v, nil
}

func optionalInt(q url.Values, key string) (int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("invalid " + key)
	}
	return v, nil
}

func optionalDate(q url.Values, key string) (*core.Date, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	d, err := core.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func optionalMoney(q url.Values, key string) (*core.Money, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	m, err := core.ParseMoney(raw)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// parseTransactionFilter reads the listing filters of GET /transactions.
// month wins over start_date and end_date; end_date is exclusive.
func parseTransactionFilter(q url.Values) (core.TransactionFilter, error) {
	var f core.TransactionFilter
	var err error

	if f.Month, err = optionalMonth(q); err != nil {
		return f, err
	}
	if f.From, err = optionalDate(q, "start_date"); err != nil {
		return f, err
	}
	if f.To, err = optionalDate(q, "end_date"); err != nil {
		return f, err
	}
	if f.AccountID, err = optionalInt64(q, "account_id"); err != nil {
		return f, err
	}
	if f.CategoryID, err = optionalInt64(q, "category_id"); err != nil {
		return f, err
	}
	if f.AmountMin, err = optionalMoney(q, "amount_min"); err != nil {
		return f, err
	}
	if f.AmountMax, err = optionalMoney(q, "amount_max"); err != nil {
		return f, err
	}
	if f.Limit, err = optionalInt(q, "limit"); err != nil {
		return f, err
	}
	if f.Offset, err = optionalInt(q, "offset"); err != nil {
		return f, err
	}
	if _, ok := q["limit"]; ok && f.Limit == 0 {
		return f, core.ErrInvalidLimit
	}
	return f, f.Normalize()
}
