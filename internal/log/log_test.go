package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newBufferLogger(buf *bytes.Buffer) *Logger {
	return New(Config{Level: slog.LevelDebug, Component: ComponentApp, Output: buf})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLogger_WithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf).WithComponent(ComponentStorage)

	if l.Component() != ComponentStorage {
		t.Errorf("Component() = %q", l.Component())
	}
	l.Info("balance adjusted", FieldAccountID, 3)

	out := buf.String()
	if !strings.Contains(out, "component=storage") || !strings.Contains(out, "account_id=3") {
		t.Errorf("log line = %q", out)
	}
}

func TestLogger_Failure(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf)

	l.Failure(context.Background(), "Export failed", OpExport, errors.New("quota exceeded"), NewFields().WithMonth("2025-09"))

	out := buf.String()
	for _, want := range []string{"level=ERROR", "operation=export", `error="quota exceeded"`, "month=2025-09"} {
		if !strings.Contains(out, want) {
			t.Errorf("log line %q missing %s", out, want)
		}
	}
}

func TestLogFields_ToSliceIsSorted(t *testing.T) {
	got := NewFields().
		WithUserID(1).
		WithTransaction(7, 11, 5, "30000.00").
		ToSlice()

	var keys []string
	for i := 0; i < len(got); i += 2 {
		keys = append(keys, got[i].(string))
	}
	want := "account_id,amount,category_id,transaction_id,user_id"
	if strings.Join(keys, ",") != want {
		t.Errorf("keys = %v, want %s", keys, want)
	}
}

func TestMiddleware_ContextLogger(t *testing.T) {
	var buf bytes.Buffer
	base := newBufferLogger(&buf)

	h := Middleware(base, func(context.Context) string { return "req_abc" })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithUser(r.Context(), 42)
		FromContext(ctx).InfoContext(ctx, "inside handler")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	out := buf.String()
	if !strings.Contains(out, "request_id=req_abc") || !strings.Contains(out, "user_id=42") {
		t.Errorf("log line = %q", out)
	}
}

func TestFromContext_Default(t *testing.T) {
	l := FromContext(context.Background())
	if l == nil || l.Component() != "unknown" {
		t.Errorf("FromContext() = %+v, want default logger", l)
	}
}

func TestStructuredLogger_Levels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{200, "level=INFO"},
		{404, "level=WARN"},
		{500, "level=ERROR"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		sl := NewStructuredLogger(newBufferLogger(&buf))
		r := httptest.NewRequest(http.MethodGet, "/accounts?x=1", nil)

		sl.LogHTTPEnd(context.Background(), r, "req_1", tt.status, 12, "10.0.0.1")

		out := buf.String()
		if !strings.Contains(out, tt.level) || !strings.Contains(out, "component=http") {
			t.Errorf("status %d: log line = %q", tt.status, out)
		}
	}
}
