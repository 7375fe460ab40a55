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

func bufferLogger() (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := New(Config{Handler: slog.NewTextHandler(&buf, nil)})
	return logger, &buf
}

func TestMiddlewarePutsLoggerInContext(t *testing.T) {
	logger, buf := bufferLogger()

	handler := Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).InfoContext(r.Context(), "inside handler")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(buf.String(), "inside handler") {
		t.Fatalf("handler log did not reach the injected logger: %q", buf.String())
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	logger := FromContext(context.Background())
	if logger == nil {
		t.Fatal("want a usable fallback logger, got nil")
	}
	if logger.Component() != ComponentApp {
		t.Fatalf("fallback component = %q, want %q", logger.Component(), ComponentApp)
	}
}

func TestRequestIDMiddlewareEnrichesLogger(t *testing.T) {
	logger, buf := bufferLogger()

	withID := RequestIDMiddleware(func(*http.Request) string { return "req_abc123" })
	handler := Middleware(logger)(withID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).InfoContext(r.Context(), "traced")
	})))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	out := buf.String()
	if !strings.Contains(out, "request_id=req_abc123") {
		t.Fatalf("log line missing request id: %q", out)
	}
}

func TestWithComponentReplacesTag(t *testing.T) {
	logger, buf := bufferLogger()

	logger.WithComponent("finance").WithComponent("notify").Info("tagged")

	out := buf.String()
	if !strings.Contains(out, "component=notify") {
		t.Fatalf("log line missing final component: %q", out)
	}
	if strings.Contains(out, "component=finance") {
		t.Fatalf("earlier component tag leaked through: %q", out)
	}
}

func TestStructuredLoggerEntryCreated(t *testing.T) {
	logger, buf := bufferLogger()

	NewStructuredLogger(logger).LogEntryCreated(context.Background(), 7, "mercado", 15050, "saida")

	out := buf.String()
	for _, want := range []string{"entry created", "user_id=7", "amount_cents=15050", "entry_type=saida", "operation=create"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log line missing %q: %q", want, out)
		}
	}
}

func TestStructuredLoggerError(t *testing.T) {
	logger, buf := bufferLogger()

	NewStructuredLogger(logger).LogError(context.Background(), "sweep failed", errors.New("boom"),
		OpSweep, NewFields().With(FieldUserID, int64(9)))

	out := buf.String()
	for _, want := range []string{"sweep failed", "error=boom", "operation=sweep", "user_id=9"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log line missing %q: %q", want, out)
		}
	}
}
