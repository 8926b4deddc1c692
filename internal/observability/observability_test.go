package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	if got := ParseLevel("debug").Level(); got != zapcore.DebugLevel {
		t.Fatalf("expected debug, got %s", got)
	}
	if got := ParseLevel("nonsense").Level(); got != zapcore.InfoLevel {
		t.Fatalf("expected fallback to info, got %s", got)
	}

	t.Setenv("LOG_LEVEL", "WARN")
	if got := ParseLevel("").Level(); got != zapcore.WarnLevel {
		t.Fatalf("expected LOG_LEVEL warn, got %s", got)
	}
}

func TestContextLogger(t *testing.T) {
	if FromContext(context.Background()) != Nop() {
		t.Fatalf("expected no-op logger for empty context")
	}
	logger := zap.NewExample()
	ctx := WithLogger(context.Background(), logger)
	if FromContext(ctx) != logger {
		t.Fatalf("expected stored logger")
	}
	if FromContext(WithLogger(ctx, nil)) != Nop() {
		t.Fatalf("nil logger should store the no-op logger")
	}
}

func TestRequestLoggerRecordsStatus(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	router := chi.NewRouter()
	router.Use(RequestLogger(zap.New(core)))
	router.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).Info("inside")
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/7", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if logs.FilterMessage("inside").Len() != 1 {
		t.Fatalf("handler should log through the request logger")
	}
	completed := logs.FilterMessage("request completed").All()
	if len(completed) != 1 {
		t.Fatalf("expected one completion entry, got %d", len(completed))
	}
	entry := completed[0]
	if entry.Level != zapcore.WarnLevel {
		t.Fatalf("4xx should log at warn, got %s", entry.Level)
	}
	fields := entry.ContextMap()
	if fields["route"] != "/items/{id}" {
		t.Fatalf("unexpected route field %v", fields["route"])
	}
	if fields["status"] != int64(http.StatusTeapot) {
		t.Fatalf("unexpected status field %v", fields["status"])
	}
}

func TestRecovererAnswersJSON(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	handler := Recoverer(zap.New(core))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if logs.FilterMessage("panic recovered").Len() != 1 {
		t.Fatalf("expected panic to be logged")
	}
}
