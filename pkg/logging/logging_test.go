package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

func TestCompactHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCompactHandler(&buf, &slog.HandlerOptions{Level: LevelTrace}))

	logger.Info("vault scanned", "notes", 3, "path", "my vault", "ok", true)

	line := buf.String()
	if !strings.HasPrefix(line, "[INFO]  ") {
		t.Errorf("Expected [INFO] prefix, got %q", line)
	}
	if !strings.Contains(line, "vault scanned | notes=3 path=\"my vault\" ok=true\n") {
		t.Errorf("Unexpected attribute rendering: %q", line)
	}
}

func TestCompactHandler_SpecialKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCompactHandler(&buf, nil))

	logger.Info("done",
		"requestID", "0123456789abcdef",
		"durationMs", int64(12),
		"error", "boom")

	line := buf.String()
	for _, want := range []string{"req=01234567", "duration=12ms", `error="boom"`} {
		if !strings.Contains(line, want) {
			t.Errorf("Expected %q in %q", want, line)
		}
	}
}

func TestCompactHandler_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCompactHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Log(context.Background(), LevelTrace, "hidden")
	if buf.Len() != 0 {
		t.Errorf("Expected trace to be filtered at debug level, got %q", buf.String())
	}

	logger.Debug("shown")
	if !strings.HasPrefix(buf.String(), "[DEBUG] ") {
		t.Errorf("Expected [DEBUG] prefix, got %q", buf.String())
	}

	buf.Reset()
	traceLogger := slog.New(NewCompactHandler(&buf, &slog.HandlerOptions{Level: LevelTrace}))
	traceLogger.Log(context.Background(), LevelTrace, "file change")
	if !strings.HasPrefix(buf.String(), "[TRACE] ") {
		t.Errorf("Expected [TRACE] prefix, got %q", buf.String())
	}
}

func TestCompactHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCompactHandler(&buf, nil))

	scanLogger := logger.With("component", "scanner").WithGroup("note")
	scanLogger.Info("parsed", "path", "A.md")

	line := buf.String()
	if !strings.Contains(line, "| component=scanner note.path=A.md") {
		t.Errorf("Expected handler attrs before grouped record attrs, got %q", line)
	}

	// The parent logger is unaffected
	buf.Reset()
	logger.Info("plain", "path", "B.md")
	if strings.Contains(buf.String(), "component") || !strings.Contains(buf.String(), "path=B.md") {
		t.Errorf("Expected parent logger without derived attrs, got %q", buf.String())
	}
}

func TestConfigure_JSON(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, slog.LevelDebug, true)
	defer Configure(os.Stdout, slog.LevelInfo, false)

	Debug("graph updated", "nodes", 4)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("Expected JSON output, got %q: %v", buf.String(), err)
	}
	if record["msg"] != "graph updated" {
		t.Errorf("Expected msg 'graph updated', got %v", record["msg"])
	}
	if record["nodes"] != float64(4) {
		t.Errorf("Expected nodes 4, got %v", record["nodes"])
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, slog.LevelDebug, false)
	defer Configure(os.Stdout, slog.LevelInfo, false)

	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/node?path=x", nil)
	req.Header.Set("X-Request-ID", "given-request-id")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != "given-request-id" {
		t.Errorf("Expected request ID in context, got %q", seen)
	}
	if got := rec.Header().Get("X-Request-ID"); got != "given-request-id" {
		t.Errorf("Expected request ID header, got %q", got)
	}
	if !strings.Contains(buf.String(), "[WARN]  ") || !strings.Contains(buf.String(), "status=404") {
		t.Errorf("Expected a warning for the 404, got %q", buf.String())
	}
}

func TestRequestIDMiddleware_Generates(t *testing.T) {
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if id := rec.Header().Get("X-Request-ID"); len(id) != 36 {
		t.Errorf("Expected a generated UUID, got %q", id)
	}
}

func TestRecordTime(t *testing.T) {
	var buf bytes.Buffer
	h := NewCompactHandler(&buf, nil)

	r := slog.NewRecord(time.Date(2024, 1, 2, 13, 4, 5, 0, time.UTC), slog.LevelWarn, "late", 0)
	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "[WARN]  13:04:05 late\n" {
		t.Errorf("Unexpected line %q", buf.String())
	}
}
