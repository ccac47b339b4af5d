package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("nope"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/notes/9", nil)
	req.Header.Set("HX-Request", "true")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, want := range []string{"level=WARN", "status=404", "bytes=4", "path=/api/notes/9", "htmx=true"} {
		if !strings.Contains(out, want) {
			t.Errorf("log line %q missing %q", out, want)
		}
	}
}

func TestStatusRecorderUnwrap(t *testing.T) {
	inner := httptest.NewRecorder()
	rec := &statusRecorder{ResponseWriter: inner}
	if rec.Unwrap() != inner {
		t.Error("Unwrap should return the wrapped writer")
	}
}
