package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/soyeahso/dugout/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func TestLoggingMiddleware(t *testing.T) {
	handler := loggingMiddleware(okHandler(), logging.New(nil, "silent"))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/test", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestLoggingMiddleware_RecordsRoute(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("DELETE /api/agents/custom/{id}", okHandler())
	mux.HandleFunc("POST /api/agent/execute", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	tests := []struct {
		name   string
		method string
		path   string
		want   map[string]any
	}{
		{"agent route", http.MethodDelete, "/api/agents/custom/agent-42", map[string]any{
			"level": "debug", "route": "DELETE /api/agents/custom/{id}", "agent": "agent-42", "status": float64(200),
		}},
		{"server error", http.MethodPost, "/api/agent/execute", map[string]any{
			"level": "warn", "route": "POST /api/agent/execute", "status": float64(502),
		}},
		{"no route", http.MethodGet, "/nowhere", map[string]any{
			"route": "unmatched", "status": float64(404),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			handler := loggingMiddleware(mux, logging.New(&buf, "debug"))
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tt.method, tt.path, nil))

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, "api call", entry["message"])
			assert.Equal(t, tt.path, entry["path"])
			for k, v := range tt.want {
				assert.Equal(t, v, entry[k], k)
			}
			if _, ok := tt.want["agent"]; !ok {
				assert.NotContains(t, entry, "agent")
			}
		})
	}
}

func TestRequestIDMiddleware_GeneratesID(t *testing.T) {
	rr := httptest.NewRecorder()
	requestIDMiddleware(okHandler()).ServeHTTP(rr, httptest.NewRequest("GET", "/test", nil))

	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestRequestIDMiddleware_PreservesExisting(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Request-ID", "custom-id-123")
	rr := httptest.NewRecorder()
	requestIDMiddleware(okHandler()).ServeHTTP(rr, req)

	assert.Equal(t, "custom-id-123", rr.Header().Get("X-Request-ID"))
}

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    string
	}{
		{"deny when unconfigured", nil, "http://localhost:3000", ""},
		{"wildcard", []string{"*"}, "http://localhost:3000", "http://localhost:3000"},
		{"specific match", []string{"http://localhost:5173"}, "http://localhost:5173", "http://localhost:5173"},
		{"specific mismatch", []string{"http://localhost:5173"}, "http://evil.example", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/agents", nil)
			req.Header.Set("Origin", tt.origin)
			rr := httptest.NewRecorder()
			corsMiddleware(okHandler(), tt.allowed).ServeHTTP(rr, req)

			assert.Equal(t, tt.want, rr.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/agents/custom/agent-1", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := httptest.NewRecorder()
	corsMiddleware(okHandler(), []string{"*"}).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	assert.Empty(t, rr.Body.String())
}

func TestWithMiddleware(t *testing.T) {
	handler := withMiddleware(okHandler(), logging.New(nil, "silent"), nil)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}
