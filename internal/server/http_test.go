package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsEndpoint(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		srv := newTestServer(t, &mockGenerator{}, &Config{
			ProxyHost:      "http://localhost:8080",
			MetricsEnabled: true,
		})

		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "aibridge_backend_errors_total")
	})

	t.Run("disabled", func(t *testing.T) {
		srv := newTestServer(t, &mockGenerator{}, &Config{ProxyHost: "http://localhost:8080"})

		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("custom endpoint path is cleaned", func(t *testing.T) {
		srv := newTestServer(t, &mockGenerator{}, &Config{
			ProxyHost:       "http://localhost:8080",
			MetricsEnabled:  true,
			MetricsEndpoint: "/internal//stats",
		})

		req := httptest.NewRequest(http.MethodGet, "/internal/stats", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t, &mockGenerator{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestBodySizeLimit(t *testing.T) {
	srv := newTestServer(t, &mockGenerator{reply: "ok"}, &Config{
		ProxyHost:     "http://localhost:8080",
		BodySizeLimit: 64,
	})

	oversized := `{"model":"postech-gpt","messages":[{"role":"user","content":"` +
		strings.Repeat("x", 256) + `"}]}`
	rec := doJSON(srv, http.MethodPost, "/v1/chat/completions", oversized)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
