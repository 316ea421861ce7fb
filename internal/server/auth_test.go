package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authedServer(t *testing.T, masterKey string) *Server {
	t.Helper()
	return newTestServer(t, &mockGenerator{reply: "ok"}, &Config{
		ProxyHost: "http://localhost:8080",
		MasterKey: masterKey,
	})
}

func TestAuthDisabledWithoutMasterKey(t *testing.T) {
	srv := authedServer(t, "")

	rec := doJSON(srv, http.MethodPost, "/v1/chat/completions",
		`{"model":"postech-gpt","messages":[{"role":"user","content":"hi"}]}`)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	srv := authedServer(t, "sk-master")

	req := httptest.NewRequest(http.MethodGet, "/v1/models", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "authentication_error")
	assert.Contains(t, rec.Body.String(), "missing authorization header")
}

func TestAuthRejectsMalformedHeader(t *testing.T) {
	srv := authedServer(t, "sk-master")

	req := httptest.NewRequest(http.MethodGet, "/v1/models", nil)
	req.Header.Set("Authorization", "Basic sk-master")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "expected 'Bearer <token>'")
}

func TestAuthRejectsWrongKey(t *testing.T) {
	srv := authedServer(t, "sk-master")

	req := httptest.NewRequest(http.MethodGet, "/v1/models", nil)
	req.Header.Set("Authorization", "Bearer sk-wrong")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid master key")
}

func TestAuthAcceptsValidKey(t *testing.T) {
	srv := authedServer(t, "sk-master")

	req := httptest.NewRequest(http.MethodGet, "/v1/models", nil)
	req.Header.Set("Authorization", "Bearer sk-master")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthSkipsPublicPaths(t *testing.T) {
	srv := authedServer(t, "sk-master")

	t.Run("health", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("file retrieval needs no credentials", func(t *testing.T) {
		// Unknown id: the point is reaching the handler, not finding a file.
		req := httptest.NewRequest(http.MethodGet, "/files/some-id", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.NotContains(t, rec.Body.String(), "authentication_error")
	})
}

func TestAuthUploadRequiresKey(t *testing.T) {
	srv := authedServer(t, "sk-master")

	body, contentType := multipartBody(t, nil, "f.txt", "x")
	req := httptest.NewRequest(http.MethodPost, "/v1/files", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "authentication_error")
}
