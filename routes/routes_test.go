package routes

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/easoftwareGit/bowl-tmnts-2-sub002/brackets"
	"github.com/easoftwareGit/bowl-tmnts-2-sub002/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter() *chi.Mux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := chi.NewRouter()
	SetupRoutes(router,
		Options{JWTSecret: "secret", AllowedOrigins: []string{"https://td.example.com"}},
		handlers.NewAuthHandler(nil, "secret"),
		handlers.NewBracketHandler(nil),
		handlers.NewEntryHandler(nil),
		handlers.NewWebSocketHandler(brackets.NewHub(logger), []string{"https://td.example.com"}, logger),
	)
	return router
}

func TestMutatingRoutesRequireToken(t *testing.T) {
	router := newRouter()
	for _, tc := range []struct{ method, path string }{
		{http.MethodPut, "/brkts/b1/entries"},
		{http.MethodDelete, "/brkts/b1/entries/p1"},
		{http.MethodPost, "/brkts/b1/lock"},
		{http.MethodDelete, "/brkts/b1/lock"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestSwaggerDoc(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	rec := httptest.NewRecorder()
	newRouter().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var doc struct {
		Paths map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Contains(t, doc.Paths, "/brkts/{brktID}/grid")
	assert.Contains(t, doc.Paths, "/brkts/{brktID}/lock")
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/brkts/b1/entries", nil)
	req.Header.Set("Origin", "https://td.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rec := httptest.NewRecorder()
	newRouter().ServeHTTP(rec, req)

	assert.Equal(t, "https://td.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
