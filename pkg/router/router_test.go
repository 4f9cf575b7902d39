package router

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func named(name string) HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(name))
	}
}

func serve(r *Router, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestExactAndWildcardRoutes(t *testing.T) {
	r := NewWithLogger(nil)
	r.GET("/api/v1/runs", named("list"))
	r.GET("/api/v1/runs/*/errors", named("errors"))
	r.GET("/api/v1/runs/*", named("get"))
	r.POST("/api/v1/refresh", named("refresh"))

	require.Equal(t, "list", serve(r, http.MethodGet, "/api/v1/runs").Body.String())
	require.Equal(t, "errors", serve(r, http.MethodGet, "/api/v1/runs/abc/errors").Body.String())
	require.Equal(t, "get", serve(r, http.MethodGet, "/api/v1/runs/abc").Body.String())
	require.Equal(t, "refresh", serve(r, http.MethodPost, "/api/v1/refresh").Body.String())
}

func TestWildcardRegistrationOrderWins(t *testing.T) {
	r := NewWithLogger(nil)
	r.GET("/swagger/*", named("swagger"))
	r.GET("/swagger/*/special", named("special"))

	// the catch-all was registered first
	require.Equal(t, "swagger", serve(r, http.MethodGet, "/swagger/x/special").Body.String())
	require.Equal(t, "swagger", serve(r, http.MethodGet, "/swagger/index.html").Body.String())
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	r := NewWithLogger(nil)
	r.POST("/api/v1/refresh", named("refresh"))
	r.GET("/api/v1/runs/*", named("get"))

	require.Equal(t, http.StatusMethodNotAllowed, serve(r, http.MethodGet, "/api/v1/refresh").Code)
	require.Equal(t, http.StatusMethodNotAllowed, serve(r, http.MethodDelete, "/api/v1/runs/abc").Code)
	require.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/nothing").Code)
}

func TestMountAndAccessLog(t *testing.T) {
	var logs bytes.Buffer
	r := NewWithLogger(&logs)
	r.Mount("/metrics", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}), http.MethodGet)

	require.Equal(t, http.StatusTeapot, serve(r, http.MethodGet, "/metrics").Code)
	require.Contains(t, logs.String(), "/metrics")
	require.Contains(t, logs.String(), "418")
	require.Len(t, r.Routes(), 1)
	require.True(t, r.Paths()["/metrics"])
}

func TestMatchWildcardRoute(t *testing.T) {
	require.True(t, matchWildcardRoute("/api/v1/runs/abc", "/api/v1/runs/*"))
	require.True(t, matchWildcardRoute("/swagger/a/b/c", "/swagger/*"))
	require.True(t, matchWildcardRoute("/a/x/c", "/a/*/c"))
	require.False(t, matchWildcardRoute("/a/x/d", "/a/*/c"))
	require.False(t, matchWildcardRoute("/b/x", "/a/*"))
}
