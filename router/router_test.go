// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pollwire/pollwire/testutil"
)

func newTestRouter(t *testing.T) *http.ServeMux {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	t.Cleanup(func() { conn.Close() })
	return NewRouter(conn, testutil.GetTestConfig())
}

func TestHealthEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode health response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("Expected status ok, got %q", resp["status"])
	}
	if resp["started"] == "" {
		t.Error("Expected a started timestamp")
	}
}

func TestRootEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "pollwire") {
		t.Errorf("Expected API banner, got %q", w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	mux := newTestRouter(t)

	// Routes should exist (not 404/405) even if the request itself
	// is rejected for other reasons
	tests := []struct {
		method string
		path   string
	}{
		{"POST", "/polls"},
		{"GET", "/polls/some-id"},
		{"POST", "/polls/some-id/votes"},
		{"GET", "/polls/some-id/live"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route not registered for method: %d", w.Code)
			}
		})
	}
}

func TestRootBannerDoesNotSwallowUnknownPaths(t *testing.T) {
	mux := newTestRouter(t)

	tests := []struct {
		path string
		want int
	}{
		{"/nope", http.StatusNotFound},
		{"/polls/some-id/votes", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run("GET "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, w.Code)
			}
			if strings.Contains(w.Body.String(), "pollwire API") {
				t.Errorf("Banner served for non-root path %s", tt.path)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux := newTestRouter(t)

	tests := []struct {
		method string
		path   string
	}{
		{"DELETE", "/polls"},
		{"PUT", "/polls/some-id"},
		{"GET", "/polls/some-id/votes"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405, got %d", w.Code)
			}
		})
	}
}

func TestPathParameterExtraction(t *testing.T) {
	mux := newTestRouter(t)

	// An unknown poll ID should reach the handler and come back 404
	req := httptest.NewRequest("GET", "/polls/does-not-exist", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown poll, got %d", w.Code)
	}
}
