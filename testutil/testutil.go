// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/pollwire/pollwire/auth"
	"github.com/pollwire/pollwire/cliparse"
	"github.com/pollwire/pollwire/db"
)

// SetupTestDB creates a fresh in-memory SQLite database with the full
// schema. Each call returns an isolated database; closing it discards
// everything.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// A single connection keeps the in-memory database alive and
	// serializes access the way a file-backed SQLite would
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3319,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		AddrHashSalt: "test-addr-salt",
		VoteWindow:   5 * time.Minute,
		StoreTimeout: 5 * time.Second,
	}
}

// CreateTestPoll inserts a poll with the given option labels and
// returns its ID.
func CreateTestPoll(t *testing.T, conn *sql.DB, question string, options []string) string {
	t.Helper()

	pollID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO poll (id, question, created_at)
		VALUES ($1, $2, $3)
	`, pollID, question, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	for idx, label := range options {
		_, err := conn.Exec(`
			INSERT INTO poll_option (poll_id, idx, label)
			VALUES ($1, $2, $3)
		`, pollID, idx, label)
		if err != nil {
			t.Fatalf("Failed to create test option: %v", err)
		}
	}

	return pollID
}

// CastTestVote inserts an accepted vote directly, bypassing admission.
// The address is hashed with the test config salt, matching what the
// store would write.
func CastTestVote(t *testing.T, conn *sql.DB, pollID string, optionIdx int, addr, fingerprint string) {
	t.Helper()

	cfg := GetTestConfig()
	_, err := conn.Exec(`
		INSERT INTO vote (poll_id, option_idx, addr_hash, fingerprint, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, pollID, optionIdx, auth.HashAddr(addr, cfg.AddrHashSalt), fingerprint, time.Now())
	if err != nil {
		t.Fatalf("Failed to insert test vote: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
