// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import "testing"

func TestGenerateID(t *testing.T) {
	id, err := GenerateID(16)
	if err != nil {
		t.Fatalf("GenerateID failed: %v", err)
	}
	if len(id) != 32 { // 16 bytes = 32 hex chars
		t.Errorf("Expected 32 hex chars, got %d", len(id))
	}

	// Two IDs should differ
	id2, err := GenerateID(16)
	if err != nil {
		t.Fatalf("GenerateID failed: %v", err)
	}
	if id == id2 {
		t.Error("Two generated IDs were identical")
	}
}

func TestHashAddrDeterministic(t *testing.T) {
	h1 := HashAddr("203.0.113.7", "salt-a")
	h2 := HashAddr("203.0.113.7", "salt-a")
	if h1 != h2 {
		t.Errorf("Same input produced different hashes: %q vs %q", h1, h2)
	}
	if len(h1) != 16 { // 8 bytes = 16 hex chars
		t.Errorf("Expected 16 hex chars, got %d", len(h1))
	}
}

func TestHashAddrSaltMatters(t *testing.T) {
	h1 := HashAddr("203.0.113.7", "salt-a")
	h2 := HashAddr("203.0.113.7", "salt-b")
	if h1 == h2 {
		t.Error("Different salts produced the same hash")
	}
}

func TestHashAddrDistinguishesAddresses(t *testing.T) {
	h1 := HashAddr("203.0.113.7", "salt-a")
	h2 := HashAddr("203.0.113.8", "salt-a")
	if h1 == h2 {
		t.Error("Different addresses produced the same hash")
	}
}
