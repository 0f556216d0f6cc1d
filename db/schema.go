// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL is the portable subset accepted by both PostgreSQL and
// SQLite: no server-side timestamp defaults (callers always pass
// created_at explicitly).
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Polls (immutable after creation; no edit/delete)
CREATE TABLE IF NOT EXISTS poll (
    id TEXT PRIMARY KEY,
    question TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

-- Options, ordered by idx within their poll
CREATE TABLE IF NOT EXISTS poll_option (
    poll_id TEXT NOT NULL REFERENCES poll(id),
    idx INTEGER NOT NULL,
    label TEXT NOT NULL,
    PRIMARY KEY (poll_id, idx)
);

-- Votes (append-only). The two named UNIQUE constraints are the
-- transactional backstop for the duplicate-address and
-- duplicate-fingerprint admission checks: a race that slips past the
-- read checks surfaces as a constraint violation
CREATE TABLE IF NOT EXISTS vote (
    poll_id TEXT NOT NULL REFERENCES poll(id),
    option_idx INTEGER NOT NULL,
    addr_hash TEXT NOT NULL,
    fingerprint TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    CONSTRAINT vote_addr_unique UNIQUE (poll_id, addr_hash),
    CONSTRAINT vote_fp_unique UNIQUE (poll_id, fingerprint)
);

CREATE INDEX IF NOT EXISTS idx_vote_poll_id ON vote(poll_id);
CREATE INDEX IF NOT EXISTS idx_vote_poll_created ON vote(poll_id, created_at);
`
