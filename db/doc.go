// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db creates the database schema.

# Tables

  - poll: id, question, created_at
  - poll_option: (poll_id, idx) composite key, label
  - vote: poll_id, option_idx, addr_hash, fingerprint, created_at

Tallies are never stored; they are derived by counting vote rows per
option. This makes the invariant "sum of tally == count of accepted
votes" structural rather than something to keep in sync.

# Uniqueness Constraints

vote carries two named UNIQUE constraints:

  - vote_addr_unique (poll_id, addr_hash)
  - vote_fp_unique (poll_id, fingerprint)

These back the admission layer's duplicate checks: if two commits for
the same poll race, the loser's INSERT fails with a constraint
violation that the store maps to the matching duplicate rejection.

# Drivers

The schema and all queries use the portable subset that works on both
PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite): $N placeholders
in first-occurrence order, no server-side defaults for timestamps.
*/
package db
