// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package admission

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pollwire/pollwire/models"
)

// Querier is the read surface the checks run against. In production it
// is the *sql.Tx that will also perform the vote INSERT, so the checks
// and the commit observe one consistent state.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// RejectError reports a vote attempt turned away by an admission check.
// Reason is one of the models.Reason* constants.
type RejectError struct {
	Reason string
}

func (e *RejectError) Error() string {
	return "vote rejected: " + e.Reason
}

// Reject builds a RejectError for the given reason.
func Reject(reason string) *RejectError {
	return &RejectError{Reason: reason}
}

// Check runs the admission checks for one vote attempt, in order,
// short-circuiting on the first failure:
//
//  1. optionIdx must be in [0, optionCount)
//  2. no accepted vote for this poll from this address
//  3. no accepted vote for this poll with this fingerprint
//  4. no accepted vote for this poll from this address within the
//     trailing rate-limit window
//
// Returns nil on admit, a *RejectError on reject, or a wrapped query
// error. Check never mutates anything.
func Check(ctx context.Context, q Querier, pollID string, optionCount, optionIdx int, addrHash, fingerprint string, window time.Duration, now time.Time) error {
	// 1. Structural: option index within the poll's range
	if optionIdx < 0 || optionIdx >= optionCount {
		return Reject(models.ReasonInvalidOption)
	}

	// 2. Duplicate by address
	var exists bool
	err := q.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM vote WHERE poll_id = $1 AND addr_hash = $2
		)
	`, pollID, addrHash).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check address duplicates: %w", err)
	}
	if exists {
		return Reject(models.ReasonDuplicateAddress)
	}

	// 3. Duplicate by fingerprint
	err = q.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM vote WHERE poll_id = $1 AND fingerprint = $2
		)
	`, pollID, fingerprint).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check fingerprint duplicates: %w", err)
	}
	if exists {
		return Reject(models.ReasonDuplicateFingerprint)
	}

	// 4. Velocity: accepted votes from this address inside the window.
	// Checks 2-3 only see votes visible to this transaction; this one
	// closes the race where two commits from one address interleave
	// before either is visible to the other.
	var recent int
	err = q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM vote
		WHERE poll_id = $1 AND addr_hash = $2 AND created_at > $3
	`, pollID, addrHash, now.Add(-window)).Scan(&recent)
	if err != nil {
		return fmt.Errorf("failed to check vote velocity: %w", err)
	}
	if recent > 0 {
		return Reject(models.ReasonRateLimited)
	}

	return nil
}
