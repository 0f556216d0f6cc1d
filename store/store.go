// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pollwire/pollwire/admission"
	"github.com/pollwire/pollwire/auth"
	"github.com/pollwire/pollwire/cliparse"
	"github.com/pollwire/pollwire/identity"
	"github.com/pollwire/pollwire/models"
)

// ErrNotFound is returned when a poll does not exist.
var ErrNotFound = errors.New("poll not found")

// querier is the common read surface of *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Store owns polls and votes. Vote commits for the same poll are
// serialized through a per-poll mutex so the admission checks and the
// insert act as one unit; commits for different polls never contend.
type Store struct {
	db  *sql.DB
	cfg cliparse.Config

	mu        sync.Mutex
	pollLocks map[string]*sync.Mutex
}

func New(db *sql.DB, cfg cliparse.Config) *Store {
	return &Store{
		db:        db,
		cfg:       cfg,
		pollLocks: make(map[string]*sync.Mutex),
	}
}

// lockPoll returns the write-serialization mutex for a poll,
// creating it on first use.
func (s *Store) lockPoll(pollID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.pollLocks[pollID]
	if !ok {
		l = &sync.Mutex{}
		s.pollLocks[pollID] = l
	}
	return l
}

// CreatePoll inserts a new poll with its ordered option labels and
// returns it. Validation of question/option shape happens in the
// handler; the store only requires a non-empty option list.
func (s *Store) CreatePoll(ctx context.Context, question string, options []string) (models.Poll, error) {
	poll := models.Poll{
		ID:        uuid.NewString(),
		Question:  question,
		Options:   options,
		CreatedAt: time.Now(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO poll (id, question, created_at)
		VALUES ($1, $2, $3)
	`, poll.ID, poll.Question, poll.CreatedAt)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to insert poll: %w", err)
	}

	for idx, label := range options {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO poll_option (poll_id, idx, label)
			VALUES ($1, $2, $3)
		`, poll.ID, idx, label)
		if err != nil {
			return models.Poll{}, fmt.Errorf("failed to insert option %d: %w", idx, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Poll{}, fmt.Errorf("failed to commit poll: %w", err)
	}

	slog.Info("poll created", "poll_id", poll.ID, "options", len(options))
	return poll, nil
}

// GetPoll loads a poll and its ordered options. Returns ErrNotFound
// if the poll does not exist.
func (s *Store) GetPoll(ctx context.Context, pollID string) (models.Poll, error) {
	return getPoll(ctx, s.db, pollID)
}

func getPoll(ctx context.Context, q querier, pollID string) (models.Poll, error) {
	var poll models.Poll
	err := q.QueryRowContext(ctx, `
		SELECT id, question, created_at FROM poll WHERE id = $1
	`, pollID).Scan(&poll.ID, &poll.Question, &poll.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Poll{}, ErrNotFound
	}
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to query poll: %w", err)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT label FROM poll_option WHERE poll_id = $1 ORDER BY idx
	`, pollID)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return models.Poll{}, fmt.Errorf("failed to scan option: %w", err)
		}
		poll.Options = append(poll.Options, label)
	}
	if err := rows.Err(); err != nil {
		return models.Poll{}, fmt.Errorf("failed to read options: %w", err)
	}

	return poll, nil
}

// GetTally returns the per-option vote counts and their sum for a
// poll. Counts are derived from vote rows, never stored, so the sum
// always equals the number of accepted votes. Returns ErrNotFound if
// the poll does not exist.
func (s *Store) GetTally(ctx context.Context, pollID string) ([]int, int, error) {
	poll, err := s.GetPoll(ctx, pollID)
	if err != nil {
		return nil, 0, err
	}
	return tally(ctx, s.db, pollID, len(poll.Options))
}

func tally(ctx context.Context, q querier, pollID string, optionCount int) ([]int, int, error) {
	counts := make([]int, optionCount)
	total := 0

	rows, err := q.QueryContext(ctx, `
		SELECT option_idx, COUNT(*) FROM vote
		WHERE poll_id = $1
		GROUP BY option_idx
	`, pollID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query tally: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var idx, n int
		if err := rows.Scan(&idx, &n); err != nil {
			return nil, 0, fmt.Errorf("failed to scan tally row: %w", err)
		}
		if idx >= 0 && idx < optionCount {
			counts[idx] = n
			total += n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read tally: %w", err)
	}

	return counts, total, nil
}

// Snapshot returns the full live state of a poll: question, options,
// tally, and total. This is what a subscriber receives on (re)join.
func (s *Store) Snapshot(ctx context.Context, pollID string) (models.Snapshot, error) {
	poll, err := s.GetPoll(ctx, pollID)
	if err != nil {
		return models.Snapshot{}, err
	}
	counts, total, err := tally(ctx, s.db, pollID, len(poll.Options))
	if err != nil {
		return models.Snapshot{}, err
	}
	return models.Snapshot{
		PollID:   poll.ID,
		Question: poll.Question,
		Options:  poll.Options,
		Tally:    counts,
		Total:    total,
	}, nil
}

// CommitVote runs the admission checks and, if they pass, records the
// vote and returns the post-commit tally in one serialized unit. The
// returned tally reflects the state immediately after this vote; the
// caller reuses it for both the voter's response and the broadcast.
//
// Rejections come back as *admission.RejectError with zero storage
// mutation. A uniqueness-constraint race is mapped to the matching
// duplicate-* rejection.
func (s *Store) CommitVote(ctx context.Context, pollID string, optionIdx int, id identity.Identity) ([]int, int, error) {
	addrHash := auth.HashAddr(id.Addr, s.cfg.AddrHashSalt)

	// Serialize check-then-insert per poll. Different polls proceed
	// in parallel.
	lock := s.lockPoll(pollID)
	lock.Lock()
	defer lock.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	poll, err := getPoll(ctx, tx, pollID)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now()
	if err := admission.Check(ctx, tx, pollID, len(poll.Options), optionIdx, addrHash, id.Fingerprint, s.cfg.VoteWindow, now); err != nil {
		return nil, 0, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO vote (poll_id, option_idx, addr_hash, fingerprint, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, pollID, optionIdx, addrHash, id.Fingerprint, now)
	if err != nil {
		if reason, ok := conflictReason(err); ok {
			// Constraint backstop: treat like the matching reject
			return nil, 0, admission.Reject(reason)
		}
		return nil, 0, fmt.Errorf("failed to insert vote: %w", err)
	}

	counts, total, err := tally(ctx, tx, pollID, len(poll.Options))
	if err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("failed to commit vote: %w", err)
	}

	return counts, total, nil
}

// conflictReason maps a uniqueness-constraint violation to the
// admission reason it enforces. Matches both the SQLite error shape
// (column list) and the Postgres one (constraint name).
func conflictReason(err error) (string, bool) {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "vote.poll_id, vote.addr_hash") ||
		strings.Contains(msg, "vote_addr_unique"):
		return models.ReasonDuplicateAddress, true
	case strings.Contains(msg, "vote.poll_id, vote.fingerprint") ||
		strings.Contains(msg, "vote_fp_unique"):
		return models.ReasonDuplicateFingerprint, true
	}
	return "", false
}
