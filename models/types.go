// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Rejection reason constants, in admission-check order
const (
	ReasonInvalidOption        = "invalid-option"
	ReasonDuplicateAddress     = "duplicate-address"
	ReasonDuplicateFingerprint = "duplicate-fingerprint"
	ReasonRateLimited          = "rate-limited"
)

// Live event type constants
const (
	EventResync = "resync"
	EventUpdate = "update"
)

// Poll shape limits
const (
	MaxQuestionLen = 500
	MaxOptionLen   = 200
	MinOptions     = 2
	MaxOptions     = 10
)

// Request types

type CreatePollRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// OptionIndex is a pointer so a missing field is distinguishable from 0.
type CastVoteRequest struct {
	OptionIndex *int   `json:"option_index"`
	Fingerprint string `json:"fingerprint"`
}

// Response types

type CreatePollResponse struct {
	PollID string `json:"poll_id"`
}

type CastVoteResponse struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
	Tally    []int  `json:"tally,omitempty"`
	Total    int    `json:"total,omitempty"`
}

// Domain types

type Poll struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Options   []string  `json:"options"`
	CreatedAt time.Time `json:"created_at"`
}

// Snapshot is the full poll state pushed to a subscriber on (re)join
// and returned by GET /polls/{id}.
type Snapshot struct {
	PollID   string   `json:"poll_id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Tally    []int    `json:"tally"`
	Total    int      `json:"total"`
}

// Live channel events

// ResyncEvent carries the full snapshot, sent once per subscribe.
type ResyncEvent struct {
	Type     string   `json:"type"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Tally    []int    `json:"tally"`
	Total    int      `json:"total"`
}

// UpdateEvent carries just the fresh counts, sent on every accepted vote.
type UpdateEvent struct {
	Type  string `json:"type"`
	Tally []int  `json:"tally"`
	Total int    `json:"total"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
