// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pollwire/pollwire/admission"
	"github.com/pollwire/pollwire/cliparse"
	"github.com/pollwire/pollwire/identity"
	"github.com/pollwire/pollwire/middleware"
	"github.com/pollwire/pollwire/models"
	"github.com/pollwire/pollwire/room"
	"github.com/pollwire/pollwire/store"
)

// VoteHandler drives one vote attempt end-to-end: shape validation,
// identity extraction, the serialized admission+commit in the store,
// then the broadcast. The tally read by the commit is reused for both
// the voter's response and the update event, so the two delivery
// paths always reflect the same committed state.
type VoteHandler struct {
	store *store.Store
	hub   *room.Hub
	cfg   cliparse.Config
}

func NewVoteHandler(st *store.Store, hub *room.Hub, cfg cliparse.Config) *VoteHandler {
	return &VoteHandler{store: st, hub: hub, cfg: cfg}
}

// CastVote handles POST /polls/{id}/votes
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	// Parse request. A non-integer option_index fails JSON decoding
	// and lands here too.
	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Fingerprint == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "fingerprint is required")
		return
	}
	if req.OptionIndex == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "option_index is required")
		return
	}

	voter := identity.FromRequest(r, req.Fingerprint)

	// The commit must survive the voter hanging up mid-flight; only
	// the store timeout bounds it.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.cfg.StoreTimeout)
	defer cancel()

	counts, total, err := h.store.CommitVote(ctx, pollID, *req.OptionIndex, voter)
	if err != nil {
		h.writeVoteError(w, pollID, err)
		return
	}

	slog.Info("vote accepted", "poll_id", pollID, "option", *req.OptionIndex, "total", total)

	// Fan out to subscribers with the same post-commit tally the
	// voter is about to receive. Broadcast failures are the hub's
	// problem; the vote is already durable.
	h.hub.Publish(pollID, counts, total)

	middleware.JSONResponse(w, http.StatusOK, models.CastVoteResponse{
		Accepted: true,
		Tally:    counts,
		Total:    total,
	})
}

// writeVoteError maps commit failures onto the response taxonomy:
// unknown poll 404, invalid option 400, duplicate/rate-limit 409,
// storage timeout 503, anything else 500.
func (h *VoteHandler) writeVoteError(w http.ResponseWriter, pollID string, err error) {
	if err == store.ErrNotFound {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}

	var reject *admission.RejectError
	if errors.As(err, &reject) {
		status := http.StatusConflict
		if reject.Reason == models.ReasonInvalidOption {
			status = http.StatusBadRequest
		}
		slog.Info("vote rejected", "poll_id", pollID, "reason", reject.Reason)
		middleware.JSONResponse(w, status, models.CastVoteResponse{
			Accepted: false,
			Reason:   reject.Reason,
		})
		return
	}

	if errors.Is(err, context.DeadlineExceeded) {
		slog.Warn("vote commit timed out", "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Storage timeout, try again")
		return
	}

	slog.Error("failed to commit vote", "error", err, "poll_id", pollID)
	middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
}
