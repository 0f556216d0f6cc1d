// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pollwire/pollwire/cliparse"
	"github.com/pollwire/pollwire/middleware"
	"github.com/pollwire/pollwire/models"
	"github.com/pollwire/pollwire/store"
)

type PollHandler struct {
	store *store.Store
	cfg   cliparse.Config
}

func NewPollHandler(st *store.Store, cfg cliparse.Config) *PollHandler {
	return &PollHandler{store: st, cfg: cfg}
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	question := strings.TrimSpace(req.Question)
	if question == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question is required")
		return
	}
	if len(question) > models.MaxQuestionLen {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question must be at most 500 characters")
		return
	}
	if len(req.Options) < models.MinOptions || len(req.Options) > models.MaxOptions {
		middleware.ErrorResponse(w, http.StatusBadRequest, "polls need 2-10 options")
		return
	}
	options := make([]string, len(req.Options))
	for i, label := range req.Options {
		label = strings.TrimSpace(label)
		if label == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "option labels cannot be empty")
			return
		}
		if len(label) > models.MaxOptionLen {
			middleware.ErrorResponse(w, http.StatusBadRequest, "option labels must be at most 200 characters")
			return
		}
		options[i] = label
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.StoreTimeout)
	defer cancel()

	poll, err := h.store.CreatePoll(ctx, question, options)
	if err != nil {
		slog.Error("failed to create poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		PollID: poll.ID,
	})
}

// GetPoll handles GET /polls/{id}
// Returns the poll's question, options, and live tally. Tallies are
// public and live; a reader may see a snapshot that is an update or
// two behind and catches up over the live channel.
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.StoreTimeout)
	defer cancel()

	snap, err := h.store.Snapshot(ctx, pollID)
	if err == store.ErrNotFound {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Storage timeout, try again")
		return
	}
	if err != nil {
		slog.Error("failed to load poll snapshot", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, snap)
}
