// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/pollwire/pollwire/cliparse"
	"github.com/pollwire/pollwire/handlers"
	"github.com/pollwire/pollwire/middleware"
	"github.com/pollwire/pollwire/room"
	"github.com/pollwire/pollwire/store"
)

func NewRouter(dbConn *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Wire the core: store owns durable state, hub fans updates out
	// and pulls resync snapshots from the store
	st := store.New(dbConn, cfg)
	hub := room.NewHub(st)

	pollHandler := handlers.NewPollHandler(st, cfg)
	voteHandler := handlers.NewVoteHandler(st, hub, cfg)
	liveHandler := handlers.NewLiveHandler(st, hub, cfg)

	// Health check
	started := time.Now()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"started": humanize.Time(started),
		})
	})

	// Polls
	mux.HandleFunc("POST /polls", middleware.WithLogging(pollHandler.CreatePoll))
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(pollHandler.GetPoll))

	// Voting
	mux.HandleFunc("POST /polls/{id}/votes", middleware.WithLogging(voteHandler.CastVote))

	// Live tally channel (no logging wrapper: the connection is
	// long-lived, so per-request duration logging is meaningless)
	mux.HandleFunc("GET /polls/{id}/live", liveHandler.Watch)

	// Root endpoint. {$} pins the pattern to the root path itself so
	// unmatched GETs get a proper 404/405 instead of the banner.
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pollwire API v1"))
	})

	return mux
}
