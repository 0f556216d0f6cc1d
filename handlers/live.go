// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pollwire/pollwire/auth"
	"github.com/pollwire/pollwire/cliparse"
	"github.com/pollwire/pollwire/middleware"
	"github.com/pollwire/pollwire/room"
	"github.com/pollwire/pollwire/store"
)

const (
	// writeTimeout bounds a single event write; a subscriber that
	// cannot drain within it gets pruned by the hub.
	writeTimeout = 10 * time.Second

	// maxFrameSize caps inbound frames. Clients have nothing to say
	// on this channel.
	maxFrameSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Live tallies are public, same as GET /polls/{id}
	CheckOrigin: func(r *http.Request) bool { return true },
}

type LiveHandler struct {
	store *store.Store
	hub   *room.Hub
	cfg   cliparse.Config
}

func NewLiveHandler(st *store.Store, hub *room.Hub, cfg cliparse.Config) *LiveHandler {
	return &LiveHandler{store: st, hub: hub, cfg: cfg}
}

// Watch handles GET /polls/{id}/live
// Upgrades to a WebSocket, subscribes the connection to the poll
// (which pushes the resync snapshot), then blocks reading until the
// peer goes away. Inbound frames are discarded; the read loop exists
// to notice disconnects.
func (h *LiveHandler) Watch(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	// Reject unknown polls before upgrading so the client gets a
	// plain 404 instead of a dropped socket
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.StoreTimeout)
	_, err := h.store.GetPoll(ctx, pollID)
	cancel()
	if err == store.ErrNotFound {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to load poll for live channel", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	sock, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response
		slog.Warn("websocket upgrade failed", "error", err, "poll_id", pollID)
		return
	}

	connID, _ := auth.GenerateID(4)
	conn := &wsConn{sock: sock}

	ctx, cancel = context.WithTimeout(r.Context(), h.cfg.StoreTimeout)
	err = h.hub.Subscribe(ctx, pollID, conn)
	cancel()
	if err != nil {
		slog.Warn("subscribe failed", "error", err, "poll_id", pollID, "conn_id", connID)
		sock.Close()
		return
	}

	slog.Info("subscriber joined", "poll_id", pollID, "conn_id", connID,
		"subscribers", h.hub.Subscribers(pollID))

	sock.SetReadLimit(maxFrameSize)
	for {
		if _, _, err := sock.ReadMessage(); err != nil {
			break
		}
	}

	h.hub.Unsubscribe(conn)
	sock.Close()

	slog.Info("subscriber left", "poll_id", pollID, "conn_id", connID,
		"subscribers", h.hub.Subscribers(pollID))
}

// wsConn adapts a gorilla connection to room.Conn. Publishes for a
// busy poll arrive from many goroutines; the mutex keeps frames
// whole, and the deadline keeps a stalled peer from wedging fanout.
type wsConn struct {
	mu   sync.Mutex
	sock *websocket.Conn
}

func (c *wsConn) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sock.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.sock.WriteJSON(v)
}
