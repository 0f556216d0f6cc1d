// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package room

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pollwire/pollwire/models"
)

// Conn is one live subscriber connection. Send must be safe for
// concurrent use and must return an error (never block forever) when
// the peer is gone; a failed Send gets the connection pruned.
type Conn interface {
	Send(v any) error
}

// SnapshotSource provides the full current state of a poll for the
// resync sent at subscribe time. Implemented by *store.Store.
type SnapshotSource interface {
	Snapshot(ctx context.Context, pollID string) (models.Snapshot, error)
}

// Hub fans tally updates out to the live subscribers of each poll.
// Subscriber sets are in-memory and process-lifetime only; clients
// re-subscribe after a restart and are made whole by the resync.
type Hub struct {
	source SnapshotSource

	// mu guards rooms and conns. It is only held for membership
	// bookkeeping, never while writing to a connection, so traffic
	// for one poll cannot stall another.
	mu    sync.RWMutex
	rooms map[string]*room
	conns map[Conn]string // conn -> poll it is subscribed to
}

// room is one poll's subscriber set. Its own mutex serializes
// membership changes and fanout for that poll only.
type room struct {
	mu   sync.Mutex
	subs map[Conn]struct{}
}

func NewHub(source SnapshotSource) *Hub {
	return &Hub{
		source: source,
		rooms:  make(map[string]*room),
		conns:  make(map[Conn]string),
	}
}

// Subscribe registers the connection in the poll's subscriber set and
// immediately sends it a resync event with the poll's full current
// snapshot. Subscribing is idempotent; subscribing to a different
// poll moves the connection. The snapshot is read after registration,
// so it can never miss a vote committed before the resync.
func (h *Hub) Subscribe(ctx context.Context, pollID string, c Conn) error {
	h.mu.Lock()
	if prev, ok := h.conns[c]; ok && prev != pollID {
		h.removeLocked(c, prev)
	}
	rm, ok := h.rooms[pollID]
	if !ok {
		rm = &room{subs: make(map[Conn]struct{})}
		h.rooms[pollID] = rm
	}
	h.conns[c] = pollID
	h.mu.Unlock()

	rm.mu.Lock()
	rm.subs[c] = struct{}{}
	rm.mu.Unlock()

	snap, err := h.source.Snapshot(ctx, pollID)
	if err != nil {
		h.Unsubscribe(c)
		return fmt.Errorf("failed to load resync snapshot: %w", err)
	}

	if err := c.Send(models.ResyncEvent{
		Type:     models.EventResync,
		Question: snap.Question,
		Options:  snap.Options,
		Tally:    snap.Tally,
		Total:    snap.Total,
	}); err != nil {
		h.Unsubscribe(c)
		return fmt.Errorf("failed to send resync: %w", err)
	}

	return nil
}

// Unsubscribe removes the connection from whichever poll it is
// subscribed to. Safe to call for connections that were never
// subscribed or are already gone.
func (h *Hub) Unsubscribe(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	pollID, ok := h.conns[c]
	if !ok {
		return
	}
	h.removeLocked(c, pollID)
}

// removeLocked drops c from pollID's room and garbage-collects the
// room if it is now empty. Caller holds h.mu.
func (h *Hub) removeLocked(c Conn, pollID string) {
	delete(h.conns, c)
	rm, ok := h.rooms[pollID]
	if !ok {
		return
	}
	rm.mu.Lock()
	delete(rm.subs, c)
	empty := len(rm.subs) == 0
	rm.mu.Unlock()
	if empty {
		delete(h.rooms, pollID)
	}
}

// Publish sends an update event with the fresh tally to every current
// subscriber of the poll. Connections that fail the write are pruned;
// a partial delivery failure is logged and never returned, because
// the triggering vote is already committed.
func (h *Hub) Publish(pollID string, counts []int, total int) {
	h.mu.RLock()
	rm, ok := h.rooms[pollID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	rm.mu.Lock()
	targets := make([]Conn, 0, len(rm.subs))
	for c := range rm.subs {
		targets = append(targets, c)
	}
	rm.mu.Unlock()

	event := models.UpdateEvent{
		Type:  models.EventUpdate,
		Tally: counts,
		Total: total,
	}

	for _, c := range targets {
		if err := c.Send(event); err != nil {
			slog.Warn("dropping unreachable subscriber", "poll_id", pollID, "error", err)
			h.Unsubscribe(c)
		}
	}
}

// Subscribers reports how many connections are subscribed to a poll.
func (h *Hub) Subscribers(pollID string) int {
	h.mu.RLock()
	rm, ok := h.rooms[pollID]
	h.mu.RUnlock()
	if !ok {
		return 0
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return len(rm.subs)
}
