// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package room

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollwire/pollwire/models"
)

// fakeConn records everything sent to it; can be told to fail.
type fakeConn struct {
	mu   sync.Mutex
	sent []any
	fail bool
}

func (c *fakeConn) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("connection gone")
	}
	c.sent = append(c.sent, v)
	return nil
}

func (c *fakeConn) events() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]any, len(c.sent))
	copy(out, c.sent)
	return out
}

// fakeSource serves canned snapshots per poll.
type fakeSource struct {
	mu    sync.Mutex
	snaps map[string]models.Snapshot
	err   error
}

func (s *fakeSource) Snapshot(_ context.Context, pollID string) (models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return models.Snapshot{}, s.err
	}
	snap, ok := s.snaps[pollID]
	if !ok {
		return models.Snapshot{}, errors.New("no such poll")
	}
	return snap, nil
}

func newTestSource() *fakeSource {
	return &fakeSource{snaps: map[string]models.Snapshot{
		"p1": {
			PollID:   "p1",
			Question: "Red or Blue?",
			Options:  []string{"Red", "Blue"},
			Tally:    []int{1, 0},
			Total:    1,
		},
		"p2": {
			PollID:   "p2",
			Question: "Tabs or Spaces?",
			Options:  []string{"Tabs", "Spaces"},
			Tally:    []int{0, 0},
			Total:    0,
		},
	}}
}

func TestSubscribeSendsResync(t *testing.T) {
	hub := NewHub(newTestSource())
	c := &fakeConn{}

	err := hub.Subscribe(context.Background(), "p1", c)
	require.NoError(t, err)

	events := c.events()
	require.Len(t, events, 1)
	resync, ok := events[0].(models.ResyncEvent)
	require.True(t, ok, "first event must be a resync")
	assert.Equal(t, models.EventResync, resync.Type)
	assert.Equal(t, "Red or Blue?", resync.Question)
	assert.Equal(t, []string{"Red", "Blue"}, resync.Options)
	assert.Equal(t, []int{1, 0}, resync.Tally)
	assert.Equal(t, 1, resync.Total)
	assert.Equal(t, 1, hub.Subscribers("p1"))
}

func TestSubscribeIdempotent(t *testing.T) {
	hub := NewHub(newTestSource())
	c := &fakeConn{}

	require.NoError(t, hub.Subscribe(context.Background(), "p1", c))
	require.NoError(t, hub.Subscribe(context.Background(), "p1", c))

	// Still one registration; the second subscribe is just a resync
	assert.Equal(t, 1, hub.Subscribers("p1"))
	assert.Len(t, c.events(), 2)
}

func TestSubscribeMovesConnectionBetweenPolls(t *testing.T) {
	hub := NewHub(newTestSource())
	c := &fakeConn{}

	require.NoError(t, hub.Subscribe(context.Background(), "p1", c))
	require.NoError(t, hub.Subscribe(context.Background(), "p2", c))

	assert.Equal(t, 0, hub.Subscribers("p1"))
	assert.Equal(t, 1, hub.Subscribers("p2"))

	// Update for the old poll must not reach the moved connection
	hub.Publish("p1", []int{2, 0}, 2)
	for _, ev := range c.events() {
		if up, ok := ev.(models.UpdateEvent); ok {
			t.Errorf("connection received update for old poll: %+v", up)
		}
	}
}

func TestSubscribeSnapshotFailure(t *testing.T) {
	src := newTestSource()
	src.err = errors.New("store down")
	hub := NewHub(src)
	c := &fakeConn{}

	err := hub.Subscribe(context.Background(), "p1", c)
	require.Error(t, err)

	// A failed subscribe must not leave a registration behind
	assert.Equal(t, 0, hub.Subscribers("p1"))
}

func TestPublishFansOutToCurrentSubscribers(t *testing.T) {
	hub := NewHub(newTestSource())
	subs := []*fakeConn{{}, {}, {}}
	for _, c := range subs {
		require.NoError(t, hub.Subscribe(context.Background(), "p1", c))
	}
	other := &fakeConn{}
	require.NoError(t, hub.Subscribe(context.Background(), "p2", other))

	hub.Publish("p1", []int{1, 1}, 2)

	for i, c := range subs {
		events := c.events()
		require.Len(t, events, 2, "subscriber %d", i)
		update, ok := events[1].(models.UpdateEvent)
		require.True(t, ok)
		assert.Equal(t, models.EventUpdate, update.Type)
		assert.Equal(t, []int{1, 1}, update.Tally)
		assert.Equal(t, 2, update.Total)
	}

	// The p2 subscriber saw only its resync
	assert.Len(t, other.events(), 1)
}

func TestPublishPrunesUnreachableSubscriber(t *testing.T) {
	hub := NewHub(newTestSource())
	healthy := &fakeConn{}
	dead := &fakeConn{}

	require.NoError(t, hub.Subscribe(context.Background(), "p1", healthy))
	require.NoError(t, hub.Subscribe(context.Background(), "p1", dead))
	dead.fail = true

	hub.Publish("p1", []int{2, 0}, 2)

	assert.Equal(t, 1, hub.Subscribers("p1"))

	// The healthy subscriber still receives later updates
	hub.Publish("p1", []int{3, 0}, 3)
	events := healthy.events()
	require.Len(t, events, 3)
}

func TestPublishToUnknownPollIsNoop(t *testing.T) {
	hub := NewHub(newTestSource())
	assert.NotPanics(t, func() {
		hub.Publish("nope", []int{1}, 1)
	})
}

func TestUnsubscribeRemovesAndCollectsRoom(t *testing.T) {
	hub := NewHub(newTestSource())
	c := &fakeConn{}
	require.NoError(t, hub.Subscribe(context.Background(), "p1", c))

	hub.Unsubscribe(c)
	assert.Equal(t, 0, hub.Subscribers("p1"))

	hub.mu.RLock()
	_, exists := hub.rooms["p1"]
	hub.mu.RUnlock()
	assert.False(t, exists, "empty room should be garbage-collected")

	// Double unsubscribe is harmless
	assert.NotPanics(t, func() { hub.Unsubscribe(c) })
}

func TestConcurrentSubscribePublish(t *testing.T) {
	hub := NewHub(newTestSource())

	var wg sync.WaitGroup
	conns := make([]*fakeConn, 20)
	for i := range conns {
		conns[i] = &fakeConn{}
		wg.Add(1)
		go func(c *fakeConn) {
			defer wg.Done()
			_ = hub.Subscribe(context.Background(), "p1", c)
		}(conns[i])
	}
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			hub.Publish("p1", []int{n, 0}, n)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, hub.Subscribers("p1"))
	for i, c := range conns {
		// Every subscriber got its resync, whatever else interleaved
		events := c.events()
		require.NotEmpty(t, events, "subscriber %d", i)
		found := false
		for _, ev := range events {
			if _, ok := ev.(models.ResyncEvent); ok {
				found = true
			}
		}
		assert.True(t, found, "subscriber %d missing resync", i)
	}
}
