package server

import (
	"context"
	"sync"

	"quadropong/internal/game"
)

// snapshotCell is the single-slot handoff between the tick loop and the
// send loop. Publishing overwrites whatever is pending; a slow consumer
// only ever sees the latest snapshot, never a backlog.
type snapshotCell struct {
	mu    sync.Mutex
	snap  game.Snapshot
	valid bool
	ping  chan struct{}
}

func newSnapshotCell() *snapshotCell {
	return &snapshotCell{ping: make(chan struct{}, 1)}
}

func (c *snapshotCell) publish(s game.Snapshot) {
	c.mu.Lock()
	c.snap = s
	c.valid = true
	c.mu.Unlock()

	select {
	case c.ping <- struct{}{}:
	default:
	}
}

// wait blocks until a snapshot has been published since the last take, or
// the context ends.
func (c *snapshotCell) wait(ctx context.Context) (game.Snapshot, bool) {
	select {
	case <-ctx.Done():
		return game.Snapshot{}, false
	case <-c.ping:
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap, c.valid
}

// latest returns the most recent snapshot without blocking.
func (c *snapshotCell) latest() (game.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap, c.valid
}
