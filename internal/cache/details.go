// Package cache holds recently viewed detail snapshots so that re-entering a
// detail screen within the TTL skips the remote fetch entirely.
package cache

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/amaumene/gowatcharr/internal/services/omdb"
)

// DetailCache maps external IDs to detail snapshots. Entries never expire on
// their own; removal is scheduled explicitly when the consuming screen is
// released and cancelled if it becomes visible again before the TTL elapses.
type DetailCache struct {
	entries *gocache.Cache
	ttl     time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewDetailCache creates a cache whose clear timers fire after ttl
func NewDetailCache(ttl time.Duration) *DetailCache {
	return &DetailCache{
		entries: gocache.New(gocache.NoExpiration, 10*time.Minute),
		ttl:     ttl,
		timers:  make(map[string]*time.Timer),
	}
}

// Get returns the cached snapshot for id, if present
func (c *DetailCache) Get(id string) (*omdb.Detail, bool) {
	value, found := c.entries.Get(id)
	if !found {
		return nil, false
	}
	return value.(*omdb.Detail), true
}

// Put stores or overwrites the snapshot for id
func (c *DetailCache) Put(id string, detail *omdb.Detail) {
	c.entries.Set(id, detail, gocache.NoExpiration)
}

// StartClearTimer schedules removal of the entry for id after the TTL,
// replacing any removal already scheduled for it
func (c *DetailCache) StartClearTimer(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if timer, ok := c.timers[id]; ok {
		timer.Stop()
	}

	// The callback may race a re-arm or a cancel: Stop does not stop a timer
	// whose function is already pending. Only the timer still registered for
	// the id is allowed to remove the entry; a superseded one does nothing.
	var t *time.Timer
	t = time.AfterFunc(c.ttl, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.timers[id] != t {
			return
		}
		delete(c.timers, id)
		c.entries.Delete(id)
	})
	c.timers[id] = t
}

// CancelClearTimer cancels a scheduled removal for id, leaving the entry cached
func (c *DetailCache) CancelClearTimer(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if timer, ok := c.timers[id]; ok {
		timer.Stop()
		delete(c.timers, id)
	}
}
