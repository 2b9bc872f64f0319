package cache

import (
	"testing"
	"time"

	"github.com/amaumene/gowatcharr/internal/services/omdb"
)

func TestPutAndGet(t *testing.T) {
	c := NewDetailCache(time.Minute)

	if _, ok := c.Get("tt0133093"); ok {
		t.Fatal("Expected miss on empty cache")
	}

	detail := &omdb.Detail{ImdbID: "tt0133093", Title: "The Matrix"}
	c.Put("tt0133093", detail)

	got, ok := c.Get("tt0133093")
	if !ok {
		t.Fatal("Expected hit after Put")
	}
	if got != detail {
		t.Error("Expected the exact stored snapshot back")
	}
}

func TestEntrySurvivesWithoutClearTimer(t *testing.T) {
	c := NewDetailCache(20 * time.Millisecond)

	c.Put("tt0133093", &omdb.Detail{ImdbID: "tt0133093"})
	time.Sleep(60 * time.Millisecond)

	// No clear timer was started, so the TTL never applied
	if _, ok := c.Get("tt0133093"); !ok {
		t.Error("Entry should survive indefinitely without a clear timer")
	}
}

func TestClearTimerRemovesEntry(t *testing.T) {
	c := NewDetailCache(20 * time.Millisecond)

	c.Put("tt0133093", &omdb.Detail{ImdbID: "tt0133093"})
	c.StartClearTimer("tt0133093")

	time.Sleep(80 * time.Millisecond)

	if _, ok := c.Get("tt0133093"); ok {
		t.Error("Entry should be gone after the clear timer fired")
	}
}

func TestCancelClearTimerKeepsEntry(t *testing.T) {
	c := NewDetailCache(20 * time.Millisecond)

	c.Put("tt0133093", &omdb.Detail{ImdbID: "tt0133093"})
	c.StartClearTimer("tt0133093")
	c.CancelClearTimer("tt0133093")

	time.Sleep(80 * time.Millisecond)

	if _, ok := c.Get("tt0133093"); !ok {
		t.Error("Entry should survive when the clear timer was cancelled")
	}
}

func TestRearmAtExpiryThenCancelKeepsEntry(t *testing.T) {
	ttl := 10 * time.Millisecond

	// Re-arm right as the first timer fires, then cancel. A stale callback
	// from the first timer must not remove the entry or the new timer's
	// registration. Iterate to land inside the firing window.
	for i := 0; i < 25; i++ {
		c := NewDetailCache(ttl)
		c.StartClearTimer("tt0133093")
		time.Sleep(ttl)

		c.Put("tt0133093", &omdb.Detail{ImdbID: "tt0133093"})
		c.StartClearTimer("tt0133093")
		c.CancelClearTimer("tt0133093")

		time.Sleep(3 * ttl)
		if _, ok := c.Get("tt0133093"); !ok {
			t.Fatalf("Entry removed despite cancellation on iteration %d", i)
		}
	}
}

func TestStartClearTimerReplacesPendingTimer(t *testing.T) {
	c := NewDetailCache(50 * time.Millisecond)

	c.Put("tt0133093", &omdb.Detail{ImdbID: "tt0133093"})
	c.StartClearTimer("tt0133093")

	// Re-arming before expiry restarts the countdown
	time.Sleep(30 * time.Millisecond)
	c.StartClearTimer("tt0133093")
	time.Sleep(30 * time.Millisecond)

	if _, ok := c.Get("tt0133093"); !ok {
		t.Error("Entry should still be cached, the second timer restarted the countdown")
	}

	time.Sleep(50 * time.Millisecond)
	if _, ok := c.Get("tt0133093"); ok {
		t.Error("Entry should be gone after the restarted timer fired")
	}
}
