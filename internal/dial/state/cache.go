package state

import (
	"sync"
	"time"
)

// Status is a snapshot of the last-known state of one app, as last
// reported through Update. A missing entry in the Cache means "not
// launched since boot" (spec.md §3).
type Status struct {
	ApplicationName string
	ApplicationID   string
	State           AppState
	Err             error
}

// Cache is the authoritative map of app name to last-known state,
// updated by an out-of-band notification stream (platform.Notifier) and
// queried synchronously by HTTP handlers. It is the sole source of truth
// for "did the state actually change" — handlers never trust a platform
// command's own return code for that (spec.md §3, invariant 2).
//
// Modeled on the mutex-guarded map + broadcast-on-update shape of
// location.Store in the teacher repo, generalized with a sync.Cond so
// callers can block until a desired state appears instead of polling.
type Cache struct {
	mu    sync.Mutex
	cond  *sync.Cond
	table map[string]Status
}

// NewCache creates an empty state cache.
func NewCache() *Cache {
	c := &Cache{table: make(map[string]Status)}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Update replaces the cached status for an app and wakes every waiter so
// they can re-check their condition. This is the entry point the
// out-of-scope "remote object protocol" notification channel calls into
// (spec.md §4.6).
func (c *Cache) Update(s Status) {
	c.mu.Lock()
	c.table[s.ApplicationName] = s
	c.mu.Unlock()
	c.cond.Broadcast()
}

// Get returns the cached status for an app, if any.
func (c *Cache) Get(appName string) (Status, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.table[appName]
	return s, ok
}

// Delete removes the cached status for an app; an absent app then
// satisfies a Stopped wait. The STOP handler does not call it: it
// releases the instance.Store entry and leaves the cached STOPPED status
// in place.
func (c *Cache) Delete(appName string) {
	c.mu.Lock()
	delete(c.table, appName)
	c.mu.Unlock()
}

// WaitForState blocks until appName reaches desired, the deadline implied
// by timeout elapses, or (desired == Stopped and the app is absent from
// the cache, which is semantically equivalent to stopped). Returns true
// iff the desired state was observed before the deadline (spec.md §4.6).
func (c *Cache) WaitForState(appName string, desired AppState, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)

	c.mu.Lock()
	defer c.mu.Unlock()

	for {
		s, ok := c.table[appName]
		if !ok && desired == Stopped {
			return true
		}
		if ok && s.State == desired {
			return true
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false
		}

		// sync.Cond has no timed wait, so a timer goroutine wakes us
		// up at the deadline; normal Updates wake us via Broadcast.
		timer := time.AfterFunc(remaining, func() {
			c.cond.Broadcast()
		})
		c.cond.Wait()
		timer.Stop()
	}
}
