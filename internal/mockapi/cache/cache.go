// ABOUTME: In-memory cache with TTL-based expiration
// ABOUTME: Thread-safe cache using sync.Map with a stoppable cleanup loop

package cache

import (
	"log/slog"
	"sync"
	"time"
)

type entry struct {
	data      any
	expiresAt time.Time
}

// Cache stores values until their TTL passes
type Cache struct {
	store    sync.Map
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a cache whose entries live for ttl unless set otherwise.
// Call Stop to end the background sweep.
func New(ttl time.Duration) *Cache {
	c := &Cache{
		ttl:  ttl,
		stop: make(chan struct{}),
	}
	go c.startCleanup(time.Minute)
	return c
}

func (c *Cache) Get(key string) (any, bool) {
	val, ok := c.store.Load(key)
	if !ok {
		return nil, false
	}

	e := val.(entry)
	if !time.Now().Before(e.expiresAt) {
		c.store.Delete(key)
		slog.Debug("Cache expired", "key", key)
		return nil, false
	}
	return e.data, true
}

func (c *Cache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.store.Store(key, entry{data: value, expiresAt: time.Now().Add(ttl)})
	slog.Debug("Cache set", "key", key, "ttl", ttl)
}

func (c *Cache) Clear(key string) {
	c.store.Delete(key)
}

// Len counts live entries
func (c *Cache) Len() int {
	n := 0
	now := time.Now()
	c.store.Range(func(_, val any) bool {
		if now.Before(val.(entry).expiresAt) {
			n++
		}
		return true
	})
	return n
}

// Stop ends the cleanup goroutine. Safe to call more than once.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache) startCleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case now := <-ticker.C:
			c.sweep(now)
		}
	}
}

func (c *Cache) sweep(now time.Time) {
	c.store.Range(func(key, val any) bool {
		if !now.Before(val.(entry).expiresAt) {
			c.store.Delete(key)
		}
		return true
	})
}
