package ratelimiter

import (
	"sync"
	"time"
)

// sweepInterval bounds how long an expired counter can linger before the
// janitor reclaims it. Reads never return expired entries regardless.
const sweepInterval = time.Minute

type counter struct {
	value     int
	expiresAt time.Time
}

// InMemory is a process-local counter store. Entries with a zero expiry live
// until Close.
type InMemory struct {
	mu        sync.RWMutex
	counters  map[string]counter
	done      chan struct{}
	closeOnce sync.Once
}

func NewInMemory() GetterSetter {
	im := &InMemory{
		counters: make(map[string]counter),
		done:     make(chan struct{}),
	}
	go im.sweep()
	return im
}

func (im *InMemory) Get(key string) (int, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()

	c, ok := im.counters[key]
	if !ok || c.expired(time.Now()) {
		return 0, ErrCacheMiss
	}
	return c.value, nil
}

func (im *InMemory) Set(key string, value int) error {
	return im.SetWithExpiration(key, value, 0)
}

func (im *InMemory) SetWithExpiration(key string, value int, expiration time.Duration) error {
	c := counter{value: value}
	if expiration > 0 {
		c.expiresAt = time.Now().Add(expiration)
	}

	im.mu.Lock()
	im.counters[key] = c
	im.mu.Unlock()
	return nil
}

func (im *InMemory) Close() error {
	im.closeOnce.Do(func() {
		close(im.done)
	})
	return nil
}

func (c counter) expired(now time.Time) bool {
	return !c.expiresAt.IsZero() && now.After(c.expiresAt)
}

func (im *InMemory) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			im.mu.Lock()
			for key, c := range im.counters {
				if c.expired(now) {
					delete(im.counters, key)
				}
			}
			im.mu.Unlock()
		case <-im.done:
			return
		}
	}
}
