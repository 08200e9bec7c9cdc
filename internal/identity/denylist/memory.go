package denylist

import (
	"context"
	"sync"
	"time"
)

// MemoryDenylist is an in-process Denylist with a background reaper. It only
// satisfies the cross-worker visibility requirement when the service runs as
// a single process, so it is meant for development and tests.
type MemoryDenylist struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry

	stopCh chan struct{}
	doneCh chan struct{}
}

type memoryEntry struct {
	subjectID string
	expiresAt time.Time
}

// NewMemory creates a MemoryDenylist and starts its reaper. sweepInterval of
// zero or less defaults to one minute.
func NewMemory(sweepInterval time.Duration) *MemoryDenylist {
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}

	d := &MemoryDenylist{
		entries: make(map[string]memoryEntry),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	go d.reap(sweepInterval)
	return d
}

func (d *MemoryDenylist) Contains(_ context.Context, token string) (bool, error) {
	d.mu.RLock()
	entry, ok := d.entries[token]
	d.mu.RUnlock()

	// Expiry is checked here as well: the reaper only trims memory, it is
	// not what makes an entry lapse.
	if !ok || time.Now().After(entry.expiresAt) {
		return false, nil
	}
	return true, nil
}

func (d *MemoryDenylist) Put(_ context.Context, token, subjectID string, ttl time.Duration) error {
	d.mu.Lock()
	d.entries[token] = memoryEntry{
		subjectID: subjectID,
		expiresAt: time.Now().Add(ttl),
	}
	d.mu.Unlock()
	return nil
}

// Stop shuts down the reaper. Blocks until it has finished.
func (d *MemoryDenylist) Stop() {
	close(d.stopCh)
	<-d.doneCh
}

func (d *MemoryDenylist) reap(interval time.Duration) {
	defer close(d.doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			d.mu.Lock()
			for token, entry := range d.entries {
				if now.After(entry.expiresAt) {
					delete(d.entries, token)
				}
			}
			d.mu.Unlock()
		case <-d.stopCh:
			return
		}
	}
}
