package repository

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	domainSession "github.com/akbar-dignity/custom-whatsapp-chatb/domains/session"
)

// MemorySessionStore is the default session store: a plain map guarded by a
// RWMutex. State is lost on restart. With a zero TTL sessions live for the
// process lifetime, matching the legacy responder; a positive TTL enables a
// background sweep of idle sessions.
type MemorySessionStore struct {
	mu      sync.RWMutex
	entries map[string]domainSession.Session
	ttl     time.Duration
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	ms := &MemorySessionStore{
		entries: make(map[string]domainSession.Session),
		ttl:     ttl,
	}
	if ttl > 0 {
		go ms.cleanupLoop()
	}
	return ms
}

func (ms *MemorySessionStore) GetOrCreate(ctx context.Context, sender string) (domainSession.Session, error) {
	ms.mu.RLock()
	sess, ok := ms.entries[sender]
	ms.mu.RUnlock()
	if ok {
		return sess, nil
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	// Re-check under the write lock; another goroutine may have created it.
	if sess, ok := ms.entries[sender]; ok {
		return sess, nil
	}
	now := time.Now().UTC()
	sess = domainSession.Session{
		Sender:    sender,
		State:     domainSession.StateNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
	ms.entries[sender] = sess
	return sess, nil
}

func (ms *MemorySessionStore) Set(ctx context.Context, sender string, sess domainSession.Session) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.entries[sender] = sess
	return nil
}

func (ms *MemorySessionStore) Count(ctx context.Context) (int, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.entries), nil
}

func (ms *MemorySessionStore) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		ms.cleanup()
	}
}

func (ms *MemorySessionStore) cleanup() {
	cutoff := time.Now().UTC().Add(-ms.ttl)

	ms.mu.Lock()
	defer ms.mu.Unlock()

	removed := 0
	for sender, sess := range ms.entries {
		if sess.UpdatedAt.Before(cutoff) {
			delete(ms.entries, sender)
			removed++
		}
	}
	if removed > 0 {
		logrus.Infof("[SESSION] cleanup removed %d idle sessions", removed)
	}
}
