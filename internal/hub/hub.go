// Package hub keeps the live sessions of the environment server in memory.
package hub

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-gym/internal/mines"
)

// Entry wraps a session that may be reached from several connections. The
// session itself is single-owner, so every access goes through [Entry.Do].
type Entry struct {
	ID        int64
	AgentID   *int64
	StartedAt time.Time

	mu       sync.Mutex
	session  *mines.Session
	lastSeen time.Time
}

// Do runs fn with exclusive access to the session.
func (e *Entry) Do(fn func(s *mines.Session) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSeen = time.Now()
	return fn(e.session)
}

func (e *Entry) idleSince() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSeen
}

type Hub struct {
	log *logrus.Logger

	mu      sync.RWMutex
	nextID  int64
	entries map[int64]*Entry
}

func New(log *logrus.Logger) *Hub {
	return &Hub{
		log:     log,
		entries: make(map[int64]*Entry),
	}
}

func (h *Hub) Add(s *mines.Session, agentID *int64) *Entry {
	now := time.Now()

	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	e := &Entry{
		ID:        h.nextID,
		AgentID:   agentID,
		StartedAt: now,
		session:   s,
		lastSeen:  now,
	}
	h.entries[e.ID] = e
	return e
}

func (h *Hub) Get(id int64) (*Entry, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	e, ok := h.entries[id]
	return e, ok
}

func (h *Hub) Remove(id int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.entries, id)
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Evict drops every entry that has not been used since cutoff and returns
// how many were removed.
func (h *Hub) Evict(cutoff time.Time) int {
	h.mu.RLock()
	var stale []int64
	for id, e := range h.entries {
		if e.idleSince().Before(cutoff) {
			stale = append(stale, id)
		}
	}
	h.mu.RUnlock()

	if len(stale) == 0 {
		return 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, id := range stale {
		delete(h.entries, id)
	}
	return len(stale)
}

// Run evicts sessions idle for longer than ttl every interval until ctx is
// done.
func (h *Hub) Run(ctx context.Context, interval, ttl time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if n := h.Evict(now.Add(-ttl)); n > 0 {
				h.log.WithFields(logrus.Fields{
					"evicted": n,
					"live":    h.Len(),
				}).Info("evicted idle sessions")
			}
		}
	}
}
