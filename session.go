package carlytics

import (
	"sync"
	"time"
)

// Snapshot is the clean table produced by one successful analysis cycle.
type Snapshot struct {
	Source    string     `json:"source"`
	URL       string     `json:"url"`
	Listings  []*Listing `json:"listings"`
	FetchedAt time.Time  `json:"fetchedAt"`
}

// Session holds the last clean table across user interactions.
// It starts empty, is replaced wholesale by each successful cycle and is
// read by export and chart operations. Session is safe for concurrent use.
type Session struct {
	mu       sync.RWMutex
	snapshot *Snapshot
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{}
}

// Snapshot returns the current table, or nil if no cycle has succeeded yet.
func (s *Session) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Replace swaps in a new table.
func (s *Session) Replace(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap
}
