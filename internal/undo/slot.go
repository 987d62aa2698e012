// ABOUTME: Single-entry undo slot for deleted sets with an expiry window.
// ABOUTME: Expiry is checked against an injectable clock instead of a timer.
package undo

import (
	"sync"
	"time"

	"github.com/harperreed/trainlog/internal/models"
)

// DefaultWindow is how long a deleted set can be restored.
const DefaultWindow = 5 * time.Second

// Clock returns the current time.
type Clock func() time.Time

// Entry is a deleted set awaiting a possible undo.
type Entry struct {
	Set       models.Set `json:"set"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// Slot holds at most one Entry. A new Put discards any pending entry.
type Slot struct {
	mu     sync.Mutex
	window time.Duration
	now    Clock
	entry  *Entry
}

// NewSlot creates a slot with the given window. A non-positive window uses
// DefaultWindow and a nil clock uses time.Now.
func NewSlot(window time.Duration, now Clock) *Slot {
	if window <= 0 {
		window = DefaultWindow
	}
	if now == nil {
		now = time.Now
	}
	return &Slot{window: window, now: now}
}

// Window returns how long entries stay restorable.
func (s *Slot) Window() time.Duration {
	return s.window
}

// Put captures a deleted set, replacing whatever was pending.
func (s *Slot) Put(set models.Set) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := Entry{Set: set, ExpiresAt: s.now().Add(s.window)}
	s.entry = &e
	return e
}

// Take returns the pending entry and clears the slot. It reports false when
// the slot is empty or the entry has expired; an expired entry is dropped.
func (s *Slot) Take() (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entry
	s.entry = nil
	if e == nil || !s.now().Before(e.ExpiresAt) {
		return Entry{}, false
	}
	return *e, true
}

// Restore puts back an entry that was taken but could not be applied. It
// keeps the entry's original expiry and does nothing when a newer entry is
// pending or the entry has already expired.
func (s *Slot) Restore(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entry != nil || !s.now().Before(e.ExpiresAt) {
		return
	}
	s.entry = &e
}

// Pending returns the entry without clearing it, if it has not expired.
func (s *Slot) Pending() (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entry == nil {
		return Entry{}, false
	}
	if !s.now().Before(s.entry.ExpiresAt) {
		s.entry = nil
		return Entry{}, false
	}
	return *s.entry, true
}

// Clear drops any pending entry.
func (s *Slot) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry = nil
}
