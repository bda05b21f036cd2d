// Package history keeps the process-lifetime log of successful predictions.
package history

import (
	"strings"
	"sync"
	"time"
)

// GuestLabel replaces a blank user label
const GuestLabel = "Guest"

// TimeLayout is the time-of-day format of the history table
const TimeLayout = "15:04:05"

// Entry is one successful prediction
type Entry struct {
	Time    time.Time
	User    string
	BodyFat float64
}

// Row is the table view of an entry
type Row struct {
	Time string  `json:"time"`
	User string  `json:"user"`
	BF   float64 `json:"bf"`
}

// Row formats the entry for the history table
func (e Entry) Row() Row {
	return Row{Time: e.Time.Format(TimeLayout), User: e.User, BF: e.BodyFat}
}

// NewEntry builds an entry, defaulting a blank user label to "Guest"
func NewEntry(at time.Time, user string, bodyFat float64) Entry {
	if strings.TrimSpace(user) == "" {
		user = GuestLabel
	}
	return Entry{Time: at, User: user, BodyFat: bodyFat}
}

// Store is an append-only, in-memory log guarded by a single lock.
// It is lost on restart.
type Store struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{entries: make([]Entry, 0, 64)}
}

// Append adds an entry at the end of the log
func (s *Store) Append(entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
}

// Recent returns the last n entries, most recent first.
// Fewer than n entries returns all of them; n <= 0 returns none.
func (s *Store) Recent(n int) []Entry {
	if n <= 0 {
		return []Entry{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > len(s.entries) {
		n = len(s.entries)
	}
	out := make([]Entry, n)
	last := len(s.entries) - 1
	for i := 0; i < n; i++ {
		out[i] = s.entries[last-i]
	}
	return out
}

// RecentRows is Recent formatted for the history table
func (s *Store) RecentRows(n int) []Row {
	entries := s.Recent(n)
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = e.Row()
	}
	return rows
}

// Len returns the number of stored entries
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
