// Package records holds the append-only, time-ordered workout history.
package records

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"example.com/fitanalytics/internal/domain"
)

// Store keeps workout records in insertion order. It is safe for concurrent use;
// readers always receive copies and never observe a partially applied append.
type Store struct {
	mu      sync.RWMutex
	records []domain.WorkoutRecord
	ids     map[string]struct{}
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{ids: make(map[string]struct{})}
}

// Append validates rec, fills its ID and timestamp when absent and appends it.
// It returns the stored copy and the record count right after the append.
func (s *Store) Append(rec domain.WorkoutRecord, now time.Time) (domain.WorkoutRecord, int, error) {
	rec = rec.Clone()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = now.UTC()
	}
	if err := rec.Validate(); err != nil {
		return domain.WorkoutRecord{}, 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ids[rec.ID]; exists {
		return domain.WorkoutRecord{}, 0, domain.ErrDuplicateRecord
	}
	s.records = append(s.records, rec)
	s.ids[rec.ID] = struct{}{}
	return rec.Clone(), len(s.records), nil
}

// Windowed returns records with timestamp >= now - days, in insertion order.
func (s *Store) Windowed(days int, now time.Time) []domain.WorkoutRecord {
	if days <= 0 {
		return []domain.WorkoutRecord{}
	}
	cutoff := now.AddDate(0, 0, -days)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.WorkoutRecord, 0, len(s.records))
	for _, rec := range s.records {
		if !rec.Timestamp.Before(cutoff) {
			out = append(out, rec.Clone())
		}
	}
	return out
}

// All returns a copy of every record.
func (s *Store) All() []domain.WorkoutRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.WorkoutRecord, len(s.records))
	for i, rec := range s.records {
		out[i] = rec.Clone()
	}
	return out
}

// Len reports the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Replace swaps the collection for recs, keeping the first occurrence of each ID.
// It returns the number of duplicates dropped.
func (s *Store) Replace(recs []domain.WorkoutRecord) int {
	next := make([]domain.WorkoutRecord, 0, len(recs))
	ids := make(map[string]struct{}, len(recs))
	dropped := 0
	for _, rec := range recs {
		if _, seen := ids[rec.ID]; seen {
			dropped++
			continue
		}
		ids[rec.ID] = struct{}{}
		next = append(next, rec.Clone())
	}

	s.mu.Lock()
	s.records = next
	s.ids = ids
	s.mu.Unlock()
	return dropped
}

// Prune drops records older than maxAgeDays and returns how many were removed.
// It is a retention policy hook; nothing in the core calls it automatically.
func (s *Store) Prune(maxAgeDays int, now time.Time) int {
	if maxAgeDays <= 0 {
		return 0
	}
	cutoff := now.AddDate(0, 0, -maxAgeDays)

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0:0]
	for _, rec := range s.records {
		if rec.Timestamp.Before(cutoff) {
			delete(s.ids, rec.ID)
			continue
		}
		kept = append(kept, rec)
	}
	removed := len(s.records) - len(kept)
	s.records = kept
	return removed
}

// Clear removes every record.
func (s *Store) Clear() {
	s.mu.Lock()
	s.records = nil
	s.ids = make(map[string]struct{})
	s.mu.Unlock()
}
