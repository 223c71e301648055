package outage

import (
	"sort"
	"time"
)

// Snapshot represents the records seen by a previous run
type Snapshot struct {
	Records   map[string]*Record `json:"records"`    // keyed by Record.ID
	UpdatedAt string             `json:"updated_at"` // RFC3339 timestamp
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Records: make(map[string]*Record),
	}
}

// CreateSnapshot creates a snapshot from a list of records
func CreateSnapshot(records []*Record, updatedAt string) *Snapshot {
	snap := NewSnapshot()
	snap.UpdatedAt = updatedAt

	for _, rec := range records {
		snap.Records[rec.ID] = rec
	}

	return snap
}

// Contains reports whether a record with the given ID is in the snapshot
func (s *Snapshot) Contains(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.Records[id]
	return ok
}

// DiffResult contains the results of comparing current records against a snapshot
type DiffResult struct {
	NewRecords     []*Record
	RemovedRecords []*Record
	CheckedAt      time.Time
}

// HasChanges reports whether any record was added since the snapshot
func (d *DiffResult) HasChanges() bool {
	return len(d.NewRecords) > 0
}

// Diff compares current records against a previous snapshot.
// New records keep the page order; removed records are those present in the
// snapshot but gone from the page.
func Diff(previous *Snapshot, current []*Record) *DiffResult {
	result := &DiffResult{
		NewRecords:     make([]*Record, 0),
		RemovedRecords: make([]*Record, 0),
		CheckedAt:      time.Now().UTC(),
	}

	if previous == nil {
		previous = NewSnapshot()
	}

	currentIDs := make(map[string]bool, len(current))
	for _, rec := range current {
		currentIDs[rec.ID] = true
		if !previous.Contains(rec.ID) {
			result.NewRecords = append(result.NewRecords, rec)
		}
	}

	for id, rec := range previous.Records {
		if !currentIDs[id] {
			result.RemovedRecords = append(result.RemovedRecords, rec)
		}
	}

	sort.Slice(result.RemovedRecords, func(i, j int) bool {
		return result.RemovedRecords[i].ID < result.RemovedRecords[j].ID
	})

	return result
}
