// Package filter narrows the outage records that get delivered.
//
// Criteria:
//   - Date range (from/to, inclusive, by announcement date)
//   - Municipalities (at least one address in one of them)
//   - Streets (case-insensitive substring of an address label)
//
// Records without a date are never excluded by the date range, since the
// page does not always state one.
//
// Example usage:
//
//	f := filter.NewFilter()
//	f.Municipalities = []string{"Земун", "Нови Београд"}
//	filtered := f.Apply(records)
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/bvk-outages/internal/outage"
)

// Filter represents record filtering criteria
type Filter struct {
	// Date range filtering
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`

	// Municipality filtering (case-insensitive exact match)
	Municipalities []string `json:"municipalities,omitempty"`

	// Street filtering (case-insensitive substring match on address labels)
	Streets []string `json:"streets,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
// The filter will match all records until criteria are added.
func NewFilter() *Filter {
	return &Filter{
		Municipalities: []string{},
		Streets:        []string{},
	}
}

// IsEmpty checks if the filter has any active criteria.
// Returns true if the filter would match all records.
func (f *Filter) IsEmpty() bool {
	return f.DateFrom == nil &&
		f.DateTo == nil &&
		len(f.Municipalities) == 0 &&
		len(f.Streets) == 0
}

// Matches checks if a record matches all active filter criteria.
// An empty filter matches all records.
//
// Matching logic:
//   - Date range: a dated record must fall within DateFrom and DateTo (inclusive)
//   - Municipalities: at least one address must be in one of the municipalities
//   - Streets: at least one address label must contain one of the streets
func (f *Filter) Matches(rec *outage.Record) bool {
	// Empty filter matches all records
	if f.IsEmpty() {
		return true
	}

	if rec.Date != nil {
		day := truncateDay(*rec.Date)
		if f.DateFrom != nil && day.Before(truncateDay(*f.DateFrom)) {
			return false
		}
		if f.DateTo != nil && day.After(truncateDay(*f.DateTo)) {
			return false
		}
	}

	if len(f.Municipalities) > 0 {
		matched := false
		for _, name := range rec.Municipalities() {
			for _, want := range f.Municipalities {
				if strings.EqualFold(name, want) {
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(f.Streets) > 0 {
		matched := false
		for _, addr := range rec.Addresses {
			labelLower := strings.ToLower(addr.Label)
			for _, street := range f.Streets {
				if strings.Contains(labelLower, strings.ToLower(street)) {
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

// Apply applies the filter to a list of records and returns only matching records.
// If the filter is empty, returns the original list unchanged.
// Otherwise, returns a new slice, in the original order.
func (f *Filter) Apply(records []*outage.Record) []*outage.Record {
	if f.IsEmpty() {
		return records
	}

	filtered := make([]*outage.Record, 0, len(records))
	for _, rec := range records {
		if f.Matches(rec) {
			filtered = append(filtered, rec)
		}
	}

	return filtered
}

// String returns a human-readable description of the active filter criteria.
// Returns "No active filters" if the filter is empty.
// Format: "From: 13.11.2025 | To: 15.11.2025 | Municipalities: Земун"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if f.DateFrom != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.DateFrom.Format(outage.DateLayout)))
	}

	if f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("To: %s", f.DateTo.Format(outage.DateLayout)))
	}

	if len(f.Municipalities) > 0 {
		parts = append(parts, fmt.Sprintf("Municipalities: %s", strings.Join(f.Municipalities, ", ")))
	}

	if len(f.Streets) > 0 {
		parts = append(parts, fmt.Sprintf("Streets: %s", strings.Join(f.Streets, ", ")))
	}

	return strings.Join(parts, " | ")
}

// Clone creates a deep copy of the filter.
func (f *Filter) Clone() *Filter {
	clone := &Filter{}

	if f.DateFrom != nil {
		df := *f.DateFrom
		clone.DateFrom = &df
	}

	if f.DateTo != nil {
		dt := *f.DateTo
		clone.DateTo = &dt
	}

	clone.Municipalities = make([]string, len(f.Municipalities))
	copy(clone.Municipalities, f.Municipalities)

	clone.Streets = make([]string, len(f.Streets))
	copy(clone.Streets, f.Streets)

	return clone
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
