package cli

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/bvk-outages/internal/outage"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByPage  SortOrder = "page"
	SortByDate  SortOrder = "date"
	SortByTitle SortOrder = "title"
)

// sortRecords sorts records in place. SortByPage keeps document order.
func sortRecords(records []*outage.Record, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		sort.SliceStable(records, func(i, j int) bool {
			return compareByDate(records[i], records[j])
		})
	case SortByTitle:
		sort.SliceStable(records, func(i, j int) bool {
			if records[i].Title != records[j].Title {
				return strings.ToLower(records[i].Title) < strings.ToLower(records[j].Title)
			}
			// If titles are equal, sort by date
			return compareByDate(records[i], records[j])
		})
	}
}

// compareByDate reports whether i should come before j.
// Dated records come first, oldest first.
func compareByDate(i, j *outage.Record) bool {
	if i.Date != nil && j.Date != nil {
		return i.Date.Before(*j.Date)
	}
	return i.Date != nil && j.Date == nil
}
