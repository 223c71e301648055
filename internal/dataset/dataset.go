// Package dataset archives the records of each run as a JSON document,
// either in a local directory or in an S3-compatible bucket.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pfrederiksen/bvk-outages/internal/outage"
)

// Item is one archived run
type Item struct {
	FetchedAt time.Time        `json:"fetched_at"`
	SourceURL string           `json:"source_url"`
	Count     int              `json:"count"`
	Records   []*outage.Record `json:"records"`
}

// NewItem creates an item for the records of a run
func NewItem(sourceURL string, records []*outage.Record, fetchedAt time.Time) *Item {
	if records == nil {
		records = []*outage.Record{}
	}
	return &Item{
		FetchedAt: fetchedAt.UTC(),
		SourceURL: sourceURL,
		Count:     len(records),
		Records:   records,
	}
}

// Sink stores dataset items
type Sink interface {
	// Push stores the item and returns where it was written
	Push(ctx context.Context, item *Item) (string, error)
}

func encodeItem(item *Item) ([]byte, error) {
	data, err := json.MarshalIndent(item, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding dataset item: %w", err)
	}
	return data, nil
}

// itemName builds a sortable name from the fetch time
func itemName(item *Item) string {
	t := item.FetchedAt.UTC()
	return fmt.Sprintf("%d/%02d/%02d/%d.json", t.Year(), t.Month(), t.Day(), t.UnixNano())
}
