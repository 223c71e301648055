package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/pfrederiksen/bvk-outages/internal/dataset"
	"github.com/pfrederiksen/bvk-outages/internal/filter"
	"github.com/pfrederiksen/bvk-outages/internal/logger"
	"github.com/pfrederiksen/bvk-outages/internal/notifier"
	"github.com/pfrederiksen/bvk-outages/internal/outage"
	"github.com/pfrederiksen/bvk-outages/internal/storage"
)

// RecordSource provides the current outage records
type RecordSource interface {
	URL() string
	FetchRecords(ctx context.Context) ([]*outage.Record, error)
}

// Pipeline wires one run of the job. Store, Secondary and Sink are optional.
// A Secondary failure does not undo a successful primary delivery: the snapshot
// and the archive are still written and the error is reported in RunResult.
type Pipeline struct {
	Source    RecordSource
	Filter    *filter.Filter
	Store     *storage.Storage
	Notifier  notifier.Notifier
	Secondary notifier.Notifier
	Sink      dataset.Sink
	Now       func() time.Time
}

// RunResult summarizes a run
type RunResult struct {
	Parsed    int
	Matched   int
	Delivered int
	Skipped   bool   // nothing new since the last run, no message sent
	Archived  string // dataset location, empty when archiving is off

	SecondaryErr error
}

// Run fetches, parses, filters, delivers and archives, in that order.
// With a Store, only records missing from the previous snapshot are delivered
// and the snapshot is replaced after a successful delivery.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	fetchedAt := now()

	records, err := p.Source.FetchRecords(ctx)
	if err != nil {
		logger.Error("Fetch failed", logger.Fields{"url": p.Source.URL()}, err)
		return nil, fmt.Errorf("fetching records: %w", err)
	}
	logger.AddCounter("records.parsed", int64(len(records)))
	logger.Info("fetch.completed", logger.Fields{
		"url":     p.Source.URL(),
		"records": len(records),
	})

	result := &RunResult{Parsed: len(records)}

	matched := records
	if p.Filter != nil && !p.Filter.IsEmpty() {
		matched = p.Filter.Apply(records)
		logger.Info("filter.applied", logger.Fields{
			"filter":  p.Filter.String(),
			"matched": len(matched),
		})
	}
	result.Matched = len(matched)

	toDeliver := matched
	if p.Store != nil {
		previous, err := p.Store.LoadSnapshot()
		if err != nil {
			return nil, fmt.Errorf("loading snapshot: %w", err)
		}

		diff := outage.Diff(previous, matched)
		toDeliver = diff.NewRecords
		logger.AddCounter("records.new", int64(len(diff.NewRecords)))
		logger.Info("diff.completed", logger.Fields{
			"new":     len(diff.NewRecords),
			"removed": len(diff.RemovedRecords),
		})

		if !diff.HasChanges() {
			result.Skipped = true
		}
	}

	if !result.Skipped {
		if err := p.Notifier.Notify(ctx, toDeliver); err != nil {
			return nil, fmt.Errorf("delivering records: %w", err)
		}
		result.Delivered = len(toDeliver)

		if p.Secondary != nil {
			if err := p.Secondary.Notify(ctx, toDeliver); err != nil {
				logger.IncrCounter("deliver.secondary.errors")
				logger.Error("Secondary delivery failed", logger.Fields{"records": len(toDeliver)}, err)
				result.SecondaryErr = err
			}
		}
	} else {
		logger.Info("No new outages since last run, nothing sent", nil)
	}

	if p.Store != nil {
		if err := p.Store.CreateSnapshotFromRecords(records); err != nil {
			return nil, fmt.Errorf("saving snapshot: %w", err)
		}
	}

	if p.Sink != nil {
		location, err := p.Sink.Push(ctx, dataset.NewItem(p.Source.URL(), records, fetchedAt))
		if err != nil {
			return nil, fmt.Errorf("archiving records: %w", err)
		}
		result.Archived = location
		logger.Info("dataset.pushed", logger.Fields{"location": location})
	}

	logger.LogMetrics()

	return result, nil
}
