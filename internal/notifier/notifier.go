package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/pfrederiksen/bvk-outages/internal/outage"
)

// Notifier defines the interface for delivering outage records
type Notifier interface {
	// Notify delivers the given records
	Notify(ctx context.Context, records []*outage.Record) error
}

// Multi delivers records to every notifier in order
type Multi []Notifier

// Notify calls each notifier and returns the joined errors.
// A failing notifier does not prevent the others from running.
func (m Multi) Notify(ctx context.Context, records []*outage.Record) error {
	var errs []error
	for i, n := range m {
		if err := n.Notify(ctx, records); err != nil {
			errs = append(errs, fmt.Errorf("notifier %d: %w", i+1, err))
		}
	}
	return errors.Join(errs...)
}
