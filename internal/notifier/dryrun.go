package notifier

import (
	"context"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/pfrederiksen/bvk-outages/internal/outage"
	"github.com/pfrederiksen/bvk-outages/internal/telegram"
)

// DryRunNotifier prints what would be sent without contacting any service
type DryRunNotifier struct {
	out io.Writer
}

// NewDryRunNotifier creates a new dry-run notifier writing to out (stdout when nil)
func NewDryRunNotifier(out io.Writer) *DryRunNotifier {
	if out == nil {
		out = os.Stdout
	}
	return &DryRunNotifier{out: out}
}

// Notify prints the Telegram messages that would be sent
func (n *DryRunNotifier) Notify(_ context.Context, records []*outage.Record) error {
	parts := telegram.SplitMessage(telegram.FormatResults(records), telegram.MaxMessageLength)

	for i, part := range parts {
		if _, err := fmt.Fprintf(n.out, "--- Message %d/%d ---\n%s\n\n(Length: %d characters)\n\n",
			i+1, len(parts), part, utf8.RuneCountInString(part)); err != nil {
			return fmt.Errorf("writing dry-run output: %w", err)
		}
	}

	return nil
}
