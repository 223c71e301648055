package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/bvk-outages/internal/logger"
	"github.com/pfrederiksen/bvk-outages/internal/outage"
	"github.com/pfrederiksen/bvk-outages/internal/telegram"
)

// MessageSender sends a possibly long HTML message
type MessageSender interface {
	SendLong(ctx context.Context, text string) (int, error)
}

// TelegramNotifier sends the formatted outage report to a Telegram chat
type TelegramNotifier struct {
	sender MessageSender
}

// NewTelegramNotifier creates a notifier sending through the given client
func NewTelegramNotifier(sender MessageSender) *TelegramNotifier {
	return &TelegramNotifier{sender: sender}
}

// Notify formats the records and sends them as one report.
// An empty record set still produces the "no outages" message.
func (n *TelegramNotifier) Notify(ctx context.Context, records []*outage.Record) error {
	msg := telegram.FormatResults(records)
	if strings.TrimSpace(msg) == "" {
		logger.Info("Telegram message is empty, skipping delivery", nil)
		return nil
	}

	start := time.Now()
	sent, err := n.sender.SendLong(ctx, msg)
	logger.RecordTiming("deliver", time.Since(start))
	logger.AddCounter("messages.sent", int64(sent))
	if err != nil {
		logger.IncrCounter("deliver.errors")
		return fmt.Errorf("sending Telegram message: %w", err)
	}

	logger.Info("Telegram message sent", logger.Fields{
		"records":  len(records),
		"messages": sent,
	})

	return nil
}
