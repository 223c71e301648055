package notifier

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"
	"github.com/pfrederiksen/bvk-outages/internal/logger"
	"github.com/pfrederiksen/bvk-outages/internal/outage"
	"github.com/pfrederiksen/bvk-outages/internal/telegram"
)

const (
	maxTweetLength = 280
	tweetInterval  = 2 * time.Second
)

// TwitterCredentials holds the OAuth1 keys of the posting account
type TwitterCredentials struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

// Complete reports whether all four keys are set
func (c TwitterCredentials) Complete() bool {
	return c.APIKey != "" && c.APISecret != "" && c.AccessToken != "" && c.AccessSecret != ""
}

type statusUpdater interface {
	Update(status string, params *twitter.StatusUpdateParams) (*twitter.Tweet, *http.Response, error)
}

// TwitterNotifier posts one status per outage record
type TwitterNotifier struct {
	statuses statusUpdater
	interval time.Duration
}

// NewTwitterNotifier creates a new Twitter notifier from OAuth1 credentials
func NewTwitterNotifier(creds TwitterCredentials) (*TwitterNotifier, error) {
	if !creds.Complete() {
		return nil, fmt.Errorf("missing required Twitter credentials")
	}

	config := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)
	httpClient := config.Client(oauth1.NoContext, token)
	client := twitter.NewClient(httpClient)

	return &TwitterNotifier{statuses: client.Statuses, interval: tweetInterval}, nil
}

// Notify posts a tweet for each record, pausing between posts
func (n *TwitterNotifier) Notify(ctx context.Context, records []*outage.Record) error {
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}

		if _, _, err := n.statuses.Update(formatTweet(rec), nil); err != nil {
			return fmt.Errorf("failed to post tweet for record %s: %w", rec.ID, err)
		}
		logger.IncrCounter("tweets.sent")

		if i < len(records)-1 && n.interval > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(n.interval):
			}
		}
	}

	return nil
}

// formatTweet formats a record as a tweet
func formatTweet(rec *outage.Record) string {
	var b strings.Builder
	b.WriteString("💧 Kvar na vodovodnoj mreži\n\n")
	b.WriteString(fmt.Sprintf("📅 %s\n", rec.FormatDate()))

	if rec.Title != "" {
		b.WriteString(fmt.Sprintf("🕒 %s\n", rec.Title))
	}

	if municipalities := rec.Municipalities(); len(municipalities) > 0 {
		b.WriteString(fmt.Sprintf("📍 %s\n", strings.Join(municipalities, ", ")))
	}

	b.WriteString("\n🔗 " + telegram.DetailsURL)

	return truncateRunes(b.String(), maxTweetLength)
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}
