package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

const (
	timeout = 10 * time.Second

	defaultMaxRetries      = 3
	defaultInitialInterval = 500 * time.Millisecond
	defaultMaxInterval     = 10 * time.Second

	// Telegram allows roughly one message per second to the same chat
	messageInterval = time.Second
)

// overridden in tests
var apiBaseURL = "https://api.telegram.org/bot"

// ErrEmptyMessage is returned when asked to send a blank message
var ErrEmptyMessage = errors.New("message text is required")

// APIError is a non-OK answer from the Bot API
type APIError struct {
	StatusCode  int
	Description string
	RetryAfter  int // seconds, set on 429 responses
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 && e.StatusCode != http.StatusOK {
		return fmt.Sprintf("telegram API error (status %d): %s", e.StatusCode, e.Description)
	}
	return fmt.Sprintf("telegram API error: %s", e.Description)
}

// Retryable reports whether sending again may succeed
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// Client represents a Telegram Bot API client bound to one chat
type Client struct {
	botToken   string
	chatID     string
	httpClient *http.Client
	limiter    *rate.Limiter

	maxRetries      uint64
	initialInterval time.Duration
	maxInterval     time.Duration
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string) (*Client, error) {
	if botToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}
	if chatID == "" {
		return nil, fmt.Errorf("chat ID is required")
	}

	return &Client{
		botToken: botToken,
		chatID:   chatID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter:         rate.NewLimiter(rate.Every(messageInterval), 1),
		maxRetries:      defaultMaxRetries,
		initialInterval: defaultInitialInterval,
		maxInterval:     defaultMaxInterval,
	}, nil
}

// ChatID returns the chat the client sends to
func (c *Client) ChatID() string {
	return c.chatID
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Parameters  *struct {
		RetryAfter int `json:"retry_after"`
	} `json:"parameters,omitempty"`
}

// SendMessage sends an HTML message to the configured chat.
// Rate-limited (429) and 5xx answers are retried with exponential backoff.
func (c *Client) SendMessage(ctx context.Context, text string) error {
	if text == "" {
		return ErrEmptyMessage
	}

	payload, err := json.Marshal(sendMessageRequest{
		ChatID:                c.chatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	op := func() error {
		err := c.post(ctx, "sendMessage", payload)
		if err == nil {
			return nil
		}

		var apiErr *APIError
		if errors.As(err, &apiErr) {
			if !apiErr.Retryable() {
				return backoff.Permanent(err)
			}
			if apiErr.RetryAfter > 0 {
				if waitErr := sleepContext(ctx, time.Duration(apiErr.RetryAfter)*time.Second); waitErr != nil {
					return backoff.Permanent(waitErr)
				}
			}
		}
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialInterval
	b.MaxInterval = c.maxInterval

	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx))
}

// SendLong sends text as one or more messages, split at record boundaries when it
// exceeds the Telegram message limit. Parts are paced to stay under the chat rate limit.
func (c *Client) SendLong(ctx context.Context, text string) (int, error) {
	parts := SplitMessage(text, MaxMessageLength)

	for i, part := range parts {
		if err := c.limiter.Wait(ctx); err != nil {
			return i, fmt.Errorf("waiting for rate limiter: %w", err)
		}
		if err := c.SendMessage(ctx, part); err != nil {
			return i, fmt.Errorf("sending part %d/%d: %w", i+1, len(parts), err)
		}
	}

	return len(parts), nil
}

func (c *Client) post(ctx context.Context, method string, payload []byte) error {
	url := fmt.Sprintf("%s%s/%s", apiBaseURL, c.botToken, method)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var result apiResponse
	if jsonErr := json.Unmarshal(body, &result); jsonErr != nil {
		if resp.StatusCode != http.StatusOK {
			return &APIError{StatusCode: resp.StatusCode, Description: string(body)}
		}
		return fmt.Errorf("parsing response: %w", jsonErr)
	}

	if resp.StatusCode != http.StatusOK || !result.OK {
		apiErr := &APIError{StatusCode: resp.StatusCode, Description: result.Description}
		if result.Parameters != nil {
			apiErr.RetryAfter = result.Parameters.RetryAfter
		}
		return apiErr
	}

	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
