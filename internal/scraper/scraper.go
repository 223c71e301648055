package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pfrederiksen/bvk-outages/internal/logger"
	"github.com/pfrederiksen/bvk-outages/internal/outage"
	"golang.org/x/net/html/charset"
)

const (
	OutagesURL = "https://www.bvk.rs/kvarovi-na-mrezi"
	UserAgent  = "bvk-outages/1.0 (github.com/pfrederiksen/bvk-outages)"
	Timeout    = 30 * time.Second

	// pages larger than this are truncated
	maxPageSize = 10 << 20
)

// Scraper handles fetching and parsing the BVK outage page
type Scraper struct {
	client *http.Client
	url    string
}

// New creates a new Scraper for pageURL. An empty pageURL uses OutagesURL.
func New(pageURL string) *Scraper {
	if pageURL == "" {
		pageURL = OutagesURL
	}

	return &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		url: pageURL,
	}
}

// URL returns the page the scraper fetches
func (s *Scraper) URL() string {
	return s.url
}

// Fetch downloads the page and returns it decoded to UTF-8
func (s *Scraper) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxPageSize), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("detecting charset: %w", err)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("reading page: %w", err)
	}

	return string(data), nil
}

// FetchRecords fetches the page and parses all outage records from it
func (s *Scraper) FetchRecords(ctx context.Context) ([]*outage.Record, error) {
	start := time.Now()

	page, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	logger.RecordTiming("fetch", time.Since(start))

	records := Parse(page)
	logger.IncrCounter("pages.fetched")
	logger.Debug("Parsed outage page", logger.Fields{
		"url":     s.url,
		"bytes":   len(page),
		"records": len(records),
	})

	return records, nil
}
