package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchRecords(t *testing.T) {
	page := question(`<p itemprop="name">13.11.2025.</p>`, `<h1>До 22:00</h1><ul><li>Земун: Карађорђев трг 5</li></ul>`)

	tests := []struct {
		name        string
		htmlContent string
		contentType string
		statusCode  int
		wantError   bool
		wantRecords int
	}{
		{
			name:        "successful fetch with records",
			htmlContent: page,
			contentType: "text/html; charset=UTF-8",
			statusCode:  http.StatusOK,
			wantRecords: 1,
		},
		{
			name:        "HTTP error",
			statusCode:  http.StatusNotFound,
			wantError:   true,
		},
		{
			name:        "empty page",
			htmlContent: `<html><body><p>Нема кварова</p></body></html>`,
			contentType: "text/html",
			statusCode:  http.StatusOK,
			wantRecords: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if userAgent := r.Header.Get("User-Agent"); !strings.Contains(userAgent, "bvk-outages") {
					t.Errorf("User-Agent = %q, should contain 'bvk-outages'", userAgent)
				}
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				}
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.htmlContent))
			}))
			defer server.Close()

			s := New(server.URL)
			records, err := s.FetchRecords(context.Background())

			if tt.wantError {
				if err == nil {
					t.Error("FetchRecords() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("FetchRecords() unexpected error: %v", err)
			}
			if len(records) != tt.wantRecords {
				t.Errorf("FetchRecords() returned %d records, want %d", len(records), tt.wantRecords)
			}
		})
	}
}

func TestFetch_DecodesCharset(t *testing.T) {
	// "Ž" in windows-1250 is 0x8E
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=windows-1250")
		w.Write([]byte("<p>\x8Earkovo</p>"))
	}))
	defer server.Close()

	page, err := New(server.URL).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if !strings.Contains(page, "Žarkovo") {
		t.Errorf("Fetch() = %q, want decoded Žarkovo", page)
	}
}

func TestFetch_CanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(server.URL).Fetch(ctx); err == nil {
		t.Error("Fetch() expected error for canceled context, got nil")
	}
}

func TestNew(t *testing.T) {
	s := New("")

	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.client == nil {
		t.Error("scraper client is nil")
	}
	if s.URL() != OutagesURL {
		t.Errorf("scraper url = %q, want %q", s.URL(), OutagesURL)
	}

	custom := New("https://example.test/page")
	if custom.URL() != "https://example.test/page" {
		t.Errorf("scraper url = %q, want custom URL", custom.URL())
	}
}
