package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/pfrederiksen/bvk-outages/internal/calendar"
	"github.com/pfrederiksen/bvk-outages/internal/outage"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatICS  OutputFormat = "ics"
)

const maxTitleWidth = 40

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt   time.Time        `json:"checked_at"`
	Source      string           `json:"source"`
	Records     []*outage.Record `json:"records"`
	RecordCount int              `json:"record_count"`
}

// ParseOutputFormat validates a --format value
func ParseOutputFormat(value string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(value)))
	if format != FormatText && format != FormatJSON && format != FormatICS {
		return "", fmt.Errorf("invalid format: %s (must be 'text', 'json' or 'ics')", value)
	}
	return format, nil
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	case FormatICS:
		_, err := io.WriteString(w, calendar.GenerateICS(result.Records, result.CheckedAt))
		return err
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	if result.Records == nil {
		result.Records = []*outage.Record{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(result)
}

// writeText outputs records as an aligned table, addresses listed under each record
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.RecordCount == 0 {
		fmt.Fprintln(w, "No outages found.")
		return nil
	}

	titleWidth := runewidth.StringWidth("TITLE")
	for _, rec := range result.Records {
		if width := runewidth.StringWidth(displayTitle(rec)); width > titleWidth {
			titleWidth = width
		}
	}

	fmt.Fprintf(w, "%-10s  %s  %s\n", "DATE", runewidth.FillRight("TITLE", titleWidth), "ADDRESSES")
	for _, rec := range result.Records {
		fmt.Fprintf(w, "%-10s  %s  %d\n", rec.FormatDate(), runewidth.FillRight(displayTitle(rec), titleWidth), len(rec.Addresses))

		municipalityWidth := 0
		for _, addr := range rec.Addresses {
			if width := runewidth.StringWidth(addr.MunicipalityName()); width > municipalityWidth {
				municipalityWidth = width
			}
		}

		for _, addr := range rec.Addresses {
			name := addr.MunicipalityName()
			if name == "" {
				name = "-"
			}
			fmt.Fprintf(w, "    %s  %s\n", runewidth.FillRight(name, municipalityWidth), addressStreet(addr))
			if verbose {
				fmt.Fprintf(w, "    %s  %s\n", strings.Repeat(" ", municipalityWidth), addr.URL)
			}
		}

		if verbose {
			fmt.Fprintf(w, "    ID: %s\n", rec.ID)
			for _, line := range strings.Split(rec.Text, "\n") {
				if line != "" {
					fmt.Fprintf(w, "    | %s\n", line)
				}
			}
		}
	}

	fmt.Fprintf(w, "\nTotal: %d outages\n", result.RecordCount)
	return nil
}

func displayTitle(rec *outage.Record) string {
	title := rec.Title
	if title == "" {
		title = "-"
	}
	return runewidth.Truncate(title, maxTitleWidth, "...")
}

// addressStreet drops the municipality prefix already shown in its own column
func addressStreet(addr outage.Address) string {
	if !addr.HasMunicipality() {
		return addr.Label
	}
	if idx := strings.Index(addr.Label, ":"); idx >= 0 {
		if street := strings.TrimSpace(addr.Label[idx+1:]); street != "" {
			return street
		}
	}
	return addr.Label
}
