// Package calendar renders outage records as an iCalendar (.ics) feed.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/bvk-outages/internal/outage"
)

// DetailsURL is linked from every calendar entry
const DetailsURL = "https://www.bvk.rs/kvarovi-na-mrezi"

// maximum line length in octets before folding
const maxLineOctets = 75

// GenerateICS generates an iCalendar document with one all-day entry per dated record.
// Records without a date cannot be placed on a calendar and are skipped.
func GenerateICS(records []*outage.Record, now time.Time) string {
	var ics strings.Builder

	writeLine(&ics, "BEGIN:VCALENDAR")
	writeLine(&ics, "VERSION:2.0")
	writeLine(&ics, "PRODID:-//BVK Outages//bvk-outages//SR")
	writeLine(&ics, "CALSCALE:GREGORIAN")
	writeLine(&ics, "METHOD:PUBLISH")
	writeLine(&ics, "X-WR-CALNAME:"+escapeICS("BVK kvarovi na mreži"))

	for _, rec := range records {
		if rec.Date == nil {
			continue
		}
		writeEvent(&ics, rec, now)
	}

	writeLine(&ics, "END:VCALENDAR")

	return ics.String()
}

func writeEvent(ics *strings.Builder, rec *outage.Record, now time.Time) {
	day := rec.Date.UTC()

	writeLine(ics, "BEGIN:VEVENT")

	// UID - stable across runs since the ID is derived from the content
	writeLine(ics, fmt.Sprintf("UID:%s@bvk-outages", rec.ID))
	writeLine(ics, "DTSTAMP:"+formatICSTime(now))

	// all-day entry on the announcement date
	writeLine(ics, "DTSTART;VALUE=DATE:"+day.Format("20060102"))
	writeLine(ics, "DTEND;VALUE=DATE:"+day.AddDate(0, 0, 1).Format("20060102"))

	summary := "Kvar na vodovodnoj mreži"
	if rec.Title != "" {
		summary = fmt.Sprintf("%s (%s)", summary, rec.Title)
	}
	writeLine(ics, "SUMMARY:"+escapeICS(summary))

	if description := describe(rec); description != "" {
		writeLine(ics, "DESCRIPTION:"+escapeICS(description))
	}

	if municipalities := rec.Municipalities(); len(municipalities) > 0 {
		writeLine(ics, "LOCATION:"+escapeICS(strings.Join(municipalities, ", ")))
	}

	writeLine(ics, "URL:"+DetailsURL)
	writeLine(ics, "STATUS:CONFIRMED")
	writeLine(ics, "TRANSP:TRANSPARENT")
	writeLine(ics, "END:VEVENT")
}

// describe lists the affected addresses, falling back to the record text
func describe(rec *outage.Record) string {
	if len(rec.Addresses) == 0 {
		return rec.Text
	}
	return strings.Join(rec.AddressLabels(), "\n")
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// writeLine writes a content line, folding it at 75 octets without splitting UTF-8 sequences
func writeLine(ics *strings.Builder, line string) {
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !isRuneStart(line[cut]) {
			cut--
		}
		ics.WriteString(line[:cut])
		ics.WriteString("\r\n ")
		line = line[cut:]
		// continuation lines start with a space, which counts toward the limit
		limit = maxLineOctets - 1
	}
	ics.WriteString(line)
	ics.WriteString("\r\n")
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
