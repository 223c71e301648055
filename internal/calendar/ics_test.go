package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/bvk-outages/internal/outage"
)

var now = time.Date(2025, 11, 13, 6, 30, 0, 0, time.UTC)

func strPtr(s string) *string {
	return &s
}

func testRecords() []*outage.Record {
	date := time.Date(2025, 11, 13, 0, 0, 0, 0, time.UTC)
	return []*outage.Record{
		outage.NewRecord(&date, "До 22:00", "", "", []outage.Address{
			{Municipality: strPtr("Земун"), Label: "Земун: Главна 1, Цара Душана 5", URL: "https://www.google.com/maps/place/a"},
			{Municipality: strPtr("Врачар"), Label: "Врачар: Његошева 2", URL: "https://www.google.com/maps/place/b"},
		}),
		outage.NewRecord(nil, "Без датума", "Текст", "", nil),
	}
}

func TestGenerateICS(t *testing.T) {
	records := testRecords()
	ics := GenerateICS(records, now)

	// unfold continuation lines before matching content
	unfolded := strings.ReplaceAll(ics, "\r\n ", "")

	tests := []struct {
		name     string
		contains string
	}{
		{"calendar start", "BEGIN:VCALENDAR\r\n"},
		{"version", "VERSION:2.0\r\n"},
		{"event start", "BEGIN:VEVENT\r\n"},
		{"uid", "UID:" + records[0].ID + "@bvk-outages\r\n"},
		{"dtstamp", "DTSTAMP:20251113T063000Z\r\n"},
		{"all-day start", "DTSTART;VALUE=DATE:20251113\r\n"},
		{"all-day end", "DTEND;VALUE=DATE:20251114\r\n"},
		{"summary", "SUMMARY:Kvar na vodovodnoj mreži (До 22:00)\r\n"},
		{"escaped description", `DESCRIPTION:Земун: Главна 1\, Цара Душана 5\nВрачар: Његошева 2`},
		{"location", `LOCATION:Земун\, Врачар`},
		{"url", "URL:https://www.bvk.rs/kvarovi-na-mrezi\r\n"},
		{"calendar end", "END:VCALENDAR\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(unfolded, tt.contains) {
				t.Errorf("GenerateICS() missing %q\ngot:\n%s", tt.contains, unfolded)
			}
		})
	}

	if strings.Count(ics, "BEGIN:VEVENT") != 1 {
		t.Errorf("expected only the dated record, got %d events", strings.Count(ics, "BEGIN:VEVENT"))
	}
	if strings.Contains(unfolded, "Без датума") {
		t.Error("undated record should be skipped")
	}
}

func TestGenerateICS_Empty(t *testing.T) {
	ics := GenerateICS(nil, now)

	if !strings.HasPrefix(ics, "BEGIN:VCALENDAR\r\n") || !strings.HasSuffix(ics, "END:VCALENDAR\r\n") {
		t.Errorf("GenerateICS(nil) = %q", ics)
	}
	if strings.Contains(ics, "VEVENT") {
		t.Error("empty calendar should have no events")
	}
}

func TestWriteLine_Folding(t *testing.T) {
	var b strings.Builder
	line := "DESCRIPTION:" + strings.Repeat("Ђ", 60)
	writeLine(&b, line)

	out := b.String()
	for i, part := range strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n") {
		if len(part) > maxLineOctets {
			t.Errorf("line %d has %d octets", i, len(part))
		}
		if i > 0 && !strings.HasPrefix(part, " ") {
			t.Errorf("continuation line %d should start with a space", i)
		}
	}

	if unfolded := strings.ReplaceAll(strings.TrimSuffix(out, "\r\n"), "\r\n ", ""); unfolded != line {
		t.Errorf("unfolded line differs:\n%q\n%q", unfolded, line)
	}
}

func TestEscapeICS(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no special chars", "Simple text", "Simple text"},
		{"comma", "Земун, Врачар", "Земун\\, Врачар"},
		{"semicolon", "a; b", "a\\; b"},
		{"backslash", "path\\to", "path\\\\to"},
		{"newline", "Line 1\nLine 2", "Line 1\\nLine 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeICS(tt.input); got != tt.want {
				t.Errorf("escapeICS() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatICSTime(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	got := formatICSTime(time.Date(2025, 11, 13, 7, 0, 0, 0, loc))
	if got != "20251113T060000Z" {
		t.Errorf("formatICSTime() = %q", got)
	}
}
