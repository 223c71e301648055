package telegram

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/bvk-outages/internal/outage"
	"github.com/pfrederiksen/bvk-outages/internal/scraper"
)

const (
	// DetailsURL is the public outage page linked in every report
	DetailsURL = "https://www.bvk.rs/kvarovi-na-mrezi"

	// NoOutagesMessage is sent when the page lists no outages
	NoOutagesMessage = "Nema prijavljenih kvarova."

	noDetailsText = "Nema dodatnih detalja."
	unknownTitle  = "Nepoznato"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// lines that only introduce the address list
var addressMarkers = map[string]bool{
	"adrese:": true,
	"адресе:": true,
	"adresa:": true,
	"адреса:": true,
}

// EscapeHTML escapes text for Telegram's HTML parse mode
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// FormatResults renders outage records as a Telegram HTML message
func FormatResults(records []*outage.Record) string {
	if len(records) == 0 {
		return NoOutagesMessage
	}

	sections := make([]string, 0, len(records))
	for _, rec := range records {
		sections = append(sections, FormatRecord(rec))
	}

	footer := fmt.Sprintf(`Više detalja ovde: <a href="%s">ovde</a>`, DetailsURL)

	return strings.Join(sections, "\n\n") + "\n\n" + footer
}

// FormatRecord renders a single record: date, title, details and the address list
func FormatRecord(rec *outage.Record) string {
	title := unknownTitle
	if rec.Title != "" {
		title = EscapeHTML(rec.Title)
	}

	parts := []string{
		fmt.Sprintf("<b>Datum:</b> %s", EscapeHTML(rec.FormatDate())),
		fmt.Sprintf("<b>Naslov:</b> %s", title),
		formatDetails(stripAddressLines(rec.Text, rec.Addresses), rec.Addresses),
		formatAddresses(rec.Addresses),
	}

	lines := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			lines = append(lines, part)
		}
	}

	return strings.Join(lines, "\n")
}

func formatDetails(details string, addresses []outage.Address) string {
	if details != "" {
		return "<b>Detalji:</b>\n" + EscapeHTML(details)
	}

	if len(addresses) == 0 {
		return "<b>Detalji:</b>\n" + EscapeHTML(noDetailsText)
	}

	return ""
}

func formatAddresses(addresses []outage.Address) string {
	if len(addresses) == 0 {
		return ""
	}

	var msg strings.Builder
	msg.WriteString("<b>Adrese:</b>")
	for _, addr := range addresses {
		msg.WriteString(fmt.Sprintf("\n• <a href=\"%s\">%s</a>", EscapeHTML(addr.URL), EscapeHTML(addr.Label)))
	}

	return msg.String()
}

// stripAddressLines removes the lines of text that repeat an address label or
// only announce the address list, leaving the free-form details.
func stripAddressLines(text string, addresses []outage.Address) string {
	if text == "" {
		return ""
	}

	labels := make(map[string]bool, len(addresses))
	for _, addr := range addresses {
		labels[normalizeLine(addr.Label)] = true
	}

	kept := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		normalized := normalizeLine(line)
		if normalized == "" {
			continue
		}
		if labels[normalized] || addressMarkers[strings.ToLower(normalized)] {
			continue
		}
		kept = append(kept, normalized)
	}

	return strings.Join(kept, "\n")
}

func normalizeLine(line string) string {
	return strings.Join(strings.FieldsFunc(line, scraper.IsSpace), " ")
}
