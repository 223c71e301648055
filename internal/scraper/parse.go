package scraper

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/bvk-outages/internal/outage"
)

const (
	questionSelector = `[itemtype="https://schema.org/Question"]`
	answerSelector   = `[itemprop="acceptedAnswer"] [itemprop="text"]`
	nameSelector     = `[itemprop="name"]`
	titleSelector    = "h1"
	addressSelector  = "ul li"
)

// Parse extracts outage records from an HTML document.
// Records are returned in document order; a page without question sections
// yields an empty slice.
func Parse(html string) []*outage.Record {
	records, err := ParseReader(strings.NewReader(html))
	if err != nil {
		// a strings.Reader never fails, but keep the contract of a non-nil result
		return make([]*outage.Record, 0)
	}
	return records
}

// ParseReader extracts outage records from HTML read from r.
// The only possible error is a failure to read r.
func ParseReader(r io.Reader) ([]*outage.Record, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	return ParseDocument(doc), nil
}

// ParseDocument extracts outage records from an already loaded document
func ParseDocument(doc *goquery.Document) []*outage.Record {
	records := make([]*outage.Record, 0)

	doc.Find(questionSelector).Each(func(_ int, section *goquery.Selection) {
		if rec, ok := extractSection(section); ok {
			records = append(records, rec)
		}
	})

	return records
}

// extractSection builds a record from one question section.
// Sections without an answer body, or with nothing usable in them, are skipped.
func extractSection(section *goquery.Selection) (*outage.Record, bool) {
	answer := section.Find(answerSelector).First()
	if answer.Length() == 0 {
		return nil, false
	}

	rawHTML, err := answer.Html()
	if err != nil {
		rawHTML = ""
	}
	rawHTML = strings.TrimSpace(rawHTML)

	title, text, addresses := extractTitleTextAndAddresses(answer)
	date := extractDate(section)

	rec := outage.NewRecord(date, title, text, rawHTML, addresses)
	if rec.IsEmpty() {
		return nil, false
	}

	return rec, true
}

// extractTitleTextAndAddresses works on a detached copy of the answer so that
// removing the title heading leaves the parsed document untouched.
// The body text keeps the address lines; the formatter strips them when needed.
func extractTitleTextAndAddresses(answer *goquery.Selection) (string, string, []outage.Address) {
	body := answer.Clone()

	heading := body.Find(titleSelector).FilterFunction(func(_ int, h *goquery.Selection) bool {
		return strings.TrimFunc(h.Text(), IsSpace) != ""
	}).First()

	title := ""
	if heading.Length() > 0 {
		title = strings.TrimFunc(heading.Text(), IsSpace)
		heading.Remove()
	}

	addresses := extractAddresses(body)
	text := NormalizeWhitespace(body.Text())

	return title, text, addresses
}

// extractAddresses collects list items in document order
func extractAddresses(body *goquery.Selection) []outage.Address {
	addresses := make([]outage.Address, 0)

	body.Find(addressSelector).Each(func(_ int, li *goquery.Selection) {
		label := NormalizeWhitespace(li.Text())
		if label == "" {
			return
		}

		municipality, remainder := ClassifyMunicipality(label)
		addresses = append(addresses, outage.Address{
			Municipality: municipality,
			Label:        label,
			URL:          BuildMapsURL(firstNonEmpty(remainder, label)),
		})
	})

	return addresses
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
