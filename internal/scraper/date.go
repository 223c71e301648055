package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Pattern for dates like "13.11.2025." or "3.4.2025"
var datePattern = regexp.MustCompile(`(\d{1,2}\.\d{1,2}\.\d{4})`)

// dateSource reads candidate date text from a section label
type dateSource func(name *goquery.Selection) string

// dateSources are tried in order; the first non-empty value is used
var dateSources = []dateSource{
	func(name *goquery.Selection) string {
		return strings.TrimSpace(name.Text())
	},
	func(name *goquery.Selection) string {
		value, _ := name.Attr("data-title")
		return value
	},
}

// extractDate finds the announcement date in the section label.
// Returns nil when there is no label, no date pattern, or the date is not a real
// calendar day.
func extractDate(section *goquery.Selection) *time.Time {
	name := section.Find(nameSelector).First()
	if name.Length() == 0 {
		return nil
	}

	for _, source := range dateSources {
		if text := source(name); text != "" {
			return parseDate(text)
		}
	}

	return nil
}

// parseDate parses the first day.month.year occurrence in text as a UTC date
func parseDate(text string) *time.Time {
	match := datePattern.FindString(text)
	if match == "" {
		return nil
	}

	parts := strings.Split(strings.TrimRight(match, "."), ".")
	if len(parts) != 3 {
		return nil
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil
	}

	// time.Date normalizes out-of-range values (31.13. becomes 31.01. next year),
	// so reject anything that doesn't round-trip
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Year() != year || int(date.Month()) != month || date.Day() != day {
		return nil
	}

	return &date
}
