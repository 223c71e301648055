package outage

import (
	"crypto/sha1"
	"fmt"
	"time"
)

// DateLayout is the day.month.year layout used on the page and in messages
const DateLayout = "02.01.2006"

// Address is a single affected address taken from a list item in an announcement
type Address struct {
	Municipality *string `json:"municipality"`
	Label        string  `json:"label"`
	URL          string  `json:"url"`
}

// HasMunicipality reports whether the label started with a known municipality
func (a Address) HasMunicipality() bool {
	return a.Municipality != nil
}

// MunicipalityName returns the municipality or an empty string
func (a Address) MunicipalityName() string {
	if a.Municipality == nil {
		return ""
	}
	return *a.Municipality
}

// Record represents one outage announcement
type Record struct {
	ID        string     `json:"id"`
	Date      *time.Time `json:"date"`
	Title     string     `json:"title"`
	Text      string     `json:"text"`
	HTML      string     `json:"html"`
	Addresses []Address  `json:"addresses"`
}

// GenerateID creates a deterministic ID for a record based on its visible content
func GenerateID(date *time.Time, title, text string) string {
	dateText := ""
	if date != nil {
		dateText = date.UTC().Format(DateLayout)
	}

	h := sha1.New()
	h.Write([]byte(dateText + "|" + title + "|" + text))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// NewRecord creates a new Record with its ID populated.
// A nil addresses slice is replaced with an empty one so JSON output is always a list.
func NewRecord(date *time.Time, title, text, html string, addresses []Address) *Record {
	if addresses == nil {
		addresses = []Address{}
	}

	return &Record{
		ID:        GenerateID(date, title, text),
		Date:      date,
		Title:     title,
		Text:      text,
		HTML:      html,
		Addresses: addresses,
	}
}

// IsEmpty reports whether the record carries no usable data
func (r *Record) IsEmpty() bool {
	return r.Date == nil && r.Title == "" && r.Text == "" && len(r.Addresses) == 0
}

// FormatDate returns the record date as DD.MM.YYYY, or "N/A" when absent
func (r *Record) FormatDate() string {
	if r.Date == nil {
		return "N/A"
	}
	return r.Date.UTC().Format(DateLayout)
}

// Municipalities returns the distinct municipalities of the record's addresses in order
func (r *Record) Municipalities() []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, addr := range r.Addresses {
		name := addr.MunicipalityName()
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// AddressLabels returns the labels of all addresses in document order
func (r *Record) AddressLabels() []string {
	labels := make([]string, 0, len(r.Addresses))
	for _, addr := range r.Addresses {
		labels = append(labels, addr.Label)
	}
	return labels
}
