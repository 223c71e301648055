package scraper

import (
	"net/url"
	"strings"
)

// MapsBaseURL is the Google Maps place search endpoint used for address links
const MapsBaseURL = "https://www.google.com/maps/place/"

// colons and en dashes separate street, number and settlement on the page
var mapsQueryReplacer = strings.NewReplacer(":", " ", "–", " ")

// QueryEscape encodes these marks, Maps links keep them literal
var unescapeMarks = strings.NewReplacer("%21", "!", "%27", "'", "%28", "(", "%29", ")", "%2A", "*")

// BuildMapsURL turns an address into a Google Maps place link.
// Spaces are encoded as '+'. Letters, digits and - _ . ! ~ * ' ( ) stay as they
// are, everything else is percent-encoded as UTF-8.
func BuildMapsURL(query string) string {
	cleaned := strings.Join(strings.FieldsFunc(mapsQueryReplacer.Replace(query), IsSpace), " ")
	return MapsBaseURL + unescapeMarks.Replace(url.QueryEscape(cleaned))
}
