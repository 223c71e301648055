// Package scraper provides HTTP fetching and HTML parsing for the BVK network failures page.
//
// The scraper package fetches the public outage page from bvk.rs and extracts one
// record per schema.org Question section: the announcement date from the section
// label, the first non-empty h1 of the answer as the title, the normalized answer
// text, the raw answer markup, and the addresses listed in the answer's bullet
// lists. Addresses are classified by Belgrade municipality and turned into Google
// Maps place links.
//
// Parsing is a pure function of the markup. Malformed HTML is tolerated; the worst
// case is fewer records.
package scraper
