// Package outage provides the record types extracted from the BVK network failures page.
//
// A Record is one dated announcement (a question/answer section on the page) with its
// title, normalized body text, raw answer markup and the list of affected addresses.
// Each record is assigned a deterministic SHA1-based ID generated from its date, title
// and text, enabling snapshot-based change detection across runs.
package outage
