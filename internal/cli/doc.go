// Package cli implements the command-line interface for bvk-outages.
//
// The root command runs the job: fetch the BVK outage page, parse the
// announcements, filter them, optionally keep only records not seen in the
// previous run, deliver the report to Telegram (and Twitter) and archive the
// results. The parse and message subcommands run the same parsing and
// formatting against a local file, stdin or the live page without delivering.
package cli
