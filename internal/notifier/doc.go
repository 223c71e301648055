// Package notifier delivers parsed outage records to the configured channels.
//
// The Telegram notifier sends the HTML report built by the telegram package,
// the Twitter notifier posts one short status per record, and the dry-run
// notifier prints what would be sent. Several notifiers can be combined with Multi.
package notifier
