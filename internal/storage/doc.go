// Package storage provides JSON-based persistence for outage snapshots.
//
// A snapshot records the outage announcements seen by the last run so the
// next run can deliver only new ones. It is stored as snapshot.json in the
// data directory, by default ~/.local/share/bvk-outages/.
package storage
