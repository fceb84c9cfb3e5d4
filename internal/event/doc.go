// Package event turns normalized signup rows into a deduplicated event catalog.
//
// Each sheet row is one person's signup for one event. The event column
// carries a date prefix ("2025 - 11/29 - Leaf Center Service Project"), from
// which a start date, a cleaned name and a category are derived. Signups are
// then folded into Records keyed by name and dates, each holding the scouts
// and adults registered for it, and the Records are split into future and
// past events against a reference day. Snapshots of a catalog can be diffed
// across runs to report newly-added events.
package event
