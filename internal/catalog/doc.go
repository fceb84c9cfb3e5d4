// Package catalog runs the ingestion pipeline and holds its result.
//
// Build turns a normalized sheet payload into a Catalog: aggregated events
// split into future and past, plus the scout and adult rosters. Build is pure
// and deterministic; running it twice on the same payload yields deep-equal
// catalogs.
//
// Store owns the current Catalog behind an atomic pointer. Readers take a
// Snapshot and work on it; Refresh builds a complete new Catalog and swaps it
// in, so a reader never observes a partially rebuilt corpus.
package catalog
