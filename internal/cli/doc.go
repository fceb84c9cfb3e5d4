// Package cli implements the command-line interface for troop-events.
//
// The cli package provides the Cobra-based CLI: listing events (with
// filtering, sorting, ICS export and new-event detection against a stored
// snapshot), fuzzy name search, per-scout lookups, the roster, and the HTTP
// server. It coordinates the config, scraper, catalog, storage and server
// packages.
package cli
