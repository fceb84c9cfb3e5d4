// Package storage provides JSON-based persistence for event snapshots.
//
// Two kinds of files live in the data directory. Event snapshots
// (snapshot.json, or snapshot_NAME.json for a named sheet) record which
// events existed on the previous run so that new ones can be reported.
// The catalog cache (catalog.json) holds the last successfully built catalog
// so that a server can answer requests before its first refresh completes.
// The default storage location is ~/.local/share/troop-events/.
package storage
