// Package roster derives the people known to an event catalog.
//
// Identities are built from the scout and adult lists of every event and
// deduplicated by their lowercased, trimmed name. Scouts and adults are kept
// in separate rosters that are never merged: a person who signed up once as a
// scout and once as an adult appears in both.
package roster
