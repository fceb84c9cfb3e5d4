// Package search resolves a free-text query to known people.
//
// Similarity combines three heuristics: exact match, substring containment
// and normalized Levenshtein distance. A Matcher scores every identity by its
// full, first and last name, applies the thresholds in Config and returns the
// matches ranked by score. Equal scores keep corpus order.
package search
