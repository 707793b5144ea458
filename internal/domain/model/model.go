// Package model contains domain models passed between layers.
package model

import "time"

// Collection describes one independent ranking space.
type Collection struct {
	ID        string
	Name      string
	ItemCount int
	CreatedAt time.Time
}

// Item is a ranked member of a collection.
// Score and Comparisons are mutated only through outcome recording.
type Item struct {
	ID          string
	Label       string
	MediaLink   string // optional display URL, no ranking semantics
	Score       int
	Comparisons int
}

// Comparison is an immutable record of one resolved matchup.
// ItemA and ItemB are stored in canonical order (lower id first) and
// Seq is strictly increasing within a collection, so the log carries a
// total order over history independent of wall clock.
type Comparison struct {
	Seq     uint64
	ItemA   string
	ItemB   string
	Outcome Outcome
}

// PairKey returns the canonical identity of an unordered item pair.
// Both orderings of the same two ids map to the same key.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}
