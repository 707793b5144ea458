// Package ranking derives the ordered view and the completion metric
// from collection state. Everything here is a pure read over data the
// caller snapshots; the package holds no state of its own.
package ranking

import (
	"sort"

	"github.com/okian/ranqr/internal/domain/model"
)

// Entry is one row of the derived ranking.
type Entry struct {
	Rank        int    `json:"rank"`
	ID          string `json:"id"`
	Label       string `json:"label"`
	MediaLink   string `json:"media_link,omitempty"`
	Score       int    `json:"score"`
	Comparisons int    `json:"comparisons"`
}

// Progress is the completion metric for a collection.
// Made counts every recorded comparison including repeats; Max is the
// number of distinct unordered pairs.
type Progress struct {
	Made     int     `json:"made"`
	Max      int     `json:"max"`
	Fraction float64 `json:"fraction"`
}

// Rank orders items by score descending, then by fewer comparisons
// (lower confidence surfaces higher for visibility), then by insertion
// order. The input slice must be in insertion order; it is not modified.
func Rank(items []model.Item) []Entry {
	entries := make([]Entry, len(items))
	for i, it := range items {
		entries[i] = Entry{
			ID:          it.ID,
			Label:       it.Label,
			MediaLink:   it.MediaLink,
			Score:       it.Score,
			Comparisons: it.Comparisons,
		}
	}

	// Stable sort keeps insertion order as the final tie-breaker.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Comparisons < entries[j].Comparisons
	})

	assignRanksWithTies(entries)
	return entries
}

// assignRanksWithTies assigns dense ranks: entries with the same score
// and comparison count share a rank, and the next distinct entry takes
// the following rank.
func assignRanksWithTies(entries []Entry) {
	if len(entries) == 0 {
		return
	}

	currentRank := 1
	for i := 0; i < len(entries); i++ {
		entries[i].Rank = currentRank

		sameCount := 1
		for j := i + 1; j < len(entries) &&
			entries[j].Score == entries[i].Score &&
			entries[j].Comparisons == entries[i].Comparisons; j++ {
			entries[j].Rank = currentRank
			sameCount++
		}

		currentRank++
		i += sameCount - 1
	}
}

// ComputeProgress derives the completion metric from the item count and
// the number of recorded comparisons. With fewer than two items no
// comparison is possible, so progress is reported as complete. Repeats
// past full coverage keep Made growing while Fraction stays capped.
func ComputeProgress(itemCount, comparisonCount int) Progress {
	if itemCount < 2 {
		return Progress{Made: comparisonCount, Max: 0, Fraction: 1.0}
	}

	maxPairs := itemCount * (itemCount - 1) / 2
	fraction := float64(comparisonCount) / float64(maxPairs)
	if fraction > 1.0 {
		fraction = 1.0
	}

	return Progress{Made: comparisonCount, Max: maxPairs, Fraction: fraction}
}
