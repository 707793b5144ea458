// Package selector chooses the next matchup to present for a collection.
//
// Selection mirrors the adjacent-element comparisons of a merge step:
// items are lined up by current score so that pairs likely to be close in
// true rank sit next to each other, and candidates are generated from a
// bounded neighborhood window around each position. That keeps candidate
// generation at O(n*k) instead of O(n^2) while concentrating comparisons
// where they are most informative.
package selector

import (
	"math/rand"
	"sort"
	"time"

	"github.com/okian/ranqr/internal/domain/model"
)

// Default selection configuration constants.
const (
	defaultWindow        = 3
	defaultCoverageFloor = 1
)

// Option applies a configuration option to the Selector.
type Option func(*Selector)

// WithWindow sets the neighborhood window size k. Each item is considered
// against its k nearest neighbors in score order.
func WithWindow(k int) Option {
	return func(s *Selector) {
		if k > 0 {
			s.window = k
		}
	}
}

// WithCoverageFloor sets the comparison count below which an item counts
// as starved. Pairs containing a starved item are selected before
// anything else.
func WithCoverageFloor(floor int) Option {
	return func(s *Selector) {
		if floor > 0 {
			s.floor = floor
		}
	}
}

// WithRand injects the random source used for tie-breaking. A fixed seed
// makes selection reproducible.
func WithRand(rng *rand.Rand) Option {
	return func(s *Selector) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// Pair is a proposed matchup in canonical order (lower id first). The
// order is for display stability only; outcome recording is symmetric.
type Pair struct {
	A model.Item
	B model.Item
}

// Selector picks the next pair to present to a human judge.
type Selector struct {
	window int
	floor  int
	rng    *rand.Rand
}

// New creates a selector with configuration options.
func New(opts ...Option) *Selector {
	s := &Selector{
		window: defaultWindow,
		floor:  defaultCoverageFloor,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // selection jitter, not security
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// candidate is an eligible pair with its priority components.
type candidate struct {
	pair           Pair
	starved        bool
	minComparisons int
	closeness      int
}

// Next returns the chosen matchup, or false when the collection has
// fewer than two items. With two or more items it always yields a pair:
// once every distinct pair has been resolved it falls back to repeat
// selection under the same priority rules, so conflicting human
// judgments can keep accumulating signal instead of deadlocking.
//
// items must be in insertion order; seen maps canonical pair keys to the
// number of comparisons already recorded for that pair.
func (s *Selector) Next(items []model.Item, seen map[string]int) (Pair, bool) {
	n := len(items)
	if n < 2 {
		return Pair{}, false
	}

	ordered := orderForAdjacency(items)
	exhausted := len(seen) >= n*(n-1)/2

	// Widen the window when every nearby pair is already resolved but
	// unexplored pairs remain further out; only once the whole collection
	// is exhausted do repeats become eligible.
	for k := s.window; ; {
		if k > n-1 {
			k = n - 1
		}
		if cands := collect(ordered, seen, k, exhausted); len(cands) > 0 {
			return s.pick(cands), true
		}
		if k == n-1 {
			if exhausted {
				// Unreachable with n >= 2: the unfiltered full window
				// always yields at least one pair.
				return Pair{}, false
			}
			exhausted = true
			k = s.window
			continue
		}
		k *= 2
	}
}

// orderForAdjacency sorts a copy of items by score ascending, breaking
// ties by comparison count ascending; the stable sort keeps insertion
// order as the final tie-breaker.
func orderForAdjacency(items []model.Item) []model.Item {
	ordered := make([]model.Item, len(items))
	copy(ordered, items)

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Score != ordered[j].Score {
			return ordered[i].Score < ordered[j].Score
		}
		return ordered[i].Comparisons < ordered[j].Comparisons
	})

	return ordered
}

// collect builds the candidate set from a window of size k over the
// score-ordered items. Already-resolved pairs are excluded unless the
// collection is exhausted.
func collect(ordered []model.Item, seen map[string]int, k int, exhausted bool) []candidate {
	floorOf := func(a, b model.Item) int {
		if a.Comparisons < b.Comparisons {
			return a.Comparisons
		}
		return b.Comparisons
	}

	var cands []candidate
	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j <= i+k && j < len(ordered); j++ {
			a, b := ordered[i], ordered[j]
			if !exhausted {
				if _, done := seen[model.PairKey(a.ID, b.ID)]; done {
					continue
				}
			}
			cands = append(cands, candidate{
				pair:           Pair{A: a, B: b},
				minComparisons: floorOf(a, b),
				closeness:      abs(a.Score - b.Score),
			})
		}
	}
	return cands
}

// pick chooses among candidates by lexicographic priority and breaks
// remaining ties uniformly at random, so identical data does not replay
// the same candidate sequence across sessions.
func (s *Selector) pick(cands []candidate) Pair {
	for i := range cands {
		cands[i].starved = cands[i].minComparisons < s.floor
	}

	best := []candidate{cands[0]}
	for _, c := range cands[1:] {
		switch {
		case better(c, best[0]):
			best = append(best[:0], c)
		case !better(best[0], c):
			best = append(best, c)
		}
	}

	chosen := best[s.rng.Intn(len(best))].pair
	if chosen.B.ID < chosen.A.ID {
		chosen.A, chosen.B = chosen.B, chosen.A
	}
	return chosen
}

// better reports whether x outranks y. Starvation avoidance comes first:
// a pair containing an item below the coverage floor beats any pair that
// has full coverage. Within each class, starved pairs order by how far
// behind they are, then closeness; covered pairs order by closeness,
// then the lower comparison count.
func better(x, y candidate) bool {
	if x.starved != y.starved {
		return x.starved
	}
	if x.starved {
		if x.minComparisons != y.minComparisons {
			return x.minComparisons < y.minComparisons
		}
		return x.closeness < y.closeness
	}
	if x.closeness != y.closeness {
		return x.closeness < y.closeness
	}
	return x.minComparisons < y.minComparisons
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
