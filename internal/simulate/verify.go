package simulate

import (
	"context"
	"fmt"

	"github.com/okian/ranqr/pkg/logger"
)

// verifyResults checks the engine's bookkeeping from the outside, using
// only what the API reports.
func verifyResults(ctx context.Context, entries []rankingEntry, prog progress, stats *Stats) error {
	logger.Get().Info(ctx, "verifying results")

	if len(entries) != stats.ItemsCreated {
		return fmt.Errorf("ranking has %d entries, expected %d", len(entries), stats.ItemsCreated)
	}

	// Every recorded outcome moves points symmetrically, so the scores
	// must cancel out no matter how the votes landed.
	totalScore := 0
	totalComparisons := 0
	for _, e := range entries {
		totalScore += e.Score
		totalComparisons += e.Comparisons
	}
	if totalScore != 0 {
		return fmt.Errorf("scores sum to %d, expected 0", totalScore)
	}

	// Each comparison touches exactly two items.
	if totalComparisons != 2*prog.Made {
		return fmt.Errorf("comparison counts sum to %d, expected %d", totalComparisons, 2*prog.Made)
	}

	// Each accepted vote appends exactly one comparison.
	if prog.Made != stats.VotesAccepted {
		return fmt.Errorf("progress reports %d comparisons, %d votes were accepted", prog.Made, stats.VotesAccepted)
	}

	// The ranking must be ordered by score, then by comparison count.
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		if cur.Score > prev.Score {
			return fmt.Errorf("ranking out of order at position %d: score %d above %d", i, prev.Score, cur.Score)
		}
		if cur.Score == prev.Score && cur.Comparisons < prev.Comparisons {
			return fmt.Errorf("ranking tie at position %d not broken by comparison count", i)
		}
	}

	if prog.Fraction < 0 || prog.Fraction > 1 {
		return fmt.Errorf("progress fraction %f out of range", prog.Fraction)
	}

	logger.Get().Info(ctx, "all verifications passed",
		logger.Int("comparisons", prog.Made),
		logger.Float64("progress", prog.Fraction))
	return nil
}
