package simulate

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/ranqr/pkg/logger"
)

// progressReportInterval throttles voter progress logging.
const progressReportInterval = 1 * time.Second

// jury decides outcomes from hidden per-label strengths. Labels with a
// higher strength beat weaker ones most of the time, so a long enough
// run should surface the strength order in the final ranking.
type jury struct {
	mu        sync.Mutex
	rng       *rand.Rand
	strengths map[string]int
}

func newJury(seed int64, labels []string) *jury {
	strengths := make(map[string]int, len(labels))
	for i, label := range labels {
		strengths[label] = i
	}
	return &jury{
		rng:       rand.New(rand.NewSource(seed)), //nolint:gosec // simulation, not security
		strengths: strengths,
	}
}

// decide returns the outcome string for a served pair.
func (j *jury) decide(labelA, labelB string) string {
	j.mu.Lock()
	defer j.mu.Unlock()

	// One vote in ten ignores strength entirely, and a further slice
	// ends in a tie, to keep the data noisy like real juries.
	roll := j.rng.Intn(100)
	switch {
	case roll < 5:
		return "tie"
	case roll < 10:
		if j.rng.Intn(2) == 0 {
			return "a_wins"
		}
		return "b_wins"
	}

	if j.strengths[labelA] >= j.strengths[labelB] {
		return "a_wins"
	}
	return "b_wins"
}

// runVoters drives concurrent vote workers against one collection.
func runVoters(ctx context.Context, config *Config, collectionID string, labels []string, stats *Stats) error {
	logger.Get().Info(ctx, "submitting votes",
		logger.Int("votes", config.NumVotes),
		logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)
	matchupURL := config.BaseURL + "/api/collections/" + collectionID + "/matchup"
	panel := newJury(config.Seed, labels)

	var (
		submitted   int64
		accepted    int64
		failed      int64
		unavailable int64
	)

	var lastReport time.Time
	votes := make(chan struct{}, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for range votes {
				select {
				case <-ctx.Done():
					return
				default:
					result := castSingleVote(ctx, client, matchupURL, panel)

					atomic.AddInt64(&submitted, 1)
					switch result {
					case "accepted":
						atomic.AddInt64(&accepted, 1)
					case "unavailable":
						atomic.AddInt64(&unavailable, 1)
					default:
						atomic.AddInt64(&failed, 1)
					}

					if time.Since(lastReport) >= progressReportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&submitted)
						if config.Verbose {
							logger.Get().Info(ctx, "vote progress",
								logger.Int64("submitted", total),
								logger.Int64("accepted", atomic.LoadInt64(&accepted)),
								logger.Int64("failed", atomic.LoadInt64(&failed)))
						} else {
							fmt.Printf("\rvotes: %d/%d (accepted: %d, failed: %d)",
								total, config.NumVotes,
								atomic.LoadInt64(&accepted), atomic.LoadInt64(&failed))
						}
					}
				}
			}
		}()
	}

	go func() {
		defer close(votes)
		for i := 0; i < config.NumVotes; i++ {
			select {
			case <-ctx.Done():
				return
			case votes <- struct{}{}:
			}
		}
	}()

	wg.Wait()
	if !config.Verbose {
		fmt.Println()
	}

	stats.VotesSubmitted = int(atomic.LoadInt64(&submitted))
	stats.VotesAccepted = int(atomic.LoadInt64(&accepted))
	stats.VotesFailed = int(atomic.LoadInt64(&failed))
	stats.MatchupsUnavailable = int(atomic.LoadInt64(&unavailable))

	logger.Get().Info(ctx, "vote submission completed",
		logger.Int("accepted", stats.VotesAccepted),
		logger.Int("failed", stats.VotesFailed),
		logger.Int("unavailable", stats.MatchupsUnavailable))
	return nil
}

// castSingleVote fetches one matchup, decides it, and records the
// outcome. Returns "accepted", "unavailable", or "failed".
func castSingleVote(ctx context.Context, client *HTTPClient, matchupURL string, panel *jury) string {
	var m matchup
	if err := getJSON(ctx, client, matchupURL, &m); err != nil {
		return "failed"
	}
	if !m.Available || m.ItemA == nil || m.ItemB == nil {
		return "unavailable"
	}

	vote := map[string]string{
		"item_a":  m.ItemA.ID,
		"item_b":  m.ItemB.ID,
		"outcome": panel.decide(m.ItemA.Label, m.ItemB.Label),
	}

	var ack outcomeAck
	status, err := postJSON(ctx, client, matchupURL, vote, &ack)
	if err != nil || status != http.StatusOK || ack.Status != "recorded" {
		return "failed"
	}
	return "accepted"
}
