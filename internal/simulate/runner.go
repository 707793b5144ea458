package simulate

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/ranqr/pkg/logger"
)

// Run executes a complete voting simulation against a running service:
// seed a collection, drive concurrent voters through the matchup
// endpoints, then pull the ranking back and verify its bookkeeping.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting voting simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("items", config.NumItems),
		logger.Int("votes", config.NumVotes),
		logger.Int("workers", config.Workers),
		logger.Int64("seed", config.Seed),
		logger.String("timeout", config.Timeout.String()))

	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	coll, labels, err := createCollection(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("collection setup failed: %w", err)
	}

	if err := runVoters(ctx, config, coll.ID, labels, stats); err != nil {
		return fmt.Errorf("vote submission failed: %w", err)
	}

	entries, prog, err := fetchResults(ctx, config, coll.ID, stats)
	if err != nil {
		return fmt.Errorf("result retrieval failed: %w", err)
	}

	if err := verifyResults(ctx, entries, prog, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	logger.Get().Info(ctx, "simulation completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// createCollection seeds a fresh collection with generated labels.
func createCollection(ctx context.Context, config *Config, stats *Stats) (collection, []string, error) {
	labels := make([]string, 0, config.NumItems)
	blob := ""
	for i := 0; i < config.NumItems; i++ {
		label := fmt.Sprintf("contender-%03d", i+1)
		labels = append(labels, label)
		blob += label + "\n"
	}

	client := newHTTPClient(config.Timeout)
	body := map[string]string{
		"name":  fmt.Sprintf("simulation-%d", time.Now().Unix()),
		"items": blob,
	}

	var created createResponse
	status, err := postJSON(ctx, client, config.BaseURL+"/api/collections", body, &created)
	if err != nil {
		return collection{}, nil, err
	}
	if status != http.StatusCreated {
		return collection{}, nil, fmt.Errorf("collection creation failed with status: %d", status)
	}
	if len(created.Items) != config.NumItems {
		return collection{}, nil, fmt.Errorf("expected %d items, got %d", config.NumItems, len(created.Items))
	}

	stats.ItemsCreated = len(created.Items)
	logger.Get().Info(ctx, "collection created",
		logger.String("collectionID", created.Collection.ID),
		logger.Int("items", stats.ItemsCreated))
	return created.Collection, labels, nil
}

// fetchResults pulls the final ranking and progress views.
func fetchResults(ctx context.Context, config *Config, collectionID string, stats *Stats) ([]rankingEntry, progress, error) {
	client := newHTTPClient(config.Timeout)
	base := config.BaseURL + "/api/collections/" + collectionID

	var entries []rankingEntry
	if err := getJSON(ctx, client, base+"/ranking", &entries); err != nil {
		return nil, progress{}, fmt.Errorf("failed to fetch ranking: %w", err)
	}

	var prog progress
	if err := getJSON(ctx, client, base+"/progress", &prog); err != nil {
		return nil, progress{}, fmt.Errorf("failed to fetch progress: %w", err)
	}

	stats.RankingEntries = len(entries)
	return entries, prog, nil
}

// displayFinalStats prints the final simulation statistics.
func displayFinalStats(stats *Stats) {
	var votesPerSecond float64
	if stats.Duration > 0 {
		votesPerSecond = float64(stats.VotesSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("itemsCreated", stats.ItemsCreated),
		logger.Int("votesSubmitted", stats.VotesSubmitted),
		logger.Int("votesAccepted", stats.VotesAccepted),
		logger.Int("votesFailed", stats.VotesFailed),
		logger.Int("matchupsUnavailable", stats.MatchupsUnavailable),
		logger.Int("rankingEntries", stats.RankingEntries),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("votesPerSecond", votesPerSecond))
}
