package simulate

import "time"

// Config holds configuration for a voting simulation run.
type Config struct {
	BaseURL  string        // Base URL of the service
	NumItems int           // Number of items to seed the collection with
	NumVotes int           // Number of votes to submit
	Workers  int           // Number of concurrent voters
	Timeout  time.Duration // HTTP request timeout
	LogFile  string        // Log file for simulation output
	Seed     int64         // Seed for the simulated jury
	Verbose  bool          // Enable verbose logging
}

// collection mirrors the collection wire shape.
type collection struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ItemCount int    `json:"item_count"`
}

// item mirrors the item wire shape.
type item struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Score       int    `json:"score"`
	Comparisons int    `json:"comparisons"`
}

// createResponse mirrors the response of collection creation.
type createResponse struct {
	Collection collection `json:"collection"`
	Items      []item     `json:"items"`
}

// matchup mirrors the matchup wire shape.
type matchup struct {
	Available bool  `json:"available"`
	ItemA     *item `json:"item_a"`
	ItemB     *item `json:"item_b"`
}

// outcomeAck mirrors the response of outcome recording.
type outcomeAck struct {
	Status  string `json:"status"`
	Outcome string `json:"outcome"`
}

// rankingEntry mirrors one row of the ranking view.
type rankingEntry struct {
	Rank        int    `json:"rank"`
	ID          string `json:"id"`
	Label       string `json:"label"`
	Score       int    `json:"score"`
	Comparisons int    `json:"comparisons"`
}

// progress mirrors the progress wire shape.
type progress struct {
	Made     int     `json:"made"`
	Max      int     `json:"max"`
	Fraction float64 `json:"fraction"`
}

// Stats holds simulation statistics.
type Stats struct {
	ItemsCreated        int
	VotesSubmitted      int
	VotesAccepted       int
	VotesFailed         int
	MatchupsUnavailable int
	RankingEntries      int
	StartTime           time.Time
	EndTime             time.Time
	Duration            time.Duration
}
