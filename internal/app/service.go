// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"

	repository "github.com/okian/ranqr/internal/adapters/repository"
	"github.com/okian/ranqr/internal/domain/model"
	"github.com/okian/ranqr/internal/domain/ranking"
	"github.com/okian/ranqr/internal/domain/scoring"
	"github.com/okian/ranqr/internal/domain/selector"
	"github.com/okian/ranqr/pkg/logger"
	"github.com/okian/ranqr/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultSelectorWindow = 3
	defaultCoverageFloor  = 1
	defaultWinPoints      = 1
	defaultTiePoints      = 0
)

// youtubeIDPattern matches bare 11-character YouTube video ids.
var youtubeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// Service implements the ranking engine behind the API: matchup
// selection, outcome recording, and the derived ranking and progress
// views, per collection.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	selector *selector.Selector
	policy   *scoring.Policy

	// Per-collection serialization: selection and recording for one
	// collection never interleave; different collections run in
	// parallel.
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	// Configuration
	window     int
	floor      int
	winPoints  int
	tiePoints  int
	randomSeed int64

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore injects a store implementation. Defaults to the in-memory
// store when unset.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithSelectorWindow sets the neighborhood window size for selection.
func WithSelectorWindow(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.window = k
		}
	}
}

// WithCoverageFloor sets the starvation-avoidance comparison floor.
func WithCoverageFloor(floor int) Option {
	return func(s *Service) {
		if floor > 0 {
			s.floor = floor
		}
	}
}

// WithWinPoints sets the points transferred on a decisive outcome.
func WithWinPoints(points int) Option {
	return func(s *Service) {
		if points > 0 {
			s.winPoints = points
		}
	}
}

// WithTiePoints sets the points awarded to both sides of a tie.
func WithTiePoints(points int) Option {
	return func(s *Service) {
		if points >= 0 {
			s.tiePoints = points
		}
	}
}

// WithRandomSeed seeds selection tie-breaking for reproducible runs.
// A seed of 0 keeps the time-seeded default.
func WithRandomSeed(seed int64) Option {
	return func(s *Service) {
		s.randomSeed = seed
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		window:    defaultSelectorWindow,
		floor:     defaultCoverageFloor,
		winPoints: defaultWinPoints,
		tiePoints: defaultTiePoints,
		locks:     make(map[string]*sync.Mutex),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.store == nil {
		s.store = repository.NewMemStore()
	}

	selectorOpts := []selector.Option{
		selector.WithWindow(s.window),
		selector.WithCoverageFloor(s.floor),
	}
	if s.randomSeed != 0 {
		selectorOpts = append(selectorOpts, selector.WithRand(rand.New(rand.NewSource(s.randomSeed)))) //nolint:gosec // reproducible selection, not security
	}
	s.selector = selector.New(selectorOpts...)

	s.policy = scoring.NewPolicy(
		scoring.WithWinPoints(s.winPoints),
		scoring.WithTiePoints(s.tiePoints),
	)

	s.started = true
	s.logger.Info(ctx, "ranking engine started",
		logger.Int("selectorWindow", s.window),
		logger.Int("coverageFloor", s.floor),
		logger.Int("winPoints", s.winPoints),
		logger.Int("tiePoints", s.tiePoints),
	)

	return nil
}

// Stop shuts the service down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.started = false
	s.logger.Info(context.Background(), "ranking engine stopped")
}

// lockFor returns the serialization mutex for one collection.
func (s *Service) lockFor(collectionID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	l, ok := s.locks[collectionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[collectionID] = l
	}
	return l
}

// dropLock forgets a deleted collection's mutex.
func (s *Service) dropLock(collectionID string) {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	delete(s.locks, collectionID)
}

// CreateCollection registers a new collection, optionally seeding it
// with items from a newline-separated blob.
func (s *Service) CreateCollection(ctx context.Context, name, itemsBlob string) (model.Collection, []model.Item, error) {
	coll, err := s.store.CreateCollection(ctx, name)
	if err != nil {
		return model.Collection{}, nil, err
	}

	items, err := s.AddItems(ctx, coll.ID, itemsBlob)
	if err != nil {
		return model.Collection{}, nil, err
	}

	coll.ItemCount = len(items)
	s.logger.Info(ctx, "collection created",
		logger.String("collectionID", coll.ID),
		logger.String("name", coll.Name),
		logger.Int("items", len(items)),
	)
	return coll, items, nil
}

// Collections lists all collections in creation order.
func (s *Service) Collections(ctx context.Context) ([]model.Collection, error) {
	return s.store.ListCollections(ctx)
}

// DeleteCollection removes a collection and everything it owns.
func (s *Service) DeleteCollection(ctx context.Context, collectionID string) error {
	l := s.lockFor(collectionID)
	l.Lock()
	defer l.Unlock()

	if err := s.store.DeleteCollection(ctx, collectionID); err != nil {
		return err
	}
	s.dropLock(collectionID)
	s.updateItemGauge(ctx)

	s.logger.Info(ctx, "collection deleted", logger.String("collectionID", collectionID))
	return nil
}

// AddItems splits a newline-separated blob into labels, trims them, and
// adds one item per non-empty line.
func (s *Service) AddItems(ctx context.Context, collectionID, itemsBlob string) ([]model.Item, error) {
	var items []model.Item
	for _, line := range strings.Split(itemsBlob, "\n") {
		label := strings.TrimSpace(line)
		if label == "" {
			continue
		}
		item, err := s.store.AddItem(ctx, collectionID, label, "")
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	s.updateItemGauge(ctx)
	return items, nil
}

// UpdateItem changes an item's label and/or media link. Bare YouTube
// video ids are expanded to full watch URLs.
func (s *Service) UpdateItem(ctx context.Context, collectionID, itemID string, label, mediaLink *string) (model.Item, error) {
	update := repository.ItemUpdate{Label: label}
	if mediaLink != nil {
		normalized := normalizeMediaLink(*mediaLink)
		update.MediaLink = &normalized
	}
	return s.store.UpdateItem(ctx, collectionID, itemID, update)
}

// NextMatchup picks the next pair to present for a collection. The
// second return value is false when the collection has fewer than two
// items; that is an expected terminal condition, not an error.
func (s *Service) NextMatchup(ctx context.Context, collectionID string) (selector.Pair, bool, error) {
	l := s.lockFor(collectionID)
	l.Lock()
	defer l.Unlock()

	start := time.Now()
	snap, err := s.store.Snapshot(ctx, collectionID)
	if err != nil {
		return selector.Pair{}, false, err
	}

	pair, ok := s.selector.Next(snap.Items, snap.SeenPairs)
	metrics.RecordSelectorLatency(float64(time.Since(start).Milliseconds()))
	if !ok {
		return selector.Pair{}, false, nil
	}

	metrics.RecordMatchupServed()
	s.logger.Debug(ctx, "matchup selected",
		logger.String("collectionID", collectionID),
		logger.String("itemA", pair.A.ID),
		logger.String("itemB", pair.B.ID),
	)
	return pair, true, nil
}

// RecordOutcome applies a human decision for a pair. The update is
// all-or-nothing: a validation failure leaves every score, count, and
// the log untouched.
func (s *Service) RecordOutcome(ctx context.Context, collectionID, itemA, itemB string, outcome model.Outcome) (model.Comparison, error) {
	l := s.lockFor(collectionID)
	l.Lock()
	defer l.Unlock()

	if !outcome.Valid() {
		metrics.RecordOutcomeRejected()
		return model.Comparison{}, repository.ErrInvalidOutcome
	}

	deltaA, deltaB, err := s.policy.Deltas(outcome)
	if err != nil {
		metrics.RecordOutcomeRejected()
		return model.Comparison{}, err
	}

	cmp, err := s.store.RecordOutcome(ctx, collectionID, itemA, itemB, outcome, deltaA, deltaB)
	if err != nil {
		metrics.RecordOutcomeRejected()
		return model.Comparison{}, err
	}

	metrics.RecordOutcomeRecorded()
	if cmp.Outcome == model.Tie {
		metrics.RecordTieRecorded()
	}

	s.logger.Debug(ctx, "outcome recorded",
		logger.String("collectionID", collectionID),
		logger.String("itemA", cmp.ItemA),
		logger.String("itemB", cmp.ItemB),
		logger.String("outcome", cmp.Outcome.String()),
		logger.Int64("seq", int64(cmp.Seq)),
	)
	return cmp, nil
}

// Ranking returns the derived order for a collection. A limit of 0
// returns every entry.
func (s *Service) Ranking(ctx context.Context, collectionID string, limit int) ([]ranking.Entry, error) {
	snap, err := s.store.Snapshot(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	entries := ranking.Rank(snap.Items)
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

// Progress returns the completion metric for a collection.
func (s *Service) Progress(ctx context.Context, collectionID string) (ranking.Progress, error) {
	snap, err := s.store.Snapshot(ctx, collectionID)
	if err != nil {
		return ranking.Progress{}, err
	}
	return ranking.ComputeProgress(len(snap.Items), snap.ComparisonCount), nil
}

// Collection returns a collection's metadata.
func (s *Service) Collection(ctx context.Context, collectionID string) (model.Collection, error) {
	snap, err := s.store.Snapshot(ctx, collectionID)
	if err != nil {
		return model.Collection{}, err
	}
	return snap.Collection, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":        s.started,
		"selectorWindow": s.window,
		"coverageFloor":  s.floor,
	}

	if s.started {
		stats["collections"] = s.store.Count(ctx)
	}
	return stats
}

// updateItemGauge refreshes the global item count gauge.
func (s *Service) updateItemGauge(ctx context.Context) {
	colls, err := s.store.ListCollections(ctx)
	if err != nil {
		return
	}
	total := 0
	for _, c := range colls {
		total += c.ItemCount
	}
	metrics.UpdateItemsTotal(total)
}

// IsNotFound reports whether err names an unknown collection or item.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrCollectionNotFound) || errors.Is(err, repository.ErrItemNotFound)
}

// normalizeMediaLink trims a media link and expands bare YouTube video
// ids to full watch URLs. Anything else passes through for the user to
// fix.
func normalizeMediaLink(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	if youtubeIDPattern.MatchString(link) {
		return fmt.Sprintf("https://www.youtube.com/watch?v=%s", link)
	}
	return link
}
