package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/ranqr/internal/domain/model"
	"github.com/okian/ranqr/pkg/metrics"
)

// In-memory Store implementation.
//
// Each collection owns its own RWMutex: outcome recording runs as one
// exclusive critical section per collection, while snapshot reads share
// the lock and different collections proceed fully in parallel.

// collection bundles everything a single ranking space owns.
type collection struct {
	mu sync.RWMutex

	meta    model.Collection
	order   []string               // item ids in insertion order
	items   map[string]*model.Item // id -> item
	log     []model.Comparison     // append-only, sequence order
	pairs   map[string]int         // canonical pair key -> times resolved
	nextSeq uint64
}

// MemStore implements Store with in-process state.
type MemStore struct {
	mu          sync.RWMutex
	collections map[string]*collection
	order       []string // collection ids in creation order

	newID func() string
	now   func() time.Time
}

// NewMemStore constructs an in-memory store with configuration options.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		collections: make(map[string]*collection),
		newID:       uuid.NewString,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	metrics.UpdateCollectionsTotal(0)
	return s
}

// CreateCollection registers a new, empty collection.
func (s *MemStore) CreateCollection(ctx context.Context, name string) (model.Collection, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	name = strings.TrimSpace(name)
	if name == "" {
		metrics.RecordErrorByComponent("repository", "empty_name")
		return model.Collection{}, ErrEmptyName
	}

	c := &collection{
		meta: model.Collection{
			ID:        s.newID(),
			Name:      name,
			CreatedAt: s.now(),
		},
		items: make(map[string]*model.Item),
		pairs: make(map[string]int),
	}

	s.mu.Lock()
	s.collections[c.meta.ID] = c
	s.order = append(s.order, c.meta.ID)
	total := len(s.collections)
	s.mu.Unlock()

	metrics.UpdateCollectionsTotal(total)
	return c.meta, nil
}

// ListCollections returns all collections in creation order.
func (s *MemStore) ListCollections(ctx context.Context) ([]model.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Collection, 0, len(s.order))
	for _, id := range s.order {
		c := s.collections[id]
		c.mu.RLock()
		meta := c.meta
		meta.ItemCount = len(c.items)
		c.mu.RUnlock()
		out = append(out, meta)
	}
	return out, nil
}

// DeleteCollection removes a collection and everything it owns. The
// cascade is total, so no comparison can ever dangle.
func (s *MemStore) DeleteCollection(ctx context.Context, collectionID string) error {
	s.mu.Lock()
	if _, ok := s.collections[collectionID]; !ok {
		s.mu.Unlock()
		metrics.RecordErrorByComponent("repository", "not_found")
		return ErrCollectionNotFound
	}
	delete(s.collections, collectionID)
	for i, id := range s.order {
		if id == collectionID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	total := len(s.collections)
	s.mu.Unlock()

	metrics.UpdateCollectionsTotal(total)
	return nil
}

// AddItem appends an item with zero score and zero comparisons.
func (s *MemStore) AddItem(ctx context.Context, collectionID, label, mediaLink string) (model.Item, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	label = strings.TrimSpace(label)
	if label == "" {
		metrics.RecordErrorByComponent("repository", "empty_label")
		return model.Item{}, ErrEmptyLabel
	}

	c, err := s.lookup(collectionID)
	if err != nil {
		return model.Item{}, err
	}

	item := model.Item{
		ID:        s.newID(),
		Label:     label,
		MediaLink: mediaLink,
	}

	c.mu.Lock()
	c.items[item.ID] = &item
	c.order = append(c.order, item.ID)
	c.mu.Unlock()

	return item, nil
}

// UpdateItem changes an item's display fields.
func (s *MemStore) UpdateItem(ctx context.Context, collectionID, itemID string, update ItemUpdate) (model.Item, error) {
	c, err := s.lookup(collectionID)
	if err != nil {
		return model.Item{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[itemID]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.Item{}, ErrItemNotFound
	}

	if update.Label != nil {
		label := strings.TrimSpace(*update.Label)
		if label == "" {
			metrics.RecordErrorByComponent("repository", "empty_label")
			return model.Item{}, ErrEmptyLabel
		}
		item.Label = label
	}
	if update.MediaLink != nil {
		item.MediaLink = strings.TrimSpace(*update.MediaLink)
	}

	return *item, nil
}

// Snapshot returns a consistent copy of the collection's state.
func (s *MemStore) Snapshot(ctx context.Context, collectionID string) (Snapshot, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	c, err := s.lookup(collectionID)
	if err != nil {
		return Snapshot{}, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{
		Collection:      c.meta,
		Items:           make([]model.Item, 0, len(c.order)),
		SeenPairs:       make(map[string]int, len(c.pairs)),
		ComparisonCount: len(c.log),
	}
	snap.Collection.ItemCount = len(c.items)
	for _, id := range c.order {
		snap.Items = append(snap.Items, *c.items[id])
	}
	for k, v := range c.pairs {
		snap.SeenPairs[k] = v
	}
	return snap, nil
}

// Comparisons returns the full log in sequence order.
func (s *MemStore) Comparisons(ctx context.Context, collectionID string) ([]model.Comparison, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	c, err := s.lookup(collectionID)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]model.Comparison, len(c.log))
	copy(out, c.log)
	return out, nil
}

// RecordOutcome applies one resolved matchup as a single indivisible
// unit: log append, comparison counts, and score deltas all land under
// one write lock, or none of them do.
func (s *MemStore) RecordOutcome(ctx context.Context, collectionID, itemA, itemB string, outcome model.Outcome, deltaA, deltaB int) (model.Comparison, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	c, err := s.lookup(collectionID)
	if err != nil {
		return model.Comparison{}, err
	}

	if itemA == itemB {
		metrics.RecordErrorByComponent("repository", "invalid_pair")
		return model.Comparison{}, ErrInvalidPair
	}
	if !outcome.Valid() {
		metrics.RecordErrorByComponent("repository", "invalid_outcome")
		return model.Comparison{}, ErrInvalidOutcome
	}

	// Canonical order: lower id first. Outcome and deltas travel with
	// the swap so recording stays symmetric.
	if itemB < itemA {
		itemA, itemB = itemB, itemA
		outcome = outcome.Flipped()
		deltaA, deltaB = deltaB, deltaA
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := c.items[itemA]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.Comparison{}, ErrItemNotFound
	}
	b, ok := c.items[itemB]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.Comparison{}, ErrItemNotFound
	}

	c.nextSeq++
	cmp := model.Comparison{
		Seq:     c.nextSeq,
		ItemA:   itemA,
		ItemB:   itemB,
		Outcome: outcome,
	}
	c.log = append(c.log, cmp)
	c.pairs[model.PairKey(itemA, itemB)]++

	a.Score += deltaA
	b.Score += deltaB
	a.Comparisons++
	b.Comparisons++

	metrics.RecordComparisonAppended()
	return cmp, nil
}

// Count returns the number of collections tracked.
func (s *MemStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections)
}

// lookup resolves a collection id under the store-level read lock.
func (s *MemStore) lookup(collectionID string) (*collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collectionID]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return nil, ErrCollectionNotFound
	}
	return c, nil
}
