// Package repository defines the collection store interface and errors.
package repository

import (
	"context"

	"github.com/okian/ranqr/internal/domain/model"
)

// Snapshot is a consistent read of one collection's state, taken under a
// shared lock. Selection and ranking operate on snapshots so reads never
// block behind, and are never torn by, a concurrent update.
type Snapshot struct {
	Collection model.Collection
	// Items in insertion order.
	Items []model.Item
	// SeenPairs maps canonical pair keys to the number of comparisons
	// recorded for that pair identity.
	SeenPairs map[string]int
	// ComparisonCount is the total log length, repeats included.
	ComparisonCount int
}

// ItemUpdate carries the mutable display fields of an item. Nil fields
// are left unchanged.
type ItemUpdate struct {
	Label     *string
	MediaLink *string
}

// Store provides access to collections, their items, and their
// append-only comparison logs. Collections are independent: operations
// on different collections never contend with each other.
type Store interface {
	// CreateCollection registers a new, empty collection.
	CreateCollection(ctx context.Context, name string) (model.Collection, error)

	// ListCollections returns all collections in creation order.
	ListCollections(ctx context.Context) ([]model.Collection, error)

	// DeleteCollection removes a collection together with its items and
	// comparison log. Returns ErrCollectionNotFound for unknown ids.
	DeleteCollection(ctx context.Context, collectionID string) error

	// AddItem appends an item with zero score and zero comparisons.
	AddItem(ctx context.Context, collectionID, label, mediaLink string) (model.Item, error)

	// UpdateItem changes an item's display fields. Scores and counts are
	// out of reach here; only outcome recording touches those.
	UpdateItem(ctx context.Context, collectionID, itemID string, update ItemUpdate) (model.Item, error)

	// Snapshot returns a consistent copy of the collection's state.
	Snapshot(ctx context.Context, collectionID string) (Snapshot, error)

	// Comparisons returns the full log in sequence order.
	Comparisons(ctx context.Context, collectionID string) ([]model.Comparison, error)

	// RecordOutcome atomically appends a comparison with the next
	// sequence number, bumps both items' comparison counts, and applies
	// the given score deltas. The pair is canonicalized before storage;
	// outcome and deltas are interpreted relative to the order passed in
	// and flipped along with it. Validation failures leave all state
	// untouched.
	RecordOutcome(ctx context.Context, collectionID, itemA, itemB string, outcome model.Outcome, deltaA, deltaB int) (model.Comparison, error)

	// Count returns the number of collections tracked.
	Count(ctx context.Context) int
}
