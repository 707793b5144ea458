package service

import (
	"context"
	"time"

	"github.com/okian/ranqr/internal/domain/model"
	"github.com/okian/ranqr/pkg/logger"
)

// exportVersion tags export blobs so future format changes can be told
// apart on import.
const exportVersion = "1.0"

// Export is a portable JSON snapshot of one collection. Comparisons
// reference items by label so blobs survive re-import into a store that
// mints fresh ids.
type Export struct {
	Version     string             `json:"version"`
	ExportedAt  time.Time          `json:"exported_at"`
	Collection  ExportCollection   `json:"collection"`
	Items       []ExportItem       `json:"items"`
	Comparisons []ExportComparison `json:"comparisons"`
}

// ExportCollection carries the collection metadata of an export.
type ExportCollection struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ExportItem is one item row of an export. Score and comparison count
// are informational; import derives them by replaying the log.
type ExportItem struct {
	Label       string `json:"label"`
	MediaLink   string `json:"media_link,omitempty"`
	Score       int    `json:"score"`
	Comparisons int    `json:"comparisons"`
}

// ExportComparison is one log row of an export, keyed by item labels.
type ExportComparison struct {
	ItemA   string `json:"item_a"`
	ItemB   string `json:"item_b"`
	Outcome string `json:"outcome"`
}

// ImportResult summarizes what an import actually restored.
type ImportResult struct {
	Collection          model.Collection `json:"collection"`
	ItemsImported       int              `json:"items_imported"`
	ComparisonsImported int              `json:"comparisons_imported"`
	ComparisonsSkipped  int              `json:"comparisons_skipped"`
}

// Export serializes a collection with its items and full comparison
// log.
func (s *Service) Export(ctx context.Context, collectionID string) (Export, error) {
	snap, err := s.store.Snapshot(ctx, collectionID)
	if err != nil {
		return Export{}, err
	}
	log, err := s.store.Comparisons(ctx, collectionID)
	if err != nil {
		return Export{}, err
	}

	labels := make(map[string]string, len(snap.Items))
	exp := Export{
		Version:    exportVersion,
		ExportedAt: time.Now().UTC(),
		Collection: ExportCollection{
			Name:      snap.Collection.Name,
			CreatedAt: snap.Collection.CreatedAt,
		},
		Items:       make([]ExportItem, 0, len(snap.Items)),
		Comparisons: make([]ExportComparison, 0, len(log)),
	}

	for _, item := range snap.Items {
		labels[item.ID] = item.Label
		exp.Items = append(exp.Items, ExportItem{
			Label:       item.Label,
			MediaLink:   item.MediaLink,
			Score:       item.Score,
			Comparisons: item.Comparisons,
		})
	}

	for _, cmp := range log {
		labelA, okA := labels[cmp.ItemA]
		labelB, okB := labels[cmp.ItemB]
		if !okA || !okB {
			continue
		}
		exp.Comparisons = append(exp.Comparisons, ExportComparison{
			ItemA:   labelA,
			ItemB:   labelB,
			Outcome: cmp.Outcome.String(),
		})
	}

	return exp, nil
}

// Import rebuilds a collection from an export blob. Items are re-created
// by label and the comparison log is replayed through the scoring
// policy, so scores and counts come out consistent with the restored
// history rather than being trusted from the blob. Rows referencing
// unknown labels, self-pairs, or unknown outcomes are skipped and
// counted.
func (s *Service) Import(ctx context.Context, exp Export) (ImportResult, error) {
	coll, err := s.store.CreateCollection(ctx, exp.Collection.Name)
	if err != nil {
		return ImportResult{}, err
	}

	byLabel := make(map[string]string, len(exp.Items))
	imported := 0
	for _, row := range exp.Items {
		item, err := s.store.AddItem(ctx, coll.ID, row.Label, normalizeMediaLink(row.MediaLink))
		if err != nil {
			s.logger.Warn(ctx, "skipping unimportable item",
				logger.String("label", row.Label),
				logger.Error(err),
			)
			continue
		}
		byLabel[item.Label] = item.ID
		imported++
	}

	restored, skipped := 0, 0
	for _, row := range exp.Comparisons {
		idA, okA := byLabel[row.ItemA]
		idB, okB := byLabel[row.ItemB]
		outcome, err := model.ParseOutcome(row.Outcome)
		if !okA || !okB || idA == idB || err != nil {
			skipped++
			continue
		}
		if _, err := s.RecordOutcome(ctx, coll.ID, idA, idB, outcome); err != nil {
			skipped++
			continue
		}
		restored++
	}

	coll.ItemCount = imported
	s.updateItemGauge(ctx)
	s.logger.Info(ctx, "collection imported",
		logger.String("collectionID", coll.ID),
		logger.Int("items", imported),
		logger.Int("comparisons", restored),
		logger.Int("skipped", skipped),
	)

	return ImportResult{
		Collection:          coll,
		ItemsImported:       imported,
		ComparisonsImported: restored,
		ComparisonsSkipped:  skipped,
	}, nil
}
