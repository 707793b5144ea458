// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	repository "github.com/okian/ranqr/internal/adapters/repository"
	service "github.com/okian/ranqr/internal/app"
	"github.com/okian/ranqr/internal/domain/model"
	"github.com/okian/ranqr/internal/domain/ranking"
	"github.com/okian/ranqr/internal/domain/selector"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the engine implementation.
type Dependencies interface {
	CreateCollection(ctx context.Context, name, itemsBlob string) (model.Collection, []model.Item, error)
	Collections(ctx context.Context) ([]model.Collection, error)
	Collection(ctx context.Context, collectionID string) (model.Collection, error)
	DeleteCollection(ctx context.Context, collectionID string) error

	AddItems(ctx context.Context, collectionID, itemsBlob string) ([]model.Item, error)
	UpdateItem(ctx context.Context, collectionID, itemID string, label, mediaLink *string) (model.Item, error)

	NextMatchup(ctx context.Context, collectionID string) (selector.Pair, bool, error)
	RecordOutcome(ctx context.Context, collectionID, itemA, itemB string, outcome model.Outcome) (model.Comparison, error)

	Ranking(ctx context.Context, collectionID string, limit int) ([]ranking.Entry, error)
	Progress(ctx context.Context, collectionID string) (ranking.Progress, error)

	Export(ctx context.Context, collectionID string) (service.Export, error)
	Import(ctx context.Context, exp service.Export) (service.ImportResult, error)
}

// Export mirrors the transfer blob shape returned by export queries.
type Export = service.Export

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	collectionsHandler *CollectionsHandler
	itemsHandler       *ItemsHandler
	matchupHandler     *MatchupHandler
	rankingHandler     *RankingHandler
	transferHandler    *TransferHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxRankingLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		collectionsHandler: NewCollectionsHandler(deps),
		itemsHandler:       NewItemsHandler(deps),
		matchupHandler:     NewMatchupHandler(deps),
		rankingHandler:     NewRankingHandler(deps, maxRankingLimit),
		transferHandler:    NewTransferHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /api/collections", MetricsMiddleware(s.collectionsHandler.HandleList, "collections"))
	mux.HandleFunc("POST /api/collections", MetricsMiddleware(s.collectionsHandler.HandleCreate, "collections"))
	mux.HandleFunc("GET /api/collections/{id}", MetricsMiddleware(s.collectionsHandler.HandleGet, "collection"))
	mux.HandleFunc("DELETE /api/collections/{id}", MetricsMiddleware(s.collectionsHandler.HandleDelete, "collection"))

	mux.HandleFunc("POST /api/collections/{id}/items", MetricsMiddleware(s.itemsHandler.HandleAdd, "items"))
	mux.HandleFunc("PATCH /api/collections/{id}/items/{itemID}", MetricsMiddleware(s.itemsHandler.HandleUpdate, "items"))

	mux.HandleFunc("GET /api/collections/{id}/matchup", MetricsMiddleware(s.matchupHandler.HandleNext, "matchup"))
	mux.HandleFunc("POST /api/collections/{id}/matchup", MetricsMiddleware(s.matchupHandler.HandleRecord, "matchup"))

	mux.HandleFunc("GET /api/collections/{id}/ranking", MetricsMiddleware(s.rankingHandler.HandleRanking, "ranking"))
	mux.HandleFunc("GET /api/collections/{id}/progress", MetricsMiddleware(s.rankingHandler.HandleProgress, "progress"))

	mux.HandleFunc("GET /api/collections/{id}/export", MetricsMiddleware(s.transferHandler.HandleExport, "export"))
	mux.HandleFunc("POST /api/collections/import", MetricsMiddleware(s.transferHandler.HandleImport, "import"))
}

// collectionResponse is the wire shape of a collection.
type collectionResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ItemCount int    `json:"item_count"`
	CreatedAt string `json:"created_at"`
}

// itemResponse is the wire shape of an item.
type itemResponse struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	MediaLink   string `json:"media_link,omitempty"`
	Score       int    `json:"score"`
	Comparisons int    `json:"comparisons"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toCollectionResponse(c model.Collection) collectionResponse {
	return collectionResponse{
		ID:        c.ID,
		Name:      c.Name,
		ItemCount: c.ItemCount,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toItemResponse(i model.Item) itemResponse {
	return itemResponse{
		ID:          i.ID,
		Label:       i.Label,
		MediaLink:   i.MediaLink,
		Score:       i.Score,
		Comparisons: i.Comparisons,
	}
}

func toItemResponses(items []model.Item) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, i := range items {
		out = append(out, toItemResponse(i))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeEngineError translates engine sentinel errors to HTTP status codes.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrCollectionNotFound),
		errors.Is(err, repository.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, repository.ErrInvalidPair),
		errors.Is(err, repository.ErrInvalidOutcome),
		errors.Is(err, repository.ErrEmptyLabel),
		errors.Is(err, repository.ErrEmptyName):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
