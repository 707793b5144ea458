// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/ranqr/internal/domain/ranking"
)

// CollectionsHandler handles collection lifecycle requests.
type CollectionsHandler struct {
	deps Dependencies
}

// NewCollectionsHandler creates a new collections handler.
func NewCollectionsHandler(deps Dependencies) *CollectionsHandler {
	return &CollectionsHandler{deps: deps}
}

// createCollectionRequest mirrors the body of POST /api/collections.
// Items is a newline-separated blob; blank lines are ignored.
type createCollectionRequest struct {
	Name  string `json:"name"`
	Items string `json:"items"`
}

func (c createCollectionRequest) validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("missing name")
	}
	return nil
}

type createCollectionResponse struct {
	Collection collectionResponse `json:"collection"`
	Items      []itemResponse     `json:"items"`
}

// collectionDetailResponse is the wire shape of a single-collection
// read: metadata plus the current ranking and comparison count.
type collectionDetailResponse struct {
	Collection  collectionResponse `json:"collection"`
	Ranking     []ranking.Entry    `json:"ranking"`
	Comparisons int                `json:"comparisons"`
}

// HandleList handles GET /api/collections requests.
func (h *CollectionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	colls, err := h.deps.Collections(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	out := make([]collectionResponse, 0, len(colls))
	for _, c := range colls {
		out = append(out, toCollectionResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleCreate handles POST /api/collections requests.
func (h *CollectionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	coll, items, err := h.deps.CreateCollection(r.Context(), req.Name, req.Items)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createCollectionResponse{
		Collection: toCollectionResponse(coll),
		Items:      toItemResponses(items),
	})
}

// HandleGet handles GET /api/collections/{id} requests. The detail
// view bundles the current ranking and comparison count so one call
// renders a whole collection page.
func (h *CollectionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	coll, err := h.deps.Collection(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	entries, err := h.deps.Ranking(r.Context(), id, 0)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	prog, err := h.deps.Progress(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, collectionDetailResponse{
		Collection:  toCollectionResponse(coll),
		Ranking:     entries,
		Comparisons: prog.Made,
	})
}

// HandleDelete handles DELETE /api/collections/{id} requests.
func (h *CollectionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteCollection(r.Context(), r.PathValue("id")); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
