// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
)

// RankingHandler handles ranking and progress reads.
type RankingHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewRankingHandler creates a new ranking handler.
func NewRankingHandler(deps Dependencies, maxLimit int) *RankingHandler {
	return &RankingHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleRanking handles GET /api/collections/{id}/ranking?limit=N
// requests. Omitting limit returns every entry.
func (h *RankingHandler) HandleRanking(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", ErrBadRequest)
			return
		}
		limit = n
	}

	entries, err := h.deps.Ranking(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleProgress handles GET /api/collections/{id}/progress requests.
func (h *RankingHandler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.deps.Progress(r.Context(), r.PathValue("id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}
