// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// ItemsHandler handles item mutation requests.
type ItemsHandler struct {
	deps Dependencies
}

// NewItemsHandler creates a new items handler.
func NewItemsHandler(deps Dependencies) *ItemsHandler {
	return &ItemsHandler{deps: deps}
}

// addItemsRequest mirrors the body of POST /api/collections/{id}/items.
type addItemsRequest struct {
	Items string `json:"items"`
}

func (a addItemsRequest) validate() error {
	if strings.TrimSpace(a.Items) == "" {
		return errors.New("missing items")
	}
	return nil
}

// updateItemRequest mirrors the body of PATCH .../items/{itemID}.
// Absent fields are left untouched.
type updateItemRequest struct {
	Label     *string `json:"label"`
	MediaLink *string `json:"media_link"`
}

// HandleAdd handles POST /api/collections/{id}/items requests.
func (h *ItemsHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req addItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	items, err := h.deps.AddItems(r.Context(), r.PathValue("id"), req.Items)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemResponses(items))
}

// HandleUpdate handles PATCH /api/collections/{id}/items/{itemID} requests.
func (h *ItemsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if req.Label == nil && req.MediaLink == nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("nothing to update"))
		return
	}

	item, err := h.deps.UpdateItem(r.Context(), r.PathValue("id"), r.PathValue("itemID"), req.Label, req.MediaLink)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}
