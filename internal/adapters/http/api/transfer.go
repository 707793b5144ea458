// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// TransferHandler handles collection export and import.
type TransferHandler struct {
	deps Dependencies
}

// NewTransferHandler creates a new transfer handler.
func NewTransferHandler(deps Dependencies) *TransferHandler {
	return &TransferHandler{deps: deps}
}

// HandleExport handles GET /api/collections/{id}/export requests.
func (h *TransferHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	exp, err := h.deps.Export(r.Context(), r.PathValue("id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", "attachment; filename=\"collection.json\"")
	writeJSON(w, http.StatusOK, exp)
}

// HandleImport handles POST /api/collections/import requests.
func (h *TransferHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	var exp Export
	if err := json.NewDecoder(r.Body).Decode(&exp); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if strings.TrimSpace(exp.Collection.Name) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing collection name"))
		return
	}

	result, err := h.deps.Import(r.Context(), exp)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}
