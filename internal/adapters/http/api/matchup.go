// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/ranqr/internal/domain/model"
)

// MatchupHandler handles matchup selection and outcome recording.
type MatchupHandler struct {
	deps Dependencies
}

// NewMatchupHandler creates a new matchup handler.
func NewMatchupHandler(deps Dependencies) *MatchupHandler {
	return &MatchupHandler{deps: deps}
}

// matchupResponse is the wire shape of GET .../matchup. Available is
// false when the collection has fewer than two items.
type matchupResponse struct {
	Available bool          `json:"available"`
	ItemA     *itemResponse `json:"item_a,omitempty"`
	ItemB     *itemResponse `json:"item_b,omitempty"`
}

// outcomeRequest mirrors the body of POST .../matchup.
type outcomeRequest struct {
	ItemA   string `json:"item_a"`
	ItemB   string `json:"item_b"`
	Outcome string `json:"outcome"`
}

func (o outcomeRequest) validate() error {
	switch {
	case strings.TrimSpace(o.ItemA) == "":
		return errors.New("missing item_a")
	case strings.TrimSpace(o.ItemB) == "":
		return errors.New("missing item_b")
	case strings.TrimSpace(o.Outcome) == "":
		return errors.New("missing outcome")
	}
	return nil
}

type outcomeResponse struct {
	Status  string `json:"status"`
	Seq     uint64 `json:"seq"`
	ItemA   string `json:"item_a"`
	ItemB   string `json:"item_b"`
	Outcome string `json:"outcome"`
}

// HandleNext handles GET /api/collections/{id}/matchup requests.
func (h *MatchupHandler) HandleNext(w http.ResponseWriter, r *http.Request) {
	pair, ok, err := h.deps.NextMatchup(r.Context(), r.PathValue("id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, matchupResponse{Available: false})
		return
	}

	a := toItemResponse(pair.A)
	b := toItemResponse(pair.B)
	writeJSON(w, http.StatusOK, matchupResponse{Available: true, ItemA: &a, ItemB: &b})
}

// HandleRecord handles POST /api/collections/{id}/matchup requests.
func (h *MatchupHandler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	var req outcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	outcome, err := model.ParseOutcome(req.Outcome)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	cmp, err := h.deps.RecordOutcome(r.Context(), r.PathValue("id"), req.ItemA, req.ItemB, outcome)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcomeResponse{
		Status:  "recorded",
		Seq:     cmp.Seq,
		ItemA:   cmp.ItemA,
		ItemB:   cmp.ItemB,
		Outcome: cmp.Outcome.String(),
	})
}
