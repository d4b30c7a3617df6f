// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
)

// SelectionHandler handles answer toggle requests.
type SelectionHandler struct {
	deps Dependencies
}

// NewSelectionHandler creates a new selection handler.
func NewSelectionHandler(deps Dependencies) *SelectionHandler {
	return &SelectionHandler{deps: deps}
}

// HandlePostSelection handles POST /sessions/{id}/selections requests.
// A rejected toggle is a valid outcome, not an error: the response carries
// the rejection reason and the unchanged selection.
func (h *SelectionHandler) HandlePostSelection(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.post_selection"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	res, err := h.deps.Select(r.Context(), id, req.QuestionID, req.OptionID)
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
