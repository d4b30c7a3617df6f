// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
)

// StylesHandler handles aggregate style count requests.
type StylesHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewStylesHandler creates a new styles handler.
func NewStylesHandler(deps Dependencies, maxLimit int) *StylesHandler {
	return &StylesHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleTopStyles handles GET /styles/top?limit=N requests.
func (h *StylesHandler) HandleTopStyles(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_top_styles"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limitStr := r.URL.Query().Get("limit")
	n, err := strconv.Atoi(limitStr)
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}
	counts, err := h.deps.TopStyles(r.Context(), n)
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}
