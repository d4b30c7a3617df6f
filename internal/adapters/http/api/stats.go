// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/domain/types"
)

// StatsProvider supplies the monitoring view served on /stats.
type StatsProvider interface {
	GetStats() types.ServiceStats
}

// StatsHandler serves the typed service statistics.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.statsProvider.GetStats())
}
