package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/harunode/internal/domain"
	"github.com/MrSnakeDoc/harunode/internal/httpserver/deps"
)

type insightResponse struct {
	domain.Insight
	Cached      bool               `json:"cached"`
	Fingerprint domain.Fingerprint `json:"fingerprint"`
}

// Insights serves the analysis for the current log, computing it on a cache miss.
func Insights(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries := d.Journal.Entries()
		ins, cached := d.Insights.GetOrCompute(r.Context(), entries)

		writeJSON(w, d.Logger, http.StatusOK, insightResponse{
			Insight:     ins,
			Cached:      cached,
			Fingerprint: domain.FingerprintOf(entries),
		})
	}
}
