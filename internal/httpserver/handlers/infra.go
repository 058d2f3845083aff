package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/harunode/internal/httpserver/deps"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Count      *int   `json:"count,omitempty"`
	LastReload string `json:"last_reload,omitempty"`
	Mode       string `json:"mode,omitempty"`
	Impact     string `json:"impact,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries := d.Journal.Len()
		sessions := d.Sessions.Len()

		components := map[string]componentStatus{
			"store":    checkStore(r.Context(), d),
			"journal":  {OK: true, Count: &entries},
			"keywords": checkKeywords(d),
			"catalog":  collaboratorStatus(d.CatalogReady, "recommendations-disabled"),
			"text":     collaboratorStatus(d.TextReady, "offline-keywords-and-quotes"),
			"sessions": {OK: true, Count: &sessions},
		}

		writeJSON(w, d.Logger, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

// determineMode: a dead store is critical, a missing collaborator only degrades.
func determineMode(components map[string]componentStatus) string {
	if s, ok := components["store"]; ok && !s.OK {
		return "critical"
	}
	for _, name := range []string{"catalog", "text", "keywords"} {
		if c, ok := components[name]; ok && !c.OK {
			return "degraded"
		}
	}
	return "optimal"
}

func checkStore(ctx context.Context, d deps.Deps) componentStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.KV.Ping(ctx); err != nil {
		return componentStatus{OK: false, Mode: d.StoreBackend, Impact: "entries-not-persisted", Error: err.Error()}
	}
	return componentStatus{OK: true, Mode: d.StoreBackend}
}

func checkKeywords(d deps.Deps) componentStatus {
	if d.Keywords == nil {
		return componentStatus{OK: true, Mode: "built-in"}
	}
	last, err := d.Keywords.Status()
	st := componentStatus{OK: err == nil, LastReload: "never"}
	if !last.IsZero() {
		st.LastReload = last.Format("2006-01-02 15:04:05")
	}
	if err != nil {
		st.Impact = "previous-tables-active"
		st.Error = err.Error()
	}
	return st
}

func collaboratorStatus(ready bool, impact string) componentStatus {
	if ready {
		return componentStatus{OK: true, Mode: "online"}
	}
	return componentStatus{OK: false, Mode: "offline", Impact: impact, Error: "not configured"}
}
