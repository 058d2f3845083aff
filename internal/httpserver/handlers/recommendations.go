package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrSnakeDoc/harunode/internal/domain"
	"github.com/MrSnakeDoc/harunode/internal/httpserver/deps"
	"github.com/MrSnakeDoc/harunode/internal/recommend"
)

type recommendRequest struct {
	SessionID string   `json:"session_id"`
	Mood      string   `json:"mood"`
	Tags      []string `json:"tags"`
	Note      string   `json:"note"`
}

type recommendResponse struct {
	SessionID string `json:"session_id"`
	Ordinal   int    `json:"ordinal"`
	recommend.Result
}

// Recommend returns the next batch for a session. A missing session_id
// starts a new session whose id is returned for later refreshes.
func Recommend(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recommendRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, d.Logger, http.StatusBadRequest, err.Error())
			return
		}

		mood, err := domain.ParseMood(req.Mood)
		if err != nil {
			writeError(w, d.Logger, http.StatusBadRequest, err.Error())
			return
		}

		id := strings.TrimSpace(req.SessionID)
		if id == "" {
			id = uuid.NewString()
		}
		sess := d.Sessions.Get(id)

		res := d.Engine.Recommend(r.Context(), sess, recommend.Request{
			Mood: mood,
			Tags: req.Tags,
			Note: req.Note,
		})

		writeJSON(w, d.Logger, http.StatusOK, recommendResponse{
			SessionID: id,
			Ordinal:   sess.Ordinal(),
			Result:    res,
		})
	}
}

// EndSession forgets a recommendation session, clearing its buffer.
func EndSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !d.Sessions.Drop(chi.URLParam(r, "id")) {
			writeError(w, d.Logger, http.StatusNotFound, "session not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
