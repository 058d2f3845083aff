package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/harunode/internal/domain"
	"github.com/MrSnakeDoc/harunode/internal/httpserver/deps"
	"github.com/MrSnakeDoc/harunode/internal/logger"
)

type entriesResponse struct {
	Total   int                    `json:"total"`
	Entries []domain.ActivityEntry `json:"entries"`
}

// ListEntries returns the log newest first. ?limit=N keeps the N most recent
// entries and ?day=YYYY-MM-DD keeps one local calendar day.
func ListEntries(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		limit := d.Journal.Len()
		if v := q.Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				writeError(w, d.Logger, http.StatusBadRequest, "limit must be a non-negative integer")
				return
			}
			limit = n
		}

		entries := d.Journal.Recent(d.Journal.Len())
		if v := q.Get("day"); v != "" {
			day, err := time.ParseInLocation("2006-01-02", v, d.Journal.Location())
			if err != nil {
				writeError(w, d.Logger, http.StatusBadRequest, "day must be formatted as YYYY-MM-DD")
				return
			}
			entries = domain.EntriesOnDay(entries, day, d.Journal.Location())
		}
		if len(entries) > limit {
			entries = entries[:limit]
		}
		if entries == nil {
			entries = []domain.ActivityEntry{}
		}

		writeJSON(w, d.Logger, http.StatusOK, entriesResponse{Total: d.Journal.Len(), Entries: entries})
	}
}

func CreateEntry(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var draft domain.EntryDraft
		if err := decodeJSON(r, &draft); err != nil {
			writeError(w, d.Logger, http.StatusBadRequest, err.Error())
			return
		}

		entry, err := d.Journal.Add(r.Context(), draft)
		if err != nil {
			writeEntryError(w, d, err)
			return
		}
		writeJSON(w, d.Logger, http.StatusCreated, entry)
	}
}

func UpdateEntry(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var patch domain.EntryPatch
		if err := decodeJSON(r, &patch); err != nil {
			writeError(w, d.Logger, http.StatusBadRequest, err.Error())
			return
		}

		entry, found, err := d.Journal.Update(r.Context(), id, patch)
		switch {
		case err != nil:
			writeEntryError(w, d, err)
		case !found:
			writeError(w, d.Logger, http.StatusNotFound, fmt.Sprintf("entry %q not found", id))
		default:
			writeJSON(w, d.Logger, http.StatusOK, entry)
		}
	}
}

func DeleteEntry(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !d.Journal.Delete(r.Context(), id) {
			writeError(w, d.Logger, http.StatusNotFound, fmt.Sprintf("entry %q not found", id))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ImportEntries merges a JSON array of entries, skipping ids already present.
func ImportEntries(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var incoming []domain.ActivityEntry
		if err := decodeJSON(r, &incoming); err != nil {
			writeError(w, d.Logger, http.StatusBadRequest, err.Error())
			return
		}

		res := d.Journal.MergeImport(r.Context(), incoming)
		d.Logger.Info("entries imported",
			logger.Int("added", res.Added),
			logger.Int("skipped", res.Skipped),
			logger.Int("invalid", res.Invalid))
		writeJSON(w, d.Logger, http.StatusOK, res)
	}
}

// ExportEntries downloads the whole log in append order, ready for ImportEntries.
func ExportEntries(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := fmt.Sprintf("harunode-%s.json", d.Now().In(d.Journal.Location()).Format("20060102"))
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		writeJSON(w, d.Logger, http.StatusOK, d.Journal.Entries())
	}
}

func writeEntryError(w http.ResponseWriter, d deps.Deps, err error) {
	if errors.Is(err, domain.ErrInvalidEntry) {
		writeError(w, d.Logger, http.StatusBadRequest, err.Error())
		return
	}
	d.Logger.Error("entry operation failed", logger.Error(err))
	writeError(w, d.Logger, http.StatusInternalServerError, "internal error")
}
