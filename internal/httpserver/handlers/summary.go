package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/harunode/internal/domain"
	"github.com/MrSnakeDoc/harunode/internal/httpserver/deps"
)

type badgeStatus struct {
	domain.BadgeInfo
	Earned bool `json:"earned"`
}

type achievementsResponse struct {
	Earned []domain.Badge `json:"earned"`
	Badges []badgeStatus  `json:"badges"`
}

// Achievements lists the whole badge catalog with the earned flag set.
func Achievements(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		set := d.Journal.Achievements()

		badges := make([]badgeStatus, 0, len(domain.BadgeCatalog))
		for _, info := range domain.BadgeCatalog {
			badges = append(badges, badgeStatus{BadgeInfo: info, Earned: set.Has(info.ID)})
		}
		earned := set.List()
		if earned == nil {
			earned = []domain.Badge{}
		}

		writeJSON(w, d.Logger, http.StatusOK, achievementsResponse{Earned: earned, Badges: badges})
	}
}

func Stats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, d.Logger, http.StatusOK, domain.Summarize(d.Journal.Entries()))
	}
}
