package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleGetSectors lists the configured sector labels
func (h *Handlers) handleGetSectors(w http.ResponseWriter, r *http.Request) {
	respondOK(w, map[string]interface{}{
		"sectors":      h.Settings.Sectors(r.Context()),
		"hours":        h.Settings.Hours(r.Context()),
		"scoring_open": h.Settings.IsScoringOpen(r.Context()),
	})
}

// handleGetStandings returns one sector's live leaderboard
func (h *Handlers) handleGetStandings(w http.ResponseWriter, r *http.Request) {
	sector := chi.URLParam(r, "sector")
	rows, err := h.Standings.SectorStandings(r.Context(), sector)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, standingsResponse{Sector: sector, Rows: rows})
}

// handleExportStandingsCSV downloads one sector's standings as CSV
func (h *Handlers) handleExportStandingsCSV(w http.ResponseWriter, r *http.Request) {
	sector := chi.URLParam(r, "sector")
	data, err := h.Standings.ExportCSV(r.Context(), sector)
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="standings-%s.csv"`, sector))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// handleHealthz is the liveness probe
func (h *Handlers) handleHealthz(w http.ResponseWriter, r *http.Request) {
	respondOK(w, map[string]interface{}{
		"status":     "ok",
		"online":     h.Monitor.Online(),
		"scoreboard": h.Client.BaseURL(),
	})
}
