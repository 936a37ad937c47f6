package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mhruby/catchboard/internal/models"
)

// handleListCompetitors lists every competitor, or one sector's when
// the sector query parameter is present
func (h *Handlers) handleListCompetitors(w http.ResponseWriter, r *http.Request) {
	if sector := r.URL.Query().Get("sector"); sector != "" {
		competitors, err := h.Competitors.ListBySector(r.Context(), sector)
		if err != nil {
			respondError(w, err)
			return
		}
		respondOK(w, competitors)
		return
	}

	competitors, err := h.Competitors.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, competitors)
}

// handleGetCompetitor retrieves a single competitor
func (h *Handlers) handleGetCompetitor(w http.ResponseWriter, r *http.Request) {
	c, err := h.Competitors.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, c)
}

// handleRegisterCompetitor creates a new competitor
func (h *Handlers) handleRegisterCompetitor(w http.ResponseWriter, r *http.Request) {
	var req competitorRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	c, err := h.Competitors.Register(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, c)
}

// handleUpdateCompetitor edits a competitor's profile
func (h *Handlers) handleUpdateCompetitor(w http.ResponseWriter, r *http.Request) {
	var req competitorRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	c, err := h.Competitors.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, c)
}

// handleSetCompetitorStatus activates or deactivates a competitor
func (h *Handlers) handleSetCompetitorStatus(w http.ResponseWriter, r *http.Request) {
	var req competitorStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Competitors.SetStatus(r.Context(), chi.URLParam(r, "id"), models.CompetitorStatus(req.Status)); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Status updated")
}

// handleGetBoxCard renders the printable QR code for a competitor's box
func (h *Handlers) handleGetBoxCard(w http.ResponseWriter, r *http.Request) {
	png, err := h.Competitors.BoxCardPNG(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
