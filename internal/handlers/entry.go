package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mhruby/catchboard/internal/auth"
	"github.com/mhruby/catchboard/internal/models"
	"github.com/mhruby/catchboard/internal/services"
)

// sourceFromSession maps the session role onto the entry attribution
func (h *Handlers) sourceFromSession(r *http.Request) models.Source {
	if role, ok := h.Auth.RoleFromRequest(r); ok && role == auth.RoleAdmin {
		return models.SourceAdmin
	}
	return models.SourceJudge
}

// handleWriteHourlyEntry accepts one hour's catch record for one
// competitor. A write that could not reach the scoreboard is answered
// with 202 Accepted: it is durable locally and queued for replay.
func (h *Handlers) handleWriteHourlyEntry(w http.ResponseWriter, r *http.Request) {
	var req hourlyEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	input := services.HourlyEntryInput{
		Sector:       chi.URLParam(r, "sector"),
		Hour:         req.Hour,
		CompetitorID: chi.URLParam(r, "competitorID"),
		FishCount:    req.FishCount,
		TotalWeight:  req.TotalWeight,
		Status:       models.Status(req.Status),
		Source:       h.sourceFromSession(r),
		UpdatedBy:    req.UpdatedBy,
	}
	entry, queued, err := h.Entries.WriteHourlyEntry(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := entryResponse{Entry: entry, Queued: queued, Status: "saved"}
	if queued {
		resp.Status = "queued"
		respondAccepted(w, resp)
		return
	}
	respondOK(w, resp)
}

// handleWriteBigCatch accepts a competitor's biggest-fish record
func (h *Handlers) handleWriteBigCatch(w http.ResponseWriter, r *http.Request) {
	var req bigCatchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	input := services.BigCatchInput{
		Sector:       chi.URLParam(r, "sector"),
		CompetitorID: chi.URLParam(r, "competitorID"),
		BiggestCatch: req.BiggestCatch,
		Status:       models.Status(req.Status),
		Source:       h.sourceFromSession(r),
		UpdatedBy:    req.UpdatedBy,
	}
	entry, queued, err := h.Entries.WriteBigCatch(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := entryResponse{Entry: entry, Queued: queued, Status: "saved"}
	if queued {
		resp.Status = "queued"
		respondAccepted(w, resp)
		return
	}
	respondOK(w, resp)
}
