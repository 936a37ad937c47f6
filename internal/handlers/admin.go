package handlers

import (
	"net/http"
)

// handleGetSettings returns the current competition configuration
func (h *Handlers) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	respondOK(w, settingsResponse{
		Hours:       h.Settings.Hours(ctx),
		Sectors:     h.Settings.Sectors(ctx),
		ScoringOpen: h.Settings.IsScoringOpen(ctx),
		BaseURL:     h.Settings.BaseURL(ctx),
	})
}

// handleUpdateSettings applies a partial settings update
func (h *Handlers) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	ctx := r.Context()
	if req.Hours != nil {
		if *req.Hours < 1 {
			respondError(w, BadRequest("Hours must be positive"))
			return
		}
		if err := h.Settings.SetHours(ctx, *req.Hours); err != nil {
			respondError(w, InternalError(err))
			return
		}
	}
	if len(req.Sectors) > 0 {
		if err := h.Settings.SetSectors(ctx, req.Sectors); err != nil {
			respondError(w, InternalError(err))
			return
		}
	}
	if req.BaseURL != nil {
		if err := h.Settings.SetBaseURL(ctx, *req.BaseURL); err != nil {
			respondError(w, InternalError(err))
			return
		}
	}
	respondSuccess(w, "Settings updated")
}

// handleScoringControl opens or closes the scoring window
func (h *Handlers) handleScoringControl(w http.ResponseWriter, r *http.Request) {
	var req scoringControlRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Settings.SetScoringOpen(r.Context(), req.Open); err != nil {
		respondError(w, InternalError(err))
		return
	}
	if req.Open {
		respondSuccess(w, "Scoring opened")
	} else {
		respondSuccess(w, "Scoring closed")
	}
}

// handleGetQueueStatus reports the offline queue and connectivity state
func (h *Handlers) handleGetQueueStatus(w http.ResponseWriter, r *http.Request) {
	ops, err := h.Queue.List(r.Context())
	if err != nil {
		respondError(w, InternalError(err))
		return
	}
	respondOK(w, queueStatusResponse{
		Online: h.Monitor.Online(),
		Size:   len(ops),
		Ops:    ops,
	})
}

// handleReplayQueue forces a connectivity check and queue replay
// instead of waiting for the next monitor tick
func (h *Handlers) handleReplayQueue(w http.ResponseWriter, r *http.Request) {
	h.Monitor.Check(r.Context())

	size, err := h.Queue.Size(r.Context())
	if err != nil {
		respondError(w, InternalError(err))
		return
	}
	respondOK(w, queueStatusResponse{
		Online: h.Monitor.Online(),
		Size:   size,
	})
}
