package handlers

import "github.com/mhruby/catchboard/internal/models"

// loginResponse reports the granted role after login
type loginResponse struct {
	Role string `json:"role"`
}

// standingsResponse is one sector's leaderboard
type standingsResponse struct {
	Sector string            `json:"sector"`
	Rows   []models.Standing `json:"rows"`
}

// entryResponse wraps an accepted score write. Queued reports that the
// upstream push was captured by the offline queue.
type entryResponse struct {
	Entry  interface{} `json:"entry"`
	Queued bool        `json:"queued"`
	Status string      `json:"status"`
}

// settingsResponse is the current competition configuration
type settingsResponse struct {
	Hours       int      `json:"hours"`
	Sectors     []string `json:"sectors"`
	ScoringOpen bool     `json:"scoring_open"`
	BaseURL     string   `json:"base_url"`
}

// queueStatusResponse describes the offline queue
type queueStatusResponse struct {
	Online bool              `json:"online"`
	Size   int               `json:"size"`
	Ops    []models.QueuedOp `json:"ops,omitempty"`
}
