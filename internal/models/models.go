package models

import "fmt"

// Competitor is a registered participant. The scoring fields
// (TotalFishCount through SectorRank) are denormalized output of the
// recompute scheduler; no other writer may touch them.
type Competitor struct {
	ID        string           `json:"id"`
	Sector    string           `json:"sector"`
	BoxNumber int              `json:"box_number"`
	FullName  string           `json:"full_name"`
	Team      string           `json:"team,omitempty"`
	PhotoURL  string           `json:"photo_url,omitempty"`
	Status    CompetitorStatus `json:"status"`

	TotalFishCount    int     `json:"total_fish_count"`
	TotalWeight       int     `json:"total_weight"`
	BiggestCatch      int     `json:"biggest_catch"`
	Points            int     `json:"points"`
	SectorCoefficient float64 `json:"sector_coefficient"`
	SectorRank        int     `json:"sector_rank"`

	UpdatedAt int64 `json:"updated_at"`
}

// BoxCode returns the display form of the competitor's position,
// derived from sector and box number. It is never stored as source of
// truth.
func (c Competitor) BoxCode() string {
	return BoxCode(c.Sector, c.BoxNumber)
}

// BoxCode derives the display code for a fishing position.
func BoxCode(sector string, boxNumber int) string {
	return fmt.Sprintf("%s%02d", sector, boxNumber)
}

// HourlyEntry is one judge/admin record of catches for a single
// competitor during a single hour slot. At most one record exists per
// (sector, hour, competitor); later writes overwrite earlier ones.
type HourlyEntry struct {
	ID           string `json:"id"`
	Sector       string `json:"sector"`
	Hour         int    `json:"hour"`
	CompetitorID string `json:"competitor_id"`
	FishCount    int    `json:"fish_count"`
	TotalWeight  int    `json:"total_weight"` // grams
	Status       Status `json:"status"`
	Source       Source `json:"source"`
	UpdatedBy    string `json:"updated_by"`
	Timestamp    int64  `json:"timestamp"` // unix milliseconds
}

// HourlyEntryID builds the deterministic document id for an hourly
// entry. Writes keyed by the same id merge, which keeps replays of the
// offline queue idempotent.
func HourlyEntryID(sector string, hour int, competitorID string) string {
	return fmt.Sprintf("%s-%d-%s", sector, hour, competitorID)
}

// BigCatchEntry records the single largest fish for a competitor
// across the whole competition. At most one record per competitor.
type BigCatchEntry struct {
	ID           string `json:"id"`
	Sector       string `json:"sector"`
	CompetitorID string `json:"competitor_id"`
	BiggestCatch int    `json:"biggest_catch"` // grams
	Status       Status `json:"status"`
	Source       Source `json:"source"`
	UpdatedBy    string `json:"updated_by"`
	Timestamp    int64  `json:"timestamp"` // unix milliseconds
}

// BigCatchEntryID builds the deterministic document id for a big-catch
// entry.
func BigCatchEntryID(sector, competitorID string) string {
	return fmt.Sprintf("%s-%s", sector, competitorID)
}

// Score is the bundle of denormalized scoring fields the recompute
// scheduler writes back onto a competitor.
type Score struct {
	TotalFishCount    int     `json:"total_fish_count"`
	TotalWeight       int     `json:"total_weight"`
	BiggestCatch      int     `json:"biggest_catch"`
	Points            int     `json:"points"`
	SectorCoefficient float64 `json:"sector_coefficient"`
	SectorRank        int     `json:"sector_rank"`
}

// Standing is one row of the public sector leaderboard, a read-only
// projection of already-computed competitor fields.
type Standing struct {
	CompetitorID string  `json:"competitor_id"`
	BoxCode      string  `json:"box_code"`
	FullName     string  `json:"full_name"`
	Team         string  `json:"team,omitempty"`
	FishCount    int     `json:"fish_count"`
	TotalWeight  int     `json:"total_weight"`
	BiggestCatch int     `json:"biggest_catch"`
	Points       int     `json:"points"`
	Coefficient  float64 `json:"coefficient"`
	Rank         int     `json:"rank"`
}

// QueuedOp is one buffered upstream write awaiting replay.
type QueuedOp struct {
	ID         int64  `json:"id"`
	OpType     string `json:"op_type"`
	Collection string `json:"collection"`
	DocID      string `json:"doc_id"`
	Payload    string `json:"payload"` // JSON-encoded field map
	EnqueuedAt int64  `json:"enqueued_at"`
}

// WSMessage is the envelope for every websocket broadcast.
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Collection names used for upstream sync and store subscriptions.
const (
	CollectionCompetitors   = "competitors"
	CollectionHourlyEntries = "hourly_entries"
	CollectionBigCatches    = "big_catches"
)
