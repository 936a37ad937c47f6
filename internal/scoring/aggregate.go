// Package scoring holds the aggregation and ranking engines. Both are
// pure functions over snapshots of entry data, so the recompute
// scheduler (and any test) can invoke them without a store or a UI.
package scoring

import (
	"sort"

	"github.com/mhruby/catchboard/internal/models"
)

// AggregateRow is the per-competitor fold of all counted entries in
// one sector.
type AggregateRow struct {
	CompetitorID            string
	BoxNumber               int
	FishCount               int
	TotalWeight             int
	BiggestCatch            int
	LastValidEntryTimestamp int64 // unix ms, 0 when no counted entry exists
}

// Aggregate folds the hourly and big-catch entries of one sector into
// one row per active competitor. Only entries whose status is counted
// contribute; entries referencing unknown competitors or out-of-range
// hours are skipped silently. Re-running on the same snapshot yields
// the same output: rows come back ordered by box number.
func Aggregate(sector string, competitors []models.Competitor, hourly []models.HourlyEntry, bigCatches []models.BigCatchEntry, hours int) []AggregateRow {
	active := make(map[string]models.Competitor)
	for _, c := range competitors {
		if c.Sector == sector && c.Status == models.CompetitorActive {
			active[c.ID] = c
		}
	}

	rows := make(map[string]*AggregateRow, len(active))
	for id, c := range active {
		rows[id] = &AggregateRow{CompetitorID: id, BoxNumber: c.BoxNumber}
	}

	for _, e := range hourly {
		if e.Sector != sector || !e.Status.Counted() {
			continue
		}
		if e.Hour < 1 || e.Hour > hours {
			continue
		}
		row, ok := rows[e.CompetitorID]
		if !ok {
			// Orphaned entry; tolerated data-quality issue.
			continue
		}
		row.FishCount += e.FishCount
		row.TotalWeight += e.TotalWeight
		if e.Timestamp > row.LastValidEntryTimestamp {
			row.LastValidEntryTimestamp = e.Timestamp
		}
	}

	for _, e := range bigCatches {
		if e.Sector != sector || !e.Status.Counted() {
			continue
		}
		row, ok := rows[e.CompetitorID]
		if !ok {
			continue
		}
		// At most one big-catch record exists per competitor, so this
		// is a plain set, not a max.
		row.BiggestCatch = e.BiggestCatch
		if e.Timestamp > row.LastValidEntryTimestamp {
			row.LastValidEntryTimestamp = e.Timestamp
		}
	}

	out := make([]AggregateRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].BoxNumber < out[j].BoxNumber
	})
	return out
}
