package scoring

import (
	"math"
	"reflect"
	"testing"

	"github.com/mhruby/catchboard/internal/models"
)

func TestPoints(t *testing.T) {
	tests := []struct {
		fish, weight, want int
	}{
		{0, 0, 0},
		{3, 450, 600},
		{1, 0, 50},
		{0, 999, 999},
		{5, 900, 1150},
	}
	for _, tt := range tests {
		if got := Points(tt.fish, tt.weight); got != tt.want {
			t.Errorf("Points(%d, %d) = %d, want %d", tt.fish, tt.weight, got, tt.want)
		}
	}
}

func TestRank_SectorScenario(t *testing.T) {
	// Sector A: X has three counted hourly entries and no big catch,
	// Y has one counted entry plus a locked_admin big catch.
	competitors := []models.Competitor{
		activeCompetitor("x", "A", 1),
		activeCompetitor("y", "A", 2),
	}
	hourly := []models.HourlyEntry{
		{Sector: "A", Hour: 1, CompetitorID: "x", FishCount: 2, TotalWeight: 300, Status: models.StatusLockedJudge, Timestamp: 100},
		{Sector: "A", Hour: 2, CompetitorID: "x", FishCount: 1, TotalWeight: 100, Status: models.StatusLockedJudge, Timestamp: 200},
		{Sector: "A", Hour: 3, CompetitorID: "x", FishCount: 0, TotalWeight: 0, Status: models.StatusLockedJudge, Timestamp: 300},
		{Sector: "A", Hour: 1, CompetitorID: "y", FishCount: 5, TotalWeight: 900, Status: models.StatusLockedJudge, Timestamp: 150},
	}
	bigs := []models.BigCatchEntry{
		{Sector: "A", CompetitorID: "y", BiggestCatch: 1200, Status: models.StatusLockedAdmin, Timestamp: 400},
	}

	scored := Rank(Aggregate("A", competitors, hourly, bigs, 7))
	if len(scored) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(scored))
	}

	byID := map[string]ScoredRow{}
	for _, r := range scored {
		byID[r.CompetitorID] = r
	}

	x, y := byID["x"], byID["y"]
	if x.FishCount != 3 || x.TotalWeight != 400 || x.Points != 550 {
		t.Errorf("X = fish %d weight %d points %d, want 3/400/550", x.FishCount, x.TotalWeight, x.Points)
	}
	if y.FishCount != 5 || y.TotalWeight != 900 || y.Points != 1150 {
		t.Errorf("Y = fish %d weight %d points %d, want 5/900/1150", y.FishCount, y.TotalWeight, y.Points)
	}
	if y.BiggestCatch != 1200 {
		t.Errorf("Y biggest catch = %d, want 1200", y.BiggestCatch)
	}
	if x.BiggestCatch != 0 {
		t.Errorf("X biggest catch = %d, want 0", x.BiggestCatch)
	}

	// sectorTotalFishCount = 8
	if math.Abs(x.Coefficient-206.25) > 1e-9 {
		t.Errorf("X coefficient = %v, want 206.25", x.Coefficient)
	}
	if math.Abs(y.Coefficient-718.75) > 1e-9 {
		t.Errorf("Y coefficient = %v, want 718.75", y.Coefficient)
	}

	if y.Rank != 1 || x.Rank != 2 {
		t.Errorf("ranks: Y=%d X=%d, want 1 and 2", y.Rank, x.Rank)
	}
}

func TestRank_ZeroSectorTotalFish(t *testing.T) {
	rows := []AggregateRow{
		{CompetitorID: "c1", BoxNumber: 1, FishCount: 0, TotalWeight: 0},
		{CompetitorID: "c2", BoxNumber: 2, FishCount: 0, TotalWeight: 0},
	}

	scored := Rank(rows)
	for _, r := range scored {
		if r.Coefficient != 0 {
			t.Errorf("competitor %s coefficient = %v, want 0 when sector total is 0", r.CompetitorID, r.Coefficient)
		}
	}
}

func TestRank_DenseRanks(t *testing.T) {
	rows := []AggregateRow{
		{CompetitorID: "c1", BoxNumber: 1, FishCount: 3, TotalWeight: 500, LastValidEntryTimestamp: 100},
		{CompetitorID: "c2", BoxNumber: 2, FishCount: 3, TotalWeight: 500, LastValidEntryTimestamp: 100},
		{CompetitorID: "c3", BoxNumber: 3, FishCount: 3, TotalWeight: 500, LastValidEntryTimestamp: 100},
		{CompetitorID: "c4", BoxNumber: 4, FishCount: 1, TotalWeight: 50, LastValidEntryTimestamp: 100},
	}

	scored := Rank(rows)
	seen := map[int]bool{}
	for _, r := range scored {
		if r.Rank < 1 || r.Rank > len(rows) {
			t.Errorf("rank %d out of range 1..%d", r.Rank, len(rows))
		}
		if seen[r.Rank] {
			t.Errorf("rank %d assigned twice", r.Rank)
		}
		seen[r.Rank] = true
	}
	if len(seen) != len(rows) {
		t.Errorf("expected %d distinct ranks, got %d", len(rows), len(seen))
	}
}

func TestRank_TieBreakOrder(t *testing.T) {
	// Equal points: heavier total weight wins; then the earlier last
	// counted entry; then the lower box number.
	rows := []AggregateRow{
		// points = 4*50 + 300 = 500
		{CompetitorID: "lightLate", BoxNumber: 4, FishCount: 4, TotalWeight: 300, LastValidEntryTimestamp: 900},
		// points = 2*50 + 400 = 500
		{CompetitorID: "heavy", BoxNumber: 3, FishCount: 2, TotalWeight: 400, LastValidEntryTimestamp: 500},
		// points = 500, same weight as lightLate but earlier timestamp
		{CompetitorID: "lightEarly", BoxNumber: 2, FishCount: 4, TotalWeight: 300, LastValidEntryTimestamp: 100},
		// points = 500, identical to lightEarly except box number
		{CompetitorID: "lightEarlyHighBox", BoxNumber: 5, FishCount: 4, TotalWeight: 300, LastValidEntryTimestamp: 100},
	}

	scored := Rank(rows)
	order := make([]string, len(scored))
	for i, r := range scored {
		order[i] = r.CompetitorID
	}
	want := []string{"heavy", "lightEarly", "lightEarlyHighBox", "lightLate"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("tie-break order = %v, want %v", order, want)
	}
}

func TestRank_NoCountedEntriesSortsLast(t *testing.T) {
	rows := []AggregateRow{
		{CompetitorID: "empty", BoxNumber: 1, FishCount: 0, TotalWeight: 0, LastValidEntryTimestamp: 0},
		{CompetitorID: "scorer", BoxNumber: 2, FishCount: 1, TotalWeight: 10, LastValidEntryTimestamp: 100},
	}

	scored := Rank(rows)
	if scored[0].CompetitorID != "scorer" || scored[1].CompetitorID != "empty" {
		t.Errorf("competitor with no counted entries should rank last: %+v", scored)
	}
}

func TestRank_Idempotent(t *testing.T) {
	rows := []AggregateRow{
		{CompetitorID: "c1", BoxNumber: 1, FishCount: 2, TotalWeight: 300, LastValidEntryTimestamp: 10},
		{CompetitorID: "c2", BoxNumber: 2, FishCount: 5, TotalWeight: 900, LastValidEntryTimestamp: 20},
		{CompetitorID: "c3", BoxNumber: 3, FishCount: 5, TotalWeight: 900, LastValidEntryTimestamp: 30},
	}

	first := Rank(rows)
	second := Rank(rows)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("ranking is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}
