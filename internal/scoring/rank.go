package scoring

import "sort"

// Each fish is worth 50 points on top of one point per gram of weight.
// This is a domain rule of the competition format, not a tunable.
const pointsPerFish = 50

// ScoredRow is an aggregate row annotated with points, sector
// coefficient, and rank.
type ScoredRow struct {
	AggregateRow
	Points      int
	Coefficient float64
	Rank        int
}

// Points computes the raw point score for a fish count and weight.
func Points(fishCount, totalWeight int) int {
	return fishCount*pointsPerFish + totalWeight
}

// Rank derives points, sector coefficient, and dense ranks 1..N from
// the aggregate rows of one sector.
//
// The coefficient scales a competitor's points by their share of the
// sector's total catch volume: points * fishCount / sectorTotalFish.
// When the sector has caught nothing the coefficient is zero for
// everyone; there is no division by zero.
//
// Ordering is fully deterministic: points descending, then total
// weight descending, then the earlier last counted entry, then box
// number. Ranks are dense (1..N, no gaps, no sharing).
func Rank(rows []AggregateRow) []ScoredRow {
	sectorTotalFish := 0
	for _, r := range rows {
		sectorTotalFish += r.FishCount
	}

	scored := make([]ScoredRow, len(rows))
	for i, r := range rows {
		points := Points(r.FishCount, r.TotalWeight)
		coefficient := 0.0
		if sectorTotalFish > 0 {
			coefficient = float64(points) * float64(r.FishCount) / float64(sectorTotalFish)
		}
		scored[i] = ScoredRow{
			AggregateRow: r,
			Points:       points,
			Coefficient:  coefficient,
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.TotalWeight != b.TotalWeight {
			return a.TotalWeight > b.TotalWeight
		}
		if a.LastValidEntryTimestamp != b.LastValidEntryTimestamp {
			// Earlier timestamp wins the tie: the score was reached first.
			// A competitor with no counted entries (timestamp 0) sorts last.
			if a.LastValidEntryTimestamp == 0 {
				return false
			}
			if b.LastValidEntryTimestamp == 0 {
				return true
			}
			return a.LastValidEntryTimestamp < b.LastValidEntryTimestamp
		}
		return a.BoxNumber < b.BoxNumber
	})

	for i := range scored {
		scored[i].Rank = i + 1
	}
	return scored
}
