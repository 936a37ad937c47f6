package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"sort"
	"strconv"

	apperrors "github.com/mhruby/catchboard/internal/errors"
	"github.com/mhruby/catchboard/internal/logger"
	"github.com/mhruby/catchboard/internal/models"
	"github.com/mhruby/catchboard/internal/repository"
)

// StandingsService projects the denormalized competitor fields into
// sector leaderboards. It never computes scores itself; the recompute
// scheduler already wrote them.
type StandingsService struct {
	log      logger.Logger
	repo     repository.CompetitorRepository
	settings *SettingsService
}

// NewStandingsService creates a new StandingsService
func NewStandingsService(log logger.Logger, repo repository.CompetitorRepository, settings *SettingsService) *StandingsService {
	return &StandingsService{log: log, repo: repo, settings: settings}
}

// SectorStandings returns one sector's leaderboard ordered by rank.
// Competitors not yet ranked (no recompute has run over them) sort
// last by box number.
func (s *StandingsService) SectorStandings(ctx context.Context, sector string) ([]models.Standing, error) {
	if !s.settings.ValidSector(ctx, sector) {
		return nil, apperrors.NotFoundf("unknown sector %q", sector)
	}
	competitors, err := s.repo.ListCompetitorsBySector(ctx, sector)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	standings := make([]models.Standing, 0, len(competitors))
	for _, c := range competitors {
		if c.Status != models.CompetitorActive {
			continue
		}
		standings = append(standings, models.Standing{
			CompetitorID: c.ID,
			BoxCode:      c.BoxCode(),
			FullName:     c.FullName,
			Team:         c.Team,
			FishCount:    c.TotalFishCount,
			TotalWeight:  c.TotalWeight,
			BiggestCatch: c.BiggestCatch,
			Points:       c.Points,
			Coefficient:  c.SectorCoefficient,
			Rank:         c.SectorRank,
		})
	}

	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Rank != b.Rank {
			if a.Rank == 0 {
				return false
			}
			if b.Rank == 0 {
				return true
			}
			return a.Rank < b.Rank
		}
		return a.BoxCode < b.BoxCode
	})
	return standings, nil
}

// ExportCSV renders one sector's standings as CSV with a trailing
// totals row. The totals row sums fish, weight, and points, takes the
// largest big catch, and renders a dash for coefficient and rank since
// neither sums meaningfully.
func (s *StandingsService) ExportCSV(ctx context.Context, sector string) ([]byte, error) {
	standings, err := s.SectorStandings(ctx, sector)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Rank", "Box", "Name", "Team", "Fish", "Weight (g)", "Biggest Catch (g)", "Points", "Coefficient"}
	if err := w.Write(header); err != nil {
		return nil, apperrors.Internal(err)
	}

	var totalFish, totalWeight, totalPoints, maxBiggest int
	for _, row := range standings {
		record := []string{
			strconv.Itoa(row.Rank),
			row.BoxCode,
			row.FullName,
			row.Team,
			strconv.Itoa(row.FishCount),
			strconv.Itoa(row.TotalWeight),
			strconv.Itoa(row.BiggestCatch),
			strconv.Itoa(row.Points),
			strconv.FormatFloat(row.Coefficient, 'f', 2, 64),
		}
		if err := w.Write(record); err != nil {
			return nil, apperrors.Internal(err)
		}
		totalFish += row.FishCount
		totalWeight += row.TotalWeight
		totalPoints += row.Points
		if row.BiggestCatch > maxBiggest {
			maxBiggest = row.BiggestCatch
		}
	}

	totals := []string{
		"—", "TOTAL", "", "",
		strconv.Itoa(totalFish),
		strconv.Itoa(totalWeight),
		strconv.Itoa(maxBiggest),
		strconv.Itoa(totalPoints),
		"—",
	}
	if err := w.Write(totals); err != nil {
		return nil, apperrors.Internal(err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperrors.Internal(err)
	}
	return buf.Bytes(), nil
}
