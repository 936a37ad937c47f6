// Package scheduler owns the denormalized scoring fields. It is the
// only writer of those fields: it listens for entry and competitor
// changes, recomputes every sector from the full current snapshot, and
// writes the results back through the store. Write-backs that change
// nothing publish nothing, which is what stops the recompute cycle
// from feeding itself.
package scheduler

import (
	"context"

	"github.com/mhruby/catchboard/internal/logger"
	"github.com/mhruby/catchboard/internal/models"
	"github.com/mhruby/catchboard/internal/scoring"
	"github.com/mhruby/catchboard/internal/store"
)

// Settings supplies the competition parameters a recompute needs.
type Settings interface {
	Hours(ctx context.Context) int
	Sectors(ctx context.Context) []string
}

// Broadcaster pushes fresh sector standings to connected viewers.
type Broadcaster interface {
	BroadcastStandings(sector string, rows []models.Standing)
}

// Pusher sends changed competitor documents to the upstream
// scoreboard. The offline syncer satisfies this.
type Pusher interface {
	Upsert(ctx context.Context, collection, docID string, fields map[string]interface{}) (queued bool, err error)
}

// Scheduler drives score recomputation off store snapshots.
type Scheduler struct {
	log         logger.Logger
	store       *store.Store
	settings    Settings
	broadcaster Broadcaster
	pusher      Pusher

	// Buffered to one: back-to-back snapshots coalesce into a single
	// pending recompute, which always reads the latest state anyway.
	events      chan struct{}
	unsubscribe []func()
}

// New creates a new Scheduler
func New(log logger.Logger, st *store.Store, settings Settings, broadcaster Broadcaster, pusher Pusher) *Scheduler {
	return &Scheduler{
		log:         log,
		store:       st,
		settings:    settings,
		broadcaster: broadcaster,
		pusher:      pusher,
		events:      make(chan struct{}, 1),
	}
}

// Start subscribes to the store and runs the recompute loop until the
// context is cancelled. An initial recompute is scheduled immediately
// so standings are correct after a restart.
func (s *Scheduler) Start(ctx context.Context) {
	s.unsubscribe = append(s.unsubscribe,
		s.store.SubscribeCompetitors(func([]models.Competitor) { s.notify() }),
		s.store.SubscribeHourlyEntries(func([]models.HourlyEntry) { s.notify() }),
		s.store.SubscribeBigCatches(func([]models.BigCatchEntry) { s.notify() }),
	)
	s.notify()
	go s.run(ctx)
}

func (s *Scheduler) notify() {
	select {
	case s.events <- struct{}{}:
	default:
	}
}

func (s *Scheduler) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for _, unsub := range s.unsubscribe {
				unsub()
			}
			s.log.Info("Recompute scheduler stopped")
			return
		case <-s.events:
			if err := s.Recompute(ctx); err != nil {
				s.log.Error("Score recompute failed", "error", err)
			}
		}
	}
}

// Recompute performs one full scoring pass over every sector: aggregate
// counted entries, derive points, coefficients, and ranks, write the
// results onto the competitors, push changed competitors upstream, and
// broadcast each sector's standings.
func (s *Scheduler) Recompute(ctx context.Context) error {
	competitors, err := s.store.ListCompetitors(ctx)
	if err != nil {
		return err
	}
	hourly, err := s.store.ListHourlyEntries(ctx)
	if err != nil {
		return err
	}
	bigCatches, err := s.store.ListBigCatches(ctx)
	if err != nil {
		return err
	}

	byID := make(map[string]models.Competitor, len(competitors))
	for _, c := range competitors {
		byID[c.ID] = c
	}

	hours := s.settings.Hours(ctx)
	for _, sector := range s.settings.Sectors(ctx) {
		rows := scoring.Aggregate(sector, competitors, hourly, bigCatches, hours)
		scored := scoring.Rank(rows)

		standings := make([]models.Standing, 0, len(scored))
		for _, row := range scored {
			score := models.Score{
				TotalFishCount:    row.FishCount,
				TotalWeight:       row.TotalWeight,
				BiggestCatch:      row.BiggestCatch,
				Points:            row.Points,
				SectorCoefficient: row.Coefficient,
				SectorRank:        row.Rank,
			}
			changed, err := s.store.UpdateCompetitorScore(ctx, row.CompetitorID, score)
			if err != nil {
				s.log.Error("Failed to write competitor score", "competitor_id", row.CompetitorID, "error", err)
				continue
			}
			if changed {
				s.pushScore(ctx, row.CompetitorID, score)
			}

			c := byID[row.CompetitorID]
			standings = append(standings, models.Standing{
				CompetitorID: row.CompetitorID,
				BoxCode:      models.BoxCode(sector, row.BoxNumber),
				FullName:     c.FullName,
				Team:         c.Team,
				FishCount:    row.FishCount,
				TotalWeight:  row.TotalWeight,
				BiggestCatch: row.BiggestCatch,
				Points:       row.Points,
				Coefficient:  row.Coefficient,
				Rank:         row.Rank,
			})
		}

		if s.broadcaster != nil {
			s.broadcaster.BroadcastStandings(sector, standings)
		}
	}
	return nil
}

func (s *Scheduler) pushScore(ctx context.Context, competitorID string, score models.Score) {
	if s.pusher == nil {
		return
	}
	fields := map[string]interface{}{
		"total_fish_count":   score.TotalFishCount,
		"total_weight":       score.TotalWeight,
		"biggest_catch":      score.BiggestCatch,
		"points":             score.Points,
		"sector_coefficient": score.SectorCoefficient,
		"sector_rank":        score.SectorRank,
	}
	queued, err := s.pusher.Upsert(ctx, models.CollectionCompetitors, competitorID, fields)
	if err != nil {
		s.log.Error("Failed to push competitor score upstream", "competitor_id", competitorID, "error", err)
		return
	}
	if queued {
		s.log.Debug("Competitor score queued for upstream sync", "competitor_id", competitorID)
	}
}
