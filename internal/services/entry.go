package services

import (
	"context"
	"time"

	apperrors "github.com/mhruby/catchboard/internal/errors"
	"github.com/mhruby/catchboard/internal/logger"
	"github.com/mhruby/catchboard/internal/models"
	"github.com/mhruby/catchboard/internal/repository"
	"github.com/mhruby/catchboard/internal/store"
)

// ErrScoringClosed is returned for any score write attempted while the
// scoring window is closed. Handlers map it to its own error code so
// judge devices can show the right message.
var ErrScoringClosed = apperrors.Conflict("scoring window is closed")

// ConnectivityProbe reports whether the upstream scoreboard is
// currently reachable. Entries accepted while it is not are marked
// with the offline variant of their status for the audit trail.
type ConnectivityProbe interface {
	Online() bool
}

// HourlyEntryInput carries one hour's catch record for one competitor.
type HourlyEntryInput struct {
	Sector       string        `json:"sector"`
	Hour         int           `json:"hour"`
	CompetitorID string        `json:"competitor_id"`
	FishCount    int           `json:"fish_count"`
	TotalWeight  int           `json:"total_weight"`
	Status       models.Status `json:"status"`
	Source       models.Source `json:"source"`
	UpdatedBy    string        `json:"updated_by"`
}

// BigCatchInput carries a competitor's biggest-fish record.
type BigCatchInput struct {
	Sector       string        `json:"sector"`
	CompetitorID string        `json:"competitor_id"`
	BiggestCatch int           `json:"biggest_catch"`
	Status       models.Status `json:"status"`
	Source       models.Source `json:"source"`
	UpdatedBy    string        `json:"updated_by"`
}

// EntryService accepts hourly and big-catch writes from judges and
// admins. Every accepted write lands durably in the local store first
// and is then pushed upstream, queueing when the connection is down.
type EntryService struct {
	log      logger.Logger
	store    *store.Store
	repo     repository.CompetitorRepository
	settings *SettingsService
	pusher   Pusher
	probe    ConnectivityProbe
}

// NewEntryService creates a new EntryService
func NewEntryService(log logger.Logger, st *store.Store, repo repository.CompetitorRepository, settings *SettingsService, pusher Pusher, probe ConnectivityProbe) *EntryService {
	return &EntryService{log: log, store: st, repo: repo, settings: settings, pusher: pusher, probe: probe}
}

// WriteHourlyEntry records catches for one competitor in one hour slot.
// The same (sector, hour, competitor) key always maps to the same
// document, so a rewrite overwrites rather than duplicates. The
// returned flag reports whether the upstream push was queued for later
// replay.
func (s *EntryService) WriteHourlyEntry(ctx context.Context, input HourlyEntryInput) (*models.HourlyEntry, bool, error) {
	if !s.settings.IsScoringOpen(ctx) {
		return nil, false, ErrScoringClosed
	}
	if !s.settings.ValidSector(ctx, input.Sector) {
		return nil, false, apperrors.Validationf("unknown sector %q", input.Sector)
	}
	if hours := s.settings.Hours(ctx); input.Hour < 1 || input.Hour > hours {
		return nil, false, apperrors.Validationf("hour must be between 1 and %d, got %d", hours, input.Hour)
	}
	if input.FishCount < 0 {
		return nil, false, apperrors.Validation("fish count cannot be negative")
	}
	if input.TotalWeight < 0 {
		return nil, false, apperrors.Validation("total weight cannot be negative")
	}
	if input.FishCount == 0 && input.TotalWeight > 0 {
		return nil, false, apperrors.Validation("weight recorded with zero fish")
	}
	if err := s.validateAttribution(ctx, input.Sector, input.CompetitorID, input.Status, input.Source); err != nil {
		return nil, false, err
	}

	entry := models.HourlyEntry{
		ID:           models.HourlyEntryID(input.Sector, input.Hour, input.CompetitorID),
		Sector:       input.Sector,
		Hour:         input.Hour,
		CompetitorID: input.CompetitorID,
		FishCount:    input.FishCount,
		TotalWeight:  input.TotalWeight,
		Status:       s.effectiveStatus(input.Status),
		Source:       input.Source,
		UpdatedBy:    input.UpdatedBy,
		Timestamp:    time.Now().UnixMilli(),
	}

	if err := s.store.UpsertHourlyEntry(ctx, entry); err != nil {
		return nil, false, apperrors.Internal(err)
	}
	s.log.Info("Hourly entry recorded", "entry_id", entry.ID, "fish", entry.FishCount, "weight", entry.TotalWeight, "status", entry.Status)

	queued := s.push(ctx, models.CollectionHourlyEntries, entry.ID, hourlyEntryFields(entry))
	return &entry, queued, nil
}

// WriteBigCatch records a competitor's biggest single fish. One record
// per competitor; later writes replace earlier ones.
func (s *EntryService) WriteBigCatch(ctx context.Context, input BigCatchInput) (*models.BigCatchEntry, bool, error) {
	if !s.settings.IsScoringOpen(ctx) {
		return nil, false, ErrScoringClosed
	}
	if !s.settings.ValidSector(ctx, input.Sector) {
		return nil, false, apperrors.Validationf("unknown sector %q", input.Sector)
	}
	if input.BiggestCatch < 0 {
		return nil, false, apperrors.Validation("biggest catch cannot be negative")
	}
	if err := s.validateAttribution(ctx, input.Sector, input.CompetitorID, input.Status, input.Source); err != nil {
		return nil, false, err
	}

	entry := models.BigCatchEntry{
		ID:           models.BigCatchEntryID(input.Sector, input.CompetitorID),
		Sector:       input.Sector,
		CompetitorID: input.CompetitorID,
		BiggestCatch: input.BiggestCatch,
		Status:       s.effectiveStatus(input.Status),
		Source:       input.Source,
		UpdatedBy:    input.UpdatedBy,
		Timestamp:    time.Now().UnixMilli(),
	}

	if err := s.store.UpsertBigCatch(ctx, entry); err != nil {
		return nil, false, apperrors.Internal(err)
	}
	s.log.Info("Big catch recorded", "entry_id", entry.ID, "weight", entry.BiggestCatch, "status", entry.Status)

	queued := s.push(ctx, models.CollectionBigCatches, entry.ID, bigCatchFields(entry))
	return &entry, queued, nil
}

func (s *EntryService) validateAttribution(ctx context.Context, sector, competitorID string, status models.Status, source models.Source) error {
	if !status.Valid() {
		return apperrors.Validationf("invalid entry status %q", status)
	}
	if !source.Valid() {
		return apperrors.Validationf("invalid entry source %q", source)
	}
	c, err := s.repo.GetCompetitor(ctx, competitorID)
	if err != nil {
		if apperrors.IsNotFound(err) || err == repository.ErrNotFound {
			return apperrors.NotFoundf("competitor %s not found", competitorID)
		}
		return apperrors.Internal(err)
	}
	if c.Sector != sector {
		return apperrors.Validationf("competitor %s fishes in sector %s, not %s", competitorID, c.Sector, sector)
	}
	if c.Status != models.CompetitorActive {
		return apperrors.Validationf("competitor %s is inactive", competitorID)
	}
	return nil
}

// effectiveStatus swaps a locked status for its offline twin when the
// upstream is unreachable. The two score identically; the offline mark
// records that the entry was captured during an outage.
func (s *EntryService) effectiveStatus(status models.Status) models.Status {
	if s.probe == nil || s.probe.Online() {
		return status
	}
	switch status {
	case models.StatusLockedJudge:
		return models.StatusOfflineJudge
	case models.StatusLockedAdmin:
		return models.StatusOfflineAdmin
	}
	return status
}

// push sends the entry upstream. Local durability already happened, so
// a push failure is logged, never surfaced as a write failure.
func (s *EntryService) push(ctx context.Context, collection, docID string, fields map[string]interface{}) bool {
	if s.pusher == nil {
		return false
	}
	queued, err := s.pusher.Upsert(ctx, collection, docID, fields)
	if err != nil {
		s.log.Warn("Failed to push entry upstream", "collection", collection, "doc_id", docID, "error", err)
		return false
	}
	return queued
}

func hourlyEntryFields(e models.HourlyEntry) map[string]interface{} {
	return map[string]interface{}{
		"sector":        e.Sector,
		"hour":          e.Hour,
		"competitor_id": e.CompetitorID,
		"fish_count":    e.FishCount,
		"total_weight":  e.TotalWeight,
		"status":        string(e.Status),
		"source":        string(e.Source),
		"updated_by":    e.UpdatedBy,
		"timestamp":     e.Timestamp,
	}
}

func bigCatchFields(e models.BigCatchEntry) map[string]interface{} {
	return map[string]interface{}{
		"sector":        e.Sector,
		"competitor_id": e.CompetitorID,
		"biggest_catch": e.BiggestCatch,
		"status":        string(e.Status),
		"source":        string(e.Source),
		"updated_by":    e.UpdatedBy,
		"timestamp":     e.Timestamp,
	}
}
