// Package services contains the business logic layer: validation,
// identity rules, scoring-window enforcement, and the push of accepted
// writes toward the upstream scoreboard.
package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/mhruby/catchboard/internal/logger"
	"github.com/mhruby/catchboard/internal/repository"
)

// Settings keys in the settings table.
const (
	settingCompetitionHours = "competition_hours"
	settingSectors          = "sectors"
	settingScoringOpen      = "scoring_open"
	settingBaseURL          = "base_url"
)

// Defaults used when a setting is missing or unparseable.
const (
	defaultHours   = 7
	defaultSectors = "A,B,C,D,E,F"
)

// ScoringBroadcaster pushes scoring window changes to connected clients.
type ScoringBroadcaster interface {
	BroadcastScoringStatus(open bool)
}

// SettingsService reads and writes competition configuration.
type SettingsService struct {
	log         logger.Logger
	repo        repository.SettingsRepository
	broadcaster ScoringBroadcaster
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(log logger.Logger, repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{log: log, repo: repo}
}

// SetBroadcaster wires the websocket hub in after construction. The
// hub needs the service for its welcome message, so one of the two has
// to be attached late.
func (s *SettingsService) SetBroadcaster(b ScoringBroadcaster) {
	s.broadcaster = b
}

// Hours returns the number of scoring hour slots in the competition.
func (s *SettingsService) Hours(ctx context.Context) int {
	raw, err := s.repo.GetSetting(ctx, settingCompetitionHours)
	if err != nil {
		s.log.Error("Failed to read competition hours", "error", err)
		return defaultHours
	}
	hours, err := strconv.Atoi(raw)
	if err != nil || hours < 1 {
		return defaultHours
	}
	return hours
}

// Sectors returns the configured sector labels in display order.
func (s *SettingsService) Sectors(ctx context.Context) []string {
	raw, err := s.repo.GetSetting(ctx, settingSectors)
	if err != nil {
		s.log.Error("Failed to read sectors", "error", err)
		raw = defaultSectors
	}
	if strings.TrimSpace(raw) == "" {
		raw = defaultSectors
	}
	parts := strings.Split(raw, ",")
	sectors := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			sectors = append(sectors, p)
		}
	}
	return sectors
}

// ValidSector reports whether the label names a configured sector.
func (s *SettingsService) ValidSector(ctx context.Context, sector string) bool {
	for _, known := range s.Sectors(ctx) {
		if known == sector {
			return true
		}
	}
	return false
}

// IsScoringOpen reports whether score entry is currently accepted.
// Read failures close the window rather than letting writes through.
func (s *SettingsService) IsScoringOpen(ctx context.Context) bool {
	raw, err := s.repo.GetSetting(ctx, settingScoringOpen)
	if err != nil {
		s.log.Error("Failed to read scoring window state", "error", err)
		return false
	}
	return raw == "true"
}

// SetScoringOpen opens or closes the scoring window and broadcasts the
// change to every connected client.
func (s *SettingsService) SetScoringOpen(ctx context.Context, open bool) error {
	if err := s.repo.SetSetting(ctx, settingScoringOpen, strconv.FormatBool(open)); err != nil {
		return err
	}
	s.log.Info("Scoring window changed", "open", open)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastScoringStatus(open)
	}
	return nil
}

// BaseURL returns the externally reachable base URL used on printed
// QR codes. Empty when never configured.
func (s *SettingsService) BaseURL(ctx context.Context) string {
	raw, err := s.repo.GetSetting(ctx, settingBaseURL)
	if err != nil {
		s.log.Error("Failed to read base URL", "error", err)
		return ""
	}
	return raw
}

// SetBaseURL stores the externally reachable base URL.
func (s *SettingsService) SetBaseURL(ctx context.Context, url string) error {
	return s.repo.SetSetting(ctx, settingBaseURL, strings.TrimRight(url, "/"))
}

// SetHours stores the number of scoring hour slots.
func (s *SettingsService) SetHours(ctx context.Context, hours int) error {
	return s.repo.SetSetting(ctx, settingCompetitionHours, strconv.Itoa(hours))
}

// SetSectors stores the sector labels.
func (s *SettingsService) SetSectors(ctx context.Context, sectors []string) error {
	return s.repo.SetSetting(ctx, settingSectors, strings.Join(sectors, ","))
}
