package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"

	apperrors "github.com/mhruby/catchboard/internal/errors"
	"github.com/mhruby/catchboard/internal/logger"
	"github.com/mhruby/catchboard/internal/models"
	"github.com/mhruby/catchboard/internal/repository"
	"github.com/mhruby/catchboard/internal/store"
)

// Pusher sends accepted writes toward the upstream scoreboard. The
// offline syncer satisfies this; the queued flag reports a write that
// was captured for later replay instead of applied directly.
type Pusher interface {
	Upsert(ctx context.Context, collection, docID string, fields map[string]interface{}) (queued bool, err error)
}

// CompetitorInput carries the editable profile fields of a competitor.
type CompetitorInput struct {
	Sector    string `json:"sector"`
	BoxNumber int    `json:"box_number"`
	FullName  string `json:"full_name"`
	Team      string `json:"team"`
	PhotoURL  string `json:"photo_url"`
}

// CompetitorService handles competitor registration and lifecycle.
type CompetitorService struct {
	log      logger.Logger
	store    *store.Store
	repo     repository.CompetitorRepository
	settings *SettingsService
	pusher   Pusher
}

// NewCompetitorService creates a new CompetitorService
func NewCompetitorService(log logger.Logger, st *store.Store, repo repository.CompetitorRepository, settings *SettingsService, pusher Pusher) *CompetitorService {
	return &CompetitorService{log: log, store: st, repo: repo, settings: settings, pusher: pusher}
}

// Register validates and creates a new competitor. The (sector, box)
// pair must be free; registration assigns a fresh opaque id.
func (s *CompetitorService) Register(ctx context.Context, input CompetitorInput) (*models.Competitor, error) {
	if err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}

	taken, err := s.repo.BoxTaken(ctx, input.Sector, input.BoxNumber, "")
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if taken {
		return nil, apperrors.Conflictf("box %s is already taken", models.BoxCode(input.Sector, input.BoxNumber))
	}

	c := models.Competitor{
		ID:        newID(),
		Sector:    input.Sector,
		BoxNumber: input.BoxNumber,
		FullName:  strings.TrimSpace(input.FullName),
		Team:      strings.TrimSpace(input.Team),
		PhotoURL:  strings.TrimSpace(input.PhotoURL),
		Status:    models.CompetitorActive,
	}
	if err := s.store.CreateCompetitor(ctx, c); err != nil {
		return nil, apperrors.Internal(err)
	}
	s.log.Info("Competitor registered", "competitor_id", c.ID, "box", c.BoxCode(), "name", c.FullName)

	s.push(ctx, c.ID, competitorFields(c))
	return &c, nil
}

// Update edits a competitor's profile. Moving to an occupied box is a
// conflict; the competitor's own current box never conflicts with
// itself.
func (s *CompetitorService) Update(ctx context.Context, id string, input CompetitorInput) (*models.Competitor, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}

	taken, err := s.repo.BoxTaken(ctx, input.Sector, input.BoxNumber, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if taken {
		return nil, apperrors.Conflictf("box %s is already taken", models.BoxCode(input.Sector, input.BoxNumber))
	}

	updated := *existing
	updated.Sector = input.Sector
	updated.BoxNumber = input.BoxNumber
	updated.FullName = strings.TrimSpace(input.FullName)
	updated.Team = strings.TrimSpace(input.Team)
	updated.PhotoURL = strings.TrimSpace(input.PhotoURL)

	if err := s.store.UpdateCompetitor(ctx, updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFoundf("competitor %s not found", id)
		}
		return nil, apperrors.Internal(err)
	}
	s.log.Info("Competitor updated", "competitor_id", id, "box", updated.BoxCode())

	s.push(ctx, id, competitorFields(updated))
	return &updated, nil
}

// SetStatus activates or deactivates a competitor. Deactivation is the
// only removal the system offers while a competition runs; entry
// history stays intact.
func (s *CompetitorService) SetStatus(ctx context.Context, id string, status models.CompetitorStatus) error {
	if !status.Valid() {
		return apperrors.InvalidInputf("invalid competitor status %q", status)
	}
	if err := s.store.SetCompetitorStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFoundf("competitor %s not found", id)
		}
		return apperrors.Internal(err)
	}
	s.log.Info("Competitor status changed", "competitor_id", id, "status", status)

	s.push(ctx, id, map[string]interface{}{"status": string(status)})
	return nil
}

// Get retrieves one competitor.
func (s *CompetitorService) Get(ctx context.Context, id string) (*models.Competitor, error) {
	c, err := s.repo.GetCompetitor(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFoundf("competitor %s not found", id)
		}
		return nil, apperrors.Internal(err)
	}
	return c, nil
}

// List returns every competitor ordered by sector and box.
func (s *CompetitorService) List(ctx context.Context) ([]models.Competitor, error) {
	competitors, err := s.store.ListCompetitors(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return competitors, nil
}

// ListBySector returns one sector's competitors ordered by box.
func (s *CompetitorService) ListBySector(ctx context.Context, sector string) ([]models.Competitor, error) {
	if !s.settings.ValidSector(ctx, sector) {
		return nil, apperrors.NotFoundf("unknown sector %q", sector)
	}
	competitors, err := s.repo.ListCompetitorsBySector(ctx, sector)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return competitors, nil
}

// BoxCardPNG renders the printable QR code for a competitor's box. The
// code links to the live sector leaderboard with the competitor's box
// highlighted, so spectators scanning at the water see that sector's
// standings.
func (s *CompetitorService) BoxCardPNG(ctx context.Context, id string) ([]byte, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	base := s.settings.BaseURL(ctx)
	if base == "" {
		return nil, apperrors.Validation("base URL is not configured")
	}
	url := fmt.Sprintf("%s/sectors/%s?box=%s", base, c.Sector, c.BoxCode())
	png, err := qrcode.Encode(url, qrcode.Medium, 512)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return png, nil
}

func (s *CompetitorService) validateInput(ctx context.Context, input CompetitorInput) error {
	if strings.TrimSpace(input.FullName) == "" {
		return apperrors.Validation("full name is required")
	}
	if !s.settings.ValidSector(ctx, input.Sector) {
		return apperrors.Validationf("unknown sector %q", input.Sector)
	}
	if input.BoxNumber < 1 {
		return apperrors.Validationf("box number must be positive, got %d", input.BoxNumber)
	}
	return nil
}

func (s *CompetitorService) push(ctx context.Context, id string, fields map[string]interface{}) {
	if s.pusher == nil {
		return
	}
	queued, err := s.pusher.Upsert(ctx, models.CollectionCompetitors, id, fields)
	if err != nil {
		s.log.Warn("Failed to push competitor upstream", "competitor_id", id, "error", err)
		return
	}
	if queued {
		s.log.Debug("Competitor write queued for upstream sync", "competitor_id", id)
	}
}

func competitorFields(c models.Competitor) map[string]interface{} {
	return map[string]interface{}{
		"sector":     c.Sector,
		"box_number": c.BoxNumber,
		"full_name":  c.FullName,
		"team":       c.Team,
		"photo_url":  c.PhotoURL,
		"status":     string(c.Status),
	}
}

// newID returns a fresh opaque competitor id.
func newID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
