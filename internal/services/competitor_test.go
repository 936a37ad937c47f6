package services_test

import (
	"bytes"
	"context"
	"testing"

	apperrors "github.com/mhruby/catchboard/internal/errors"
	"github.com/mhruby/catchboard/internal/logger"
	"github.com/mhruby/catchboard/internal/models"
	"github.com/mhruby/catchboard/internal/offline"
	"github.com/mhruby/catchboard/internal/repository/mock"
	"github.com/mhruby/catchboard/internal/services"
	"github.com/mhruby/catchboard/internal/store"
	"github.com/mhruby/catchboard/internal/testutil"
	"github.com/mhruby/catchboard/pkg/scoreboard"
)

type env struct {
	log      logger.Logger
	repo     *mock.Repository
	store    *store.Store
	settings *services.SettingsService
	client   *scoreboard.MockClient
	syncer   *offline.Syncer
}

func newEnv(t *testing.T) *env {
	t.Helper()
	log := logger.New()
	repo := mock.NewRepository(testutil.NewTestRepository(t))
	st := store.New(log, repo)
	client := scoreboard.NewMockClient()
	syncer := offline.NewSyncer(log, client, offline.NewQueue(log, repo))
	return &env{
		log:      log,
		repo:     repo,
		store:    st,
		settings: services.NewSettingsService(log, repo),
		client:   client,
		syncer:   syncer,
	}
}

func (e *env) competitorService() *services.CompetitorService {
	return services.NewCompetitorService(e.log, e.store, e.repo, e.settings, e.syncer)
}

func validInput() services.CompetitorInput {
	return services.CompetitorInput{
		Sector:    "A",
		BoxNumber: 3,
		FullName:  "Marek Novak",
		Team:      "Golden Carp",
	}
}

func TestCompetitorService_Register(t *testing.T) {
	e := newEnv(t)
	svc := e.competitorService()
	ctx := context.Background()

	c, err := svc.Register(ctx, validInput())
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if c.ID == "" {
		t.Error("registered competitor has no id")
	}
	if c.Status != models.CompetitorActive {
		t.Errorf("status = %q, want active", c.Status)
	}
	if c.BoxCode() != "A03" {
		t.Errorf("box code = %q, want A03", c.BoxCode())
	}

	doc := e.client.Doc(models.CollectionCompetitors, c.ID)
	if doc == nil {
		t.Fatal("competitor not pushed upstream")
	}
	if doc["full_name"] != "Marek Novak" {
		t.Errorf("pushed full_name = %v", doc["full_name"])
	}
}

func TestCompetitorService_RegisterValidation(t *testing.T) {
	e := newEnv(t)
	svc := e.competitorService()
	ctx := context.Background()

	tests := []struct {
		name   string
		modify func(*services.CompetitorInput)
		kind   apperrors.Kind
	}{
		{"empty name", func(in *services.CompetitorInput) { in.FullName = "  " }, apperrors.ErrValidation},
		{"unknown sector", func(in *services.CompetitorInput) { in.Sector = "Z" }, apperrors.ErrValidation},
		{"zero box", func(in *services.CompetitorInput) { in.BoxNumber = 0 }, apperrors.ErrValidation},
		{"negative box", func(in *services.CompetitorInput) { in.BoxNumber = -2 }, apperrors.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.modify(&input)
			_, err := svc.Register(ctx, input)
			if !apperrors.Is(err, tt.kind) {
				t.Errorf("err = %v, want kind %v", err, tt.kind)
			}
		})
	}
}

func TestCompetitorService_RegisterBoxConflict(t *testing.T) {
	e := newEnv(t)
	svc := e.competitorService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, validInput()); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	_, err := svc.Register(ctx, services.CompetitorInput{Sector: "A", BoxNumber: 3, FullName: "Petr Svoboda"})
	if !apperrors.Is(err, apperrors.ErrConflict) {
		t.Errorf("err = %v, want conflict", err)
	}

	// Same box number in another sector is a different position.
	if _, err := svc.Register(ctx, services.CompetitorInput{Sector: "B", BoxNumber: 3, FullName: "Petr Svoboda"}); err != nil {
		t.Errorf("register in other sector failed: %v", err)
	}
}

func TestCompetitorService_Update(t *testing.T) {
	e := newEnv(t)
	svc := e.competitorService()
	ctx := context.Background()

	c, err := svc.Register(ctx, validInput())
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	input := validInput()
	input.BoxNumber = 5
	input.Team = "Silver Pike"
	updated, err := svc.Update(ctx, c.ID, input)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.BoxNumber != 5 || updated.Team != "Silver Pike" {
		t.Errorf("update not applied: %+v", updated)
	}

	// Keeping the same box must not conflict with itself.
	if _, err := svc.Update(ctx, c.ID, input); err != nil {
		t.Errorf("no-op update failed: %v", err)
	}
}

func TestCompetitorService_UpdateNotFound(t *testing.T) {
	e := newEnv(t)
	svc := e.competitorService()

	_, err := svc.Update(context.Background(), "missing", validInput())
	if !apperrors.IsNotFound(err) {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestCompetitorService_SetStatus(t *testing.T) {
	e := newEnv(t)
	svc := e.competitorService()
	ctx := context.Background()

	c, err := svc.Register(ctx, validInput())
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := svc.SetStatus(ctx, c.ID, models.CompetitorInactive); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	got, err := svc.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != models.CompetitorInactive {
		t.Errorf("status = %q, want inactive", got.Status)
	}

	doc := e.client.Doc(models.CollectionCompetitors, c.ID)
	if doc["status"] != "inactive" {
		t.Errorf("pushed status = %v, want inactive", doc["status"])
	}

	if err := svc.SetStatus(ctx, c.ID, "deleted"); !apperrors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("invalid status err = %v, want invalid input", err)
	}
}

func TestCompetitorService_BoxCardPNG(t *testing.T) {
	e := newEnv(t)
	svc := e.competitorService()
	ctx := context.Background()

	c, err := svc.Register(ctx, validInput())
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// No base URL configured yet.
	if _, err := svc.BoxCardPNG(ctx, c.ID); !apperrors.Is(err, apperrors.ErrValidation) {
		t.Errorf("err without base URL = %v, want validation", err)
	}

	if err := e.settings.SetBaseURL(ctx, "http://192.168.1.10:8080/"); err != nil {
		t.Fatalf("SetBaseURL failed: %v", err)
	}
	png, err := svc.BoxCardPNG(ctx, c.ID)
	if err != nil {
		t.Fatalf("BoxCardPNG failed: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}

func TestCompetitorService_ListBySector(t *testing.T) {
	e := newEnv(t)
	svc := e.competitorService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, validInput()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	competitors, err := svc.ListBySector(ctx, "A")
	if err != nil {
		t.Fatalf("ListBySector failed: %v", err)
	}
	if len(competitors) != 1 {
		t.Errorf("competitors = %d, want 1", len(competitors))
	}

	if _, err := svc.ListBySector(ctx, "Z"); !apperrors.IsNotFound(err) {
		t.Errorf("unknown sector err = %v, want not found", err)
	}
}
