package mock

import (
	"context"

	"github.com/mhruby/catchboard/internal/models"
	"github.com/mhruby/catchboard/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.CreateCompetitorError = errors.New("database error")
//	svc := services.NewCompetitorService(log, mockRepo, st, settings, syncer)
//	_, err := svc.Register(ctx, input)
//	// err will now contain the injected error
type Repository struct {
	repository.FullRepository

	// ===== Competitor Errors =====
	CreateCompetitorError       error
	UpdateCompetitorError       error
	SetCompetitorStatusError    error
	GetCompetitorError          error
	ListCompetitorsError        error
	ListCompetitorsBySectorError error
	BoxTakenError               error
	UpdateCompetitorScoreError  error

	// ===== Entry Errors =====
	UpsertHourlyEntryError        error
	GetHourlyEntryError           error
	ListHourlyEntriesError        error
	ListHourlyEntriesBySectorError error
	UpsertBigCatchError           error
	GetBigCatchError              error
	ListBigCatchesError           error
	ListBigCatchesBySectorError   error

	// ===== Settings Errors =====
	GetSettingError error
	SetSettingError error

	// ===== Queue Errors =====
	EnqueueOpError      error
	ListQueuedOpsError  error
	DeleteQueuedOpError error
	CountQueuedOpsError error
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// ===== Competitor Methods =====

func (m *Repository) CreateCompetitor(ctx context.Context, c models.Competitor) error {
	if m.CreateCompetitorError != nil {
		return m.CreateCompetitorError
	}
	return m.FullRepository.CreateCompetitor(ctx, c)
}

func (m *Repository) UpdateCompetitor(ctx context.Context, c models.Competitor) error {
	if m.UpdateCompetitorError != nil {
		return m.UpdateCompetitorError
	}
	return m.FullRepository.UpdateCompetitor(ctx, c)
}

func (m *Repository) SetCompetitorStatus(ctx context.Context, id string, status models.CompetitorStatus) error {
	if m.SetCompetitorStatusError != nil {
		return m.SetCompetitorStatusError
	}
	return m.FullRepository.SetCompetitorStatus(ctx, id, status)
}

func (m *Repository) GetCompetitor(ctx context.Context, id string) (*models.Competitor, error) {
	if m.GetCompetitorError != nil {
		return nil, m.GetCompetitorError
	}
	return m.FullRepository.GetCompetitor(ctx, id)
}

func (m *Repository) ListCompetitors(ctx context.Context) ([]models.Competitor, error) {
	if m.ListCompetitorsError != nil {
		return nil, m.ListCompetitorsError
	}
	return m.FullRepository.ListCompetitors(ctx)
}

func (m *Repository) ListCompetitorsBySector(ctx context.Context, sector string) ([]models.Competitor, error) {
	if m.ListCompetitorsBySectorError != nil {
		return nil, m.ListCompetitorsBySectorError
	}
	return m.FullRepository.ListCompetitorsBySector(ctx, sector)
}

func (m *Repository) BoxTaken(ctx context.Context, sector string, boxNumber int, excludeID string) (bool, error) {
	if m.BoxTakenError != nil {
		return false, m.BoxTakenError
	}
	return m.FullRepository.BoxTaken(ctx, sector, boxNumber, excludeID)
}

func (m *Repository) UpdateCompetitorScore(ctx context.Context, id string, score models.Score) (bool, error) {
	if m.UpdateCompetitorScoreError != nil {
		return false, m.UpdateCompetitorScoreError
	}
	return m.FullRepository.UpdateCompetitorScore(ctx, id, score)
}

// ===== Entry Methods =====

func (m *Repository) UpsertHourlyEntry(ctx context.Context, e models.HourlyEntry) error {
	if m.UpsertHourlyEntryError != nil {
		return m.UpsertHourlyEntryError
	}
	return m.FullRepository.UpsertHourlyEntry(ctx, e)
}

func (m *Repository) GetHourlyEntry(ctx context.Context, id string) (*models.HourlyEntry, error) {
	if m.GetHourlyEntryError != nil {
		return nil, m.GetHourlyEntryError
	}
	return m.FullRepository.GetHourlyEntry(ctx, id)
}

func (m *Repository) ListHourlyEntries(ctx context.Context) ([]models.HourlyEntry, error) {
	if m.ListHourlyEntriesError != nil {
		return nil, m.ListHourlyEntriesError
	}
	return m.FullRepository.ListHourlyEntries(ctx)
}

func (m *Repository) ListHourlyEntriesBySector(ctx context.Context, sector string) ([]models.HourlyEntry, error) {
	if m.ListHourlyEntriesBySectorError != nil {
		return nil, m.ListHourlyEntriesBySectorError
	}
	return m.FullRepository.ListHourlyEntriesBySector(ctx, sector)
}

func (m *Repository) UpsertBigCatch(ctx context.Context, e models.BigCatchEntry) error {
	if m.UpsertBigCatchError != nil {
		return m.UpsertBigCatchError
	}
	return m.FullRepository.UpsertBigCatch(ctx, e)
}

func (m *Repository) GetBigCatch(ctx context.Context, id string) (*models.BigCatchEntry, error) {
	if m.GetBigCatchError != nil {
		return nil, m.GetBigCatchError
	}
	return m.FullRepository.GetBigCatch(ctx, id)
}

func (m *Repository) ListBigCatches(ctx context.Context) ([]models.BigCatchEntry, error) {
	if m.ListBigCatchesError != nil {
		return nil, m.ListBigCatchesError
	}
	return m.FullRepository.ListBigCatches(ctx)
}

func (m *Repository) ListBigCatchesBySector(ctx context.Context, sector string) ([]models.BigCatchEntry, error) {
	if m.ListBigCatchesBySectorError != nil {
		return nil, m.ListBigCatchesBySectorError
	}
	return m.FullRepository.ListBigCatchesBySector(ctx, sector)
}

// ===== Settings Methods =====

func (m *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	if m.GetSettingError != nil {
		return "", m.GetSettingError
	}
	return m.FullRepository.GetSetting(ctx, key)
}

func (m *Repository) SetSetting(ctx context.Context, key, value string) error {
	if m.SetSettingError != nil {
		return m.SetSettingError
	}
	return m.FullRepository.SetSetting(ctx, key, value)
}

// ===== Queue Methods =====

func (m *Repository) EnqueueOp(ctx context.Context, op models.QueuedOp) (int64, error) {
	if m.EnqueueOpError != nil {
		return 0, m.EnqueueOpError
	}
	return m.FullRepository.EnqueueOp(ctx, op)
}

func (m *Repository) ListQueuedOps(ctx context.Context) ([]models.QueuedOp, error) {
	if m.ListQueuedOpsError != nil {
		return nil, m.ListQueuedOpsError
	}
	return m.FullRepository.ListQueuedOps(ctx)
}

func (m *Repository) DeleteQueuedOp(ctx context.Context, id int64) error {
	if m.DeleteQueuedOpError != nil {
		return m.DeleteQueuedOpError
	}
	return m.FullRepository.DeleteQueuedOp(ctx, id)
}

func (m *Repository) CountQueuedOps(ctx context.Context) (int, error) {
	if m.CountQueuedOpsError != nil {
		return 0, m.CountQueuedOpsError
	}
	return m.FullRepository.CountQueuedOps(ctx)
}
