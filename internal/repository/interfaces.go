package repository

import (
	"context"

	"github.com/mhruby/catchboard/internal/models"
)

// CompetitorRepository defines competitor data operations
type CompetitorRepository interface {
	CreateCompetitor(ctx context.Context, c models.Competitor) error
	UpdateCompetitor(ctx context.Context, c models.Competitor) error
	SetCompetitorStatus(ctx context.Context, id string, status models.CompetitorStatus) error
	GetCompetitor(ctx context.Context, id string) (*models.Competitor, error)
	ListCompetitors(ctx context.Context) ([]models.Competitor, error)
	ListCompetitorsBySector(ctx context.Context, sector string) ([]models.Competitor, error)
	BoxTaken(ctx context.Context, sector string, boxNumber int, excludeID string) (bool, error)
	// UpdateCompetitorScore writes the denormalized scoring fields and
	// reports whether anything actually changed. The recompute
	// scheduler is the only legal caller.
	UpdateCompetitorScore(ctx context.Context, id string, score models.Score) (bool, error)
}

// EntryRepository defines hourly and big-catch entry operations
type EntryRepository interface {
	UpsertHourlyEntry(ctx context.Context, e models.HourlyEntry) error
	GetHourlyEntry(ctx context.Context, id string) (*models.HourlyEntry, error)
	ListHourlyEntries(ctx context.Context) ([]models.HourlyEntry, error)
	ListHourlyEntriesBySector(ctx context.Context, sector string) ([]models.HourlyEntry, error)
	UpsertBigCatch(ctx context.Context, e models.BigCatchEntry) error
	GetBigCatch(ctx context.Context, id string) (*models.BigCatchEntry, error)
	ListBigCatches(ctx context.Context) ([]models.BigCatchEntry, error)
	ListBigCatchesBySector(ctx context.Context, sector string) ([]models.BigCatchEntry, error)
}

// SettingsRepository defines settings data operations
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// QueueRepository defines offline write-queue operations
type QueueRepository interface {
	EnqueueOp(ctx context.Context, op models.QueuedOp) (int64, error)
	ListQueuedOps(ctx context.Context) ([]models.QueuedOp, error)
	DeleteQueuedOp(ctx context.Context, id int64) error
	CountQueuedOps(ctx context.Context) (int, error)
}

// FullRepository combines all repository interfaces
// Use this when a component needs access to multiple domains
type FullRepository interface {
	CompetitorRepository
	EntryRepository
	SettingsRepository
	QueueRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
