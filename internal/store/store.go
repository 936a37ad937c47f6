// Package store is the entry record store: durable writes through the
// repository plus an explicit in-process event bus. Every successful
// write publishes a full fresh snapshot of the changed collection to
// all subscribers, never a delta, so consumers always recompute from a
// complete row set.
package store

import (
	"context"
	"sync"

	"github.com/mhruby/catchboard/internal/logger"
	"github.com/mhruby/catchboard/internal/models"
	"github.com/mhruby/catchboard/internal/repository"
)

// StoreRepository defines the repository methods needed by Store
type StoreRepository interface {
	repository.CompetitorRepository
	repository.EntryRepository
}

// Store couples the repository with typed snapshot subscriptions.
type Store struct {
	log  logger.Logger
	repo StoreRepository

	mu             sync.Mutex
	nextSubID      int
	competitorSubs map[int]func([]models.Competitor)
	hourlySubs     map[int]func([]models.HourlyEntry)
	bigCatchSubs   map[int]func([]models.BigCatchEntry)
}

// New creates a new Store
func New(log logger.Logger, repo StoreRepository) *Store {
	return &Store{
		log:            log,
		repo:           repo,
		competitorSubs: make(map[int]func([]models.Competitor)),
		hourlySubs:     make(map[int]func([]models.HourlyEntry)),
		bigCatchSubs:   make(map[int]func([]models.BigCatchEntry)),
	}
}

// SubscribeCompetitors registers a callback that receives the full
// competitor snapshot after every competitor write. The returned
// function unregisters it synchronously: once it returns, no further
// snapshots are delivered.
func (s *Store) SubscribeCompetitors(fn func([]models.Competitor)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.competitorSubs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.competitorSubs, id)
		s.mu.Unlock()
	}
}

// SubscribeHourlyEntries registers a callback for hourly entry snapshots.
func (s *Store) SubscribeHourlyEntries(fn func([]models.HourlyEntry)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.hourlySubs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.hourlySubs, id)
		s.mu.Unlock()
	}
}

// SubscribeBigCatches registers a callback for big-catch snapshots.
func (s *Store) SubscribeBigCatches(fn func([]models.BigCatchEntry)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.bigCatchSubs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.bigCatchSubs, id)
		s.mu.Unlock()
	}
}

// ==================== Writes ====================

// CreateCompetitor persists a new competitor and publishes the
// competitor snapshot.
func (s *Store) CreateCompetitor(ctx context.Context, c models.Competitor) error {
	if err := s.repo.CreateCompetitor(ctx, c); err != nil {
		return err
	}
	s.publishCompetitors(ctx)
	return nil
}

// UpdateCompetitor persists profile changes and publishes the
// competitor snapshot.
func (s *Store) UpdateCompetitor(ctx context.Context, c models.Competitor) error {
	if err := s.repo.UpdateCompetitor(ctx, c); err != nil {
		return err
	}
	s.publishCompetitors(ctx)
	return nil
}

// SetCompetitorStatus flips a competitor between active and inactive
// and publishes the competitor snapshot.
func (s *Store) SetCompetitorStatus(ctx context.Context, id string, status models.CompetitorStatus) error {
	if err := s.repo.SetCompetitorStatus(ctx, id, status); err != nil {
		return err
	}
	s.publishCompetitors(ctx)
	return nil
}

// UpdateCompetitorScore writes the denormalized scoring fields.
// The snapshot is only published when the values actually changed,
// which is what lets the recompute cycle converge instead of feeding
// itself forever.
func (s *Store) UpdateCompetitorScore(ctx context.Context, id string, score models.Score) (bool, error) {
	changed, err := s.repo.UpdateCompetitorScore(ctx, id, score)
	if err != nil {
		return false, err
	}
	if changed {
		s.publishCompetitors(ctx)
	}
	return changed, nil
}

// UpsertHourlyEntry merge-writes an hourly entry and publishes the
// hourly snapshot.
func (s *Store) UpsertHourlyEntry(ctx context.Context, e models.HourlyEntry) error {
	if err := s.repo.UpsertHourlyEntry(ctx, e); err != nil {
		return err
	}
	s.publishHourly(ctx)
	return nil
}

// UpsertBigCatch merge-writes a big-catch entry and publishes the
// big-catch snapshot.
func (s *Store) UpsertBigCatch(ctx context.Context, e models.BigCatchEntry) error {
	if err := s.repo.UpsertBigCatch(ctx, e); err != nil {
		return err
	}
	s.publishBigCatches(ctx)
	return nil
}

// ==================== Reads ====================

// ListCompetitors returns the current competitor snapshot.
func (s *Store) ListCompetitors(ctx context.Context) ([]models.Competitor, error) {
	return s.repo.ListCompetitors(ctx)
}

// ListHourlyEntries returns the current hourly entry snapshot.
func (s *Store) ListHourlyEntries(ctx context.Context) ([]models.HourlyEntry, error) {
	return s.repo.ListHourlyEntries(ctx)
}

// ListBigCatches returns the current big-catch snapshot.
func (s *Store) ListBigCatches(ctx context.Context) ([]models.BigCatchEntry, error) {
	return s.repo.ListBigCatches(ctx)
}

// ==================== Publishing ====================

func (s *Store) publishCompetitors(ctx context.Context) {
	snapshot, err := s.repo.ListCompetitors(ctx)
	if err != nil {
		s.log.Error("Failed to load competitor snapshot for publish", "error", err)
		return
	}
	for _, fn := range s.competitorCallbacks() {
		fn(snapshot)
	}
}

func (s *Store) publishHourly(ctx context.Context) {
	snapshot, err := s.repo.ListHourlyEntries(ctx)
	if err != nil {
		s.log.Error("Failed to load hourly snapshot for publish", "error", err)
		return
	}
	for _, fn := range s.hourlyCallbacks() {
		fn(snapshot)
	}
}

func (s *Store) publishBigCatches(ctx context.Context) {
	snapshot, err := s.repo.ListBigCatches(ctx)
	if err != nil {
		s.log.Error("Failed to load big-catch snapshot for publish", "error", err)
		return
	}
	for _, fn := range s.bigCatchCallbacks() {
		fn(snapshot)
	}
}

// Callbacks are copied out under the lock and invoked without it, so a
// callback may itself write to the store (the scheduler's write-back
// does) without deadlocking.

func (s *Store) competitorCallbacks() []func([]models.Competitor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]func([]models.Competitor), 0, len(s.competitorSubs))
	for _, fn := range s.competitorSubs {
		out = append(out, fn)
	}
	return out
}

func (s *Store) hourlyCallbacks() []func([]models.HourlyEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]func([]models.HourlyEntry), 0, len(s.hourlySubs))
	for _, fn := range s.hourlySubs {
		out = append(out, fn)
	}
	return out
}

func (s *Store) bigCatchCallbacks() []func([]models.BigCatchEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]func([]models.BigCatchEntry), 0, len(s.bigCatchSubs))
	for _, fn := range s.bigCatchSubs {
		out = append(out, fn)
	}
	return out
}
