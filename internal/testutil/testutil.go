package testutil

import (
	"testing"

	"github.com/mhruby/catchboard/internal/repository"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() {
		repo.Close()
	})

	return repo
}
