package offline

import (
	"context"

	apperrors "github.com/mhruby/catchboard/internal/errors"
	"github.com/mhruby/catchboard/internal/logger"
	"github.com/mhruby/catchboard/pkg/scoreboard"
)

// Syncer routes document writes to the upstream scoreboard, diverting
// them into the offline queue when the service is unreachable. While
// anything sits in the queue, new writes are queued behind it so the
// upstream sees operations in their original order.
type Syncer struct {
	log    logger.Logger
	client scoreboard.Client
	queue  *Queue
}

// NewSyncer creates a new Syncer
func NewSyncer(log logger.Logger, client scoreboard.Client, queue *Queue) *Syncer {
	return &Syncer{log: log, client: client, queue: queue}
}

// Upsert pushes a document upstream. The returned flag reports whether
// the write was captured by the offline queue instead of applied
// directly. Non-connectivity failures are returned to the caller
// unretried.
func (s *Syncer) Upsert(ctx context.Context, collection, docID string, fields map[string]interface{}) (queued bool, err error) {
	pending, err := s.queue.Size(ctx)
	if err != nil {
		return false, err
	}
	if pending > 0 {
		// Keep ordering: nothing may overtake queued operations.
		if err := s.queue.Enqueue(ctx, collection, docID, fields); err != nil {
			return false, err
		}
		return true, nil
	}

	err = s.client.Upsert(ctx, collection, docID, fields)
	if err == nil {
		return false, nil
	}
	if !apperrors.IsUnavailable(err) {
		return false, err
	}

	s.log.Warn("Scoreboard unreachable, queueing write", "collection", collection, "doc_id", docID)
	if qerr := s.queue.Enqueue(ctx, collection, docID, fields); qerr != nil {
		return false, qerr
	}
	return true, nil
}
