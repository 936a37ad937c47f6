// Package offline buffers upstream scoreboard writes while the
// service is unreachable and replays them in order on reconnect.
package offline

import (
	"context"
	"encoding/json"

	apperrors "github.com/mhruby/catchboard/internal/errors"
	"github.com/mhruby/catchboard/internal/logger"
	"github.com/mhruby/catchboard/internal/models"
	"github.com/mhruby/catchboard/internal/repository"
	"github.com/mhruby/catchboard/pkg/scoreboard"
)

// Queue is the durable FIFO of pending upstream operations. Delivery
// is at-least-once: an operation is deleted only after the upstream
// write confirms, so a crash in between replays it again. Upstream
// writes are merge upserts keyed by deterministic document ids, which
// makes the double-apply harmless.
type Queue struct {
	log  logger.Logger
	repo repository.QueueRepository
}

// NewQueue creates a new offline write queue
func NewQueue(log logger.Logger, repo repository.QueueRepository) *Queue {
	return &Queue{log: log, repo: repo}
}

// Enqueue appends an upsert destined for the upstream scoreboard.
func (q *Queue) Enqueue(ctx context.Context, collection, docID string, fields map[string]interface{}) error {
	payload, err := json.Marshal(fields)
	if err != nil {
		return apperrors.Internal(err)
	}

	id, err := q.repo.EnqueueOp(ctx, models.QueuedOp{
		OpType:     "upsert",
		Collection: collection,
		DocID:      docID,
		Payload:    string(payload),
	})
	if err != nil {
		return err
	}

	q.log.Info("Queued offline write", "op_id", id, "collection", collection, "doc_id", docID)
	return nil
}

// Size returns the number of operations awaiting replay.
func (q *Queue) Size(ctx context.Context) (int, error) {
	return q.repo.CountQueuedOps(ctx)
}

// List returns the pending operations in enqueue order.
func (q *Queue) List(ctx context.Context) ([]models.QueuedOp, error) {
	return q.repo.ListQueuedOps(ctx)
}

// Replay applies queued operations strictly in enqueue order, one at
// a time, removing each only after confirmed success. The first
// failure halts replay; everything behind it stays queued for the next
// connectivity event. Nothing already applied is rolled back.
func (q *Queue) Replay(ctx context.Context, client scoreboard.Client) (applied int, err error) {
	ops, err := q.repo.ListQueuedOps(ctx)
	if err != nil {
		return 0, err
	}

	for _, op := range ops {
		var fields map[string]interface{}
		if err := json.Unmarshal([]byte(op.Payload), &fields); err != nil {
			// A corrupt payload can never succeed; dropping it is the
			// only way the queue can make progress past it.
			q.log.Error("Dropping unreadable queued op", "op_id", op.ID, "error", err)
			if err := q.repo.DeleteQueuedOp(ctx, op.ID); err != nil {
				return applied, err
			}
			continue
		}

		if err := client.Upsert(ctx, op.Collection, op.DocID, fields); err != nil {
			q.log.Warn("Replay halted", "op_id", op.ID, "applied", applied, "remaining", len(ops)-applied, "error", err)
			return applied, err
		}

		if err := q.repo.DeleteQueuedOp(ctx, op.ID); err != nil {
			return applied, err
		}
		applied++
	}

	if applied > 0 {
		q.log.Info("Offline queue replayed", "applied", applied)
	}
	return applied, nil
}
