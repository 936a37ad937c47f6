package offline

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/mhruby/catchboard/internal/logger"
	"github.com/mhruby/catchboard/pkg/scoreboard"
)

// Broadcaster pushes connectivity changes to connected viewers.
type Broadcaster interface {
	BroadcastConnectivity(online bool)
}

// Monitor watches upstream reachability on a ticker. Whenever the
// service is reachable and ops are pending it replays the queue; every
// transition is broadcast so viewers can show the connectivity badge.
type Monitor struct {
	log         logger.Logger
	client      scoreboard.Client
	queue       *Queue
	broadcaster Broadcaster
	interval    time.Duration

	online atomic.Bool
}

// NewMonitor creates a new connectivity monitor
func NewMonitor(log logger.Logger, client scoreboard.Client, queue *Queue, broadcaster Broadcaster, interval time.Duration) *Monitor {
	return &Monitor{
		log:         log,
		client:      client,
		queue:       queue,
		broadcaster: broadcaster,
		interval:    interval,
	}
}

// Online reports the last observed connectivity state.
func (m *Monitor) Online() bool {
	return m.online.Load()
}

// Start runs the monitor loop until the context is cancelled.
func (m *Monitor) Start(ctx context.Context) {
	// Establish the initial state immediately rather than waiting a
	// full interval.
	m.Check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info("Connectivity monitor stopped")
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// Check performs one reachability probe and reacts to transitions.
// Exported so tests and the manual replay endpoint can drive it.
func (m *Monitor) Check(ctx context.Context) {
	wasOnline := m.online.Load()
	isOnline := m.client.Ping(ctx) == nil

	if isOnline {
		if !wasOnline {
			m.log.Info("Scoreboard reachable, replaying offline queue")
		}
		// Drain on every online probe, not only on the transition: a
		// transient write failure can queue ops while pings keep
		// succeeding, and everything after them queues for ordering.
		m.drain(ctx)
	}

	if isOnline != wasOnline {
		m.online.Store(isOnline)
		if m.broadcaster != nil {
			m.broadcaster.BroadcastConnectivity(isOnline)
		}
		if isOnline {
			m.log.Info("Connectivity restored")
		} else {
			m.log.Warn("Connectivity lost")
		}
	}
}

// drain replays pending queued ops against the reachable service.
func (m *Monitor) drain(ctx context.Context) {
	size, err := m.queue.Size(ctx)
	if err != nil {
		m.log.Warn("Offline queue size check failed", "error", err)
		return
	}
	if size == 0 {
		return
	}
	if _, err := m.queue.Replay(ctx, m.client); err != nil {
		// Replay halted; remaining ops stay queued for the next probe.
		m.log.Warn("Offline queue replay incomplete", "error", err)
	}
}
