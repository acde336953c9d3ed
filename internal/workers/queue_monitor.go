package workers

import (
	"context"
	"time"

	"aiso/tripdesk/internal/common"
	"aiso/tripdesk/internal/logging"
	"aiso/tripdesk/internal/metrics"
)

const (
	highQueueLength  = 500
	highPendingCount = 100
)

// QueueStatsSource reports queue depth
type QueueStatsSource interface {
	Stats(ctx context.Context) (common.QueueStats, error)
	Backend() string
}

// QueueMonitor publishes planning queue depth as gauges and warns when the
// workers fall behind.
type QueueMonitor struct {
	queue   QueueStatsSource
	metrics *metrics.MetricsRegistry
}

func NewQueueMonitor(queue QueueStatsSource, m *metrics.MetricsRegistry) *QueueMonitor {
	return &QueueMonitor{queue: queue, metrics: m}
}

// Start checks the queue every interval until ctx is cancelled
func (m *QueueMonitor) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

func (m *QueueMonitor) Check(ctx context.Context) common.QueueStats {
	stats, err := m.queue.Stats(ctx)
	if err != nil {
		logging.Warn("Planning queue stats unavailable", "queue", m.queue.Backend(), "error", err)
		return stats
	}

	m.metrics.PlanningQueueDepth.Set(float64(stats.Length))
	m.metrics.PlanningQueuePending.Set(float64(stats.Pending))

	switch {
	case stats.Pending > highPendingCount:
		logging.Warn("Planning queue has many unacknowledged tasks", "queue", m.queue.Backend(), "pending", stats.Pending)
	case stats.Length > highQueueLength:
		logging.Warn("Planning queue is backing up", "queue", m.queue.Backend(), "length", stats.Length)
	default:
		logging.Debug("Planning queue healthy", "queue", m.queue.Backend(), "length", stats.Length, "pending", stats.Pending)
	}
	return stats
}
