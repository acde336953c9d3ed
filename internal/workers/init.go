package workers

import (
	"context"
	"sync"
	"time"

	"aiso/tripdesk/internal/common"
	"aiso/tripdesk/internal/metrics"
)

const monitorInterval = 30 * time.Second

type WorkersContainer struct {
	Planner *PlanningWorker
	Monitor *QueueMonitor

	wg sync.WaitGroup
}

// InitWorkers starts the planning workers and the queue monitor in the
// background. They stop when ctx is cancelled; Wait blocks until they have.
func InitWorkers(
	ctx context.Context,
	queue common.TaskQueue,
	planner FlightPlanner,
	reasoning ReasoningRecorder,
	m *metrics.MetricsRegistry,
	numWorkers int,
) *WorkersContainer {
	c := &WorkersContainer{
		Planner: NewPlanningWorker("planner", queue, planner, reasoning, m),
		Monitor: NewQueueMonitor(queue, m),
	}

	c.wg.Add(2)
	go func() {
		defer c.wg.Done()
		c.Planner.Start(ctx, numWorkers)
	}()
	go func() {
		defer c.wg.Done()
		c.Monitor.Start(ctx, monitorInterval)
	}()
	return c
}

func (c *WorkersContainer) Wait() {
	c.wg.Wait()
}
