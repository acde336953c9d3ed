package common

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

var ErrQueueFull = errors.New("task queue is full")

// MemoryTaskQueue is a bounded in-process TaskQueue. Tasks are delivered once;
// there is nothing to reclaim after a crash.
type MemoryTaskQueue struct {
	tasks chan *PlanningTask
	seq   atomic.Int64

	mu      sync.Mutex
	pending map[string]struct{}
}

func NewMemoryTaskQueue(capacity int) *MemoryTaskQueue {
	return &MemoryTaskQueue{
		tasks:   make(chan *PlanningTask, max(capacity, 1)),
		pending: make(map[string]struct{}),
	}
}

// Enqueue never blocks: a full queue is reported as ErrQueueFull
func (q *MemoryTaskQueue) Enqueue(_ context.Context, task *PlanningTask) error {
	select {
	case q.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *MemoryTaskQueue) Dequeue(ctx context.Context, _ string, block time.Duration) (*PlanningTask, string, error) {
	timer := time.NewTimer(block)
	defer timer.Stop()

	select {
	case task := <-q.tasks:
		id := strconv.FormatInt(q.seq.Add(1), 10)
		q.mu.Lock()
		q.pending[id] = struct{}{}
		q.mu.Unlock()
		return task, id, nil
	case <-timer.C:
		return nil, "", nil
	case <-ctx.Done():
		return nil, "", ctx.Err()
	}
}

func (q *MemoryTaskQueue) Ack(_ context.Context, messageID string) error {
	q.mu.Lock()
	delete(q.pending, messageID)
	q.mu.Unlock()
	return nil
}

func (q *MemoryTaskQueue) ClaimStale(context.Context, string, time.Duration) ([]*PlanningTask, []string, error) {
	return nil, nil, nil
}

func (q *MemoryTaskQueue) Stats(context.Context) (QueueStats, error) {
	q.mu.Lock()
	pending := len(q.pending)
	q.mu.Unlock()
	return QueueStats{Length: int64(len(q.tasks)), Pending: int64(pending)}, nil
}

func (q *MemoryTaskQueue) Backend() string {
	return "memory"
}
