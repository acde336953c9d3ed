package common

import (
	"context"
	"time"
)

// PlanningTask asks the planning workers to act on a freshly confirmed
// preference record.
type PlanningTask struct {
	TaskID     string    `json:"task_id"`
	MeetingID  string    `json:"meeting_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// QueueStats is a point-in-time view of a task queue
type QueueStats struct {
	// Length counts tasks not yet delivered to any consumer
	Length int64
	// Pending counts delivered tasks awaiting an ack
	Pending int64
}

// TaskQueue is implemented by RedisTaskQueue and MemoryTaskQueue.
// Dequeue returns (nil, "", nil) when nothing arrived within block.
type TaskQueue interface {
	Enqueue(ctx context.Context, task *PlanningTask) error
	Dequeue(ctx context.Context, consumer string, block time.Duration) (*PlanningTask, string, error)
	Ack(ctx context.Context, messageID string) error
	ClaimStale(ctx context.Context, consumer string, minIdle time.Duration) ([]*PlanningTask, []string, error)
	Stats(ctx context.Context) (QueueStats, error)
	Backend() string
}
