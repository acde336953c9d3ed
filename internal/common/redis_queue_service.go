package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"aiso/tripdesk/internal/logging"
)

// RedisTaskQueue is a TaskQueue on a Redis stream read through one consumer group
type RedisTaskQueue struct {
	client *redis.Client
	stream string
	group  string
	maxLen int64
}

// NewRedisTaskQueue creates the queue and its consumer group. The stream is
// trimmed to roughly maxLen entries on every append.
func NewRedisTaskQueue(ctx context.Context, client *redis.Client, stream, group string, maxLen int64) (*RedisTaskQueue, error) {
	q := &RedisTaskQueue{client: client, stream: stream, group: group, maxLen: maxLen}
	if err := q.createConsumerGroup(ctx); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *RedisTaskQueue) createConsumerGroup(ctx context.Context) error {
	// XGROUP CREATE stream group 0 MKSTREAM
	err := q.client.XGroupCreateMkStream(ctx, q.stream, q.group, "0").Err()
	if err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	return nil
}

func (q *RedisTaskQueue) Enqueue(ctx context.Context, task *PlanningTask) error {
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal planning task: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: q.stream,
		MaxLen: q.maxLen,
		Approx: true,
		Values: map[string]interface{}{"data": string(data)},
	}
	if err := q.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("failed to add to stream: %w", err)
	}
	return nil
}

func (q *RedisTaskQueue) Dequeue(ctx context.Context, consumer string, block time.Duration) (*PlanningTask, string, error) {
	// XREADGROUP GROUP group consumer BLOCK ms COUNT 1 STREAMS stream >
	streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    q.group,
		Consumer: consumer,
		Streams:  []string{q.stream, ">"},
		Count:    1,
		Block:    block,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to read from stream: %w", err)
	}
	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return nil, "", nil
	}

	msg := streams[0].Messages[0]
	task, err := decodeTask(msg)
	if err != nil {
		return nil, msg.ID, err
	}
	return task, msg.ID, nil
}

func (q *RedisTaskQueue) Ack(ctx context.Context, messageID string) error {
	return q.client.XAck(ctx, q.stream, q.group, messageID).Err()
}

// ClaimStale takes over messages left unacknowledged for at least minIdle,
// typically by a worker that died mid-task.
func (q *RedisTaskQueue) ClaimStale(ctx context.Context, consumer string, minIdle time.Duration) ([]*PlanningTask, []string, error) {
	pending, err := q.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: q.stream,
		Group:  q.group,
		Start:  "-",
		End:    "+",
		Count:  100,
	}).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get pending messages: %w", err)
	}

	var staleIDs []string
	for _, p := range pending {
		if p.Idle >= minIdle {
			staleIDs = append(staleIDs, p.ID)
		}
	}
	if len(staleIDs) == 0 {
		return nil, nil, nil
	}

	messages, err := q.client.XClaim(ctx, &redis.XClaimArgs{
		Stream:   q.stream,
		Group:    q.group,
		Consumer: consumer,
		MinIdle:  minIdle,
		Messages: staleIDs,
	}).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to claim stale messages: %w", err)
	}

	var (
		tasks []*PlanningTask
		ids   []string
	)
	for _, msg := range messages {
		task, err := decodeTask(msg)
		if err != nil {
			logging.Warn("Dropping undecodable planning task", "message_id", msg.ID, "error", err)
			_ = q.Ack(ctx, msg.ID)
			continue
		}
		tasks = append(tasks, task)
		ids = append(ids, msg.ID)
	}
	return tasks, ids, nil
}

func (q *RedisTaskQueue) Stats(ctx context.Context) (QueueStats, error) {
	length, err := q.backlog(ctx)
	if err != nil {
		return QueueStats{}, fmt.Errorf("failed to get queue length: %w", err)
	}
	pending, err := q.client.XPending(ctx, q.stream, q.group).Result()
	if err != nil {
		return QueueStats{Length: length}, fmt.Errorf("failed to get pending count: %w", err)
	}
	return QueueStats{Length: length, Pending: pending.Count}, nil
}

// backlog counts entries after the group's last delivered id. XLEN would also
// count acked entries that MAXLEN has not trimmed yet.
func (q *RedisTaskQueue) backlog(ctx context.Context) (int64, error) {
	groups, err := q.client.XInfoGroups(ctx, q.stream).Result()
	if err != nil {
		return 0, err
	}

	start := "-"
	for _, g := range groups {
		if g.Name == q.group && g.LastDeliveredID != "" && g.LastDeliveredID != "0" && g.LastDeliveredID != "0-0" {
			start = "(" + g.LastDeliveredID
		}
	}

	msgs, err := q.client.XRangeN(ctx, q.stream, start, "+", q.maxLen).Result()
	if err != nil {
		return 0, err
	}
	return int64(len(msgs)), nil
}

func (q *RedisTaskQueue) Backend() string {
	return "redis"
}

func decodeTask(msg redis.XMessage) (*PlanningTask, error) {
	data, ok := msg.Values["data"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid message format: data field missing")
	}
	var task PlanningTask
	if err := json.Unmarshal([]byte(data), &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal planning task: %w", err)
	}
	return &task, nil
}
