package workers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"

	"aiso/tripdesk/internal/common"
	"aiso/tripdesk/internal/constants"
	"aiso/tripdesk/internal/logging"
	"aiso/tripdesk/internal/metrics"
	"aiso/tripdesk/internal/models/dtos"
	"aiso/tripdesk/internal/models/entities"
)

const (
	dequeueBlock   = 2 * time.Second
	claimInterval  = 2 * time.Minute
	staleAfter     = 5 * time.Minute
	errorBackoff   = time.Second
	planningPrompt = "agent planning"
)

// FlightPlanner runs a search on the meeting's current preferences
type FlightPlanner interface {
	Search(ctx context.Context, req dtos.FlightSearchRequest) (*dtos.FlightSearchResponse, error)
}

// ReasoningRecorder appends to a meeting's reasoning log
type ReasoningRecorder interface {
	Record(ctx context.Context, meetingID, entryType, text string, meta map[string]any) error
}

// PlanningWorker consumes confirmed-preference tasks. For each one it runs a
// flight search on the confirmed route and reports the cheapest option in the
// meeting's reasoning log.
type PlanningWorker struct {
	workerID  string
	queue     common.TaskQueue
	planner   FlightPlanner
	reasoning ReasoningRecorder
	metrics   *metrics.MetricsRegistry
	block     time.Duration
}

func NewPlanningWorker(workerID string, queue common.TaskQueue, planner FlightPlanner, reasoning ReasoningRecorder, m *metrics.MetricsRegistry) *PlanningWorker {
	return &PlanningWorker{
		workerID:  workerID,
		queue:     queue,
		planner:   planner,
		reasoning: reasoning,
		metrics:   m,
		block:     dequeueBlock,
	}
}

// Start runs numWorkers consumers plus the stale-message claimer and returns
// once ctx is cancelled and all of them have stopped.
func (w *PlanningWorker) Start(ctx context.Context, numWorkers int) {
	logging.Info("Planning workers starting", "workers", numWorkers, "queue", w.queue.Backend(), "worker_id", w.workerID)

	var wg sync.WaitGroup
	for i := range numWorkers {
		consumer := fmt.Sprintf("%s-%d", w.workerID, i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.processQueue(ctx, consumer)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		w.claimStaleMessages(ctx)
	}()

	wg.Wait()
	logging.Info("Planning workers stopped", "worker_id", w.workerID)
}

func (w *PlanningWorker) processQueue(ctx context.Context, consumer string) {
	processed, failed := 0, 0

	for {
		if ctx.Err() != nil {
			logging.Info("Planning worker shutting down", "consumer", consumer, "processed", processed, "failed", failed)
			return
		}

		task, messageID, err := w.queue.Dequeue(ctx, consumer, w.block)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			logging.Warn("Planning dequeue failed", "consumer", consumer, "error", err)
			if messageID != "" {
				// undecodable payload, retrying cannot help
				_ = w.queue.Ack(ctx, messageID)
			}
			sleep(ctx, errorBackoff)
			continue
		}
		if task == nil {
			continue
		}

		// failed tasks are acknowledged too; the failure is in the meeting log
		if err := w.Process(ctx, task); err != nil {
			logging.Error("Planning task failed", "consumer", consumer, "task_id", task.TaskID, "meeting_id", task.MeetingID, "error", err)
			failed++
		} else {
			processed++
		}
		if err := w.queue.Ack(ctx, messageID); err != nil {
			logging.Warn("Planning ack failed", "consumer", consumer, "message_id", messageID, "error", err)
		}
	}
}

// Process plans one task
func (w *PlanningWorker) Process(ctx context.Context, task *common.PlanningTask) error {
	if task.MeetingID == "" {
		w.metrics.PlanningTasksTotal.WithLabelValues("invalid").Inc()
		return errors.New("planning task without meeting id")
	}
	meta := map[string]any{"taskId": task.TaskID}

	if err := w.reasoning.Record(ctx, task.MeetingID, constants.LogTypeStep, "Searching flights for confirmed preferences", meta); err != nil {
		w.metrics.PlanningTasksTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("record planning step: %w", err)
	}

	resp, err := w.planner.Search(ctx, dtos.FlightSearchRequest{MeetingID: task.MeetingID, FreeText: planningPrompt})
	if err != nil {
		w.metrics.PlanningTasksTotal.WithLabelValues("error").Inc()
		if recErr := w.reasoning.Record(ctx, task.MeetingID, constants.LogTypeInfo, "Planning failed: "+common.UserMessage(err), meta); recErr != nil {
			logging.Warn("Failed to record planning failure", "task_id", task.TaskID, "error", recErr)
		}
		return fmt.Errorf("search: %w", err)
	}

	summary := "Planning complete: no options found"
	doneMeta := map[string]any{"taskId": task.TaskID, "searchId": resp.SearchID}
	if len(resp.Candidates) > 0 {
		cheapest := lo.MinBy(resp.Candidates, func(a, b entities.FlightCandidate) bool { return a.Price < b.Price })
		summary = fmt.Sprintf("Planning complete: cheapest option %.2f with %s", cheapest.Price, cheapest.Provider)
		doneMeta["candidateId"] = cheapest.ID
	}

	if err := w.reasoning.Record(ctx, task.MeetingID, constants.LogTypeStage, summary, doneMeta); err != nil {
		w.metrics.PlanningTasksTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("record planning result: %w", err)
	}

	w.metrics.PlanningTasksTotal.WithLabelValues("ok").Inc()
	logging.Debug("Planning task done", "task_id", task.TaskID, "meeting_id", task.MeetingID, "search_id", resp.SearchID,
		"queued_for", time.Since(task.EnqueuedAt).String())
	return nil
}

func (w *PlanningWorker) claimStaleMessages(ctx context.Context) {
	ticker := time.NewTicker(claimInterval)
	defer ticker.Stop()
	claimer := w.workerID + "-claimer"

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.claimOnce(ctx, claimer)
		}
	}
}

func (w *PlanningWorker) claimOnce(ctx context.Context, claimer string) {
	tasks, ids, err := w.queue.ClaimStale(ctx, claimer, staleAfter)
	if err != nil {
		logging.Warn("Claiming stale planning tasks failed", "error", err)
		return
	}
	if len(tasks) > 0 {
		logging.Info("Claimed stale planning tasks", "count", len(tasks))
	}

	for i, task := range tasks {
		if err := w.Process(ctx, task); err != nil {
			logging.Error("Stale planning task failed", "task_id", task.TaskID, "error", err)
		}
		if err := w.queue.Ack(ctx, ids[i]); err != nil {
			logging.Warn("Planning ack failed", "message_id", ids[i], "error", err)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
