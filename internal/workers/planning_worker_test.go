package workers

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"aiso/tripdesk/internal/common"
	"aiso/tripdesk/internal/logging"
	"aiso/tripdesk/internal/metrics"
	"aiso/tripdesk/internal/models/dtos"
	"aiso/tripdesk/internal/models/entities"
)

func TestMain(m *testing.M) {
	logging.SetLogger(zap.NewNop().Sugar())
	os.Exit(m.Run())
}

type mockPlanner struct {
	searchFunc func(ctx context.Context, req dtos.FlightSearchRequest) (*dtos.FlightSearchResponse, error)
}

func (m *mockPlanner) Search(ctx context.Context, req dtos.FlightSearchRequest) (*dtos.FlightSearchResponse, error) {
	return m.searchFunc(ctx, req)
}

type recordedEntry struct {
	meetingID, entryType, text string
	meta                       map[string]any
}

type mockRecorder struct {
	mu      sync.Mutex
	entries []recordedEntry
}

func (m *mockRecorder) Record(_ context.Context, meetingID, entryType, text string, meta map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, recordedEntry{meetingID, entryType, text, meta})
	return nil
}

func (m *mockRecorder) snapshot() []recordedEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]recordedEntry(nil), m.entries...)
}

func threeOptions(_ context.Context, req dtos.FlightSearchRequest) (*dtos.FlightSearchResponse, error) {
	return &dtos.FlightSearchResponse{
		SearchID: "s_1",
		Status:   "completed",
		Candidates: []entities.FlightCandidate{
			{ID: "f_1", Price: 1500, Provider: "AirX"},
			{ID: "f_2", Price: 950.5, Provider: "FlyFast"},
			{ID: "f_3", Price: 1999, Provider: "CloudAir"},
		},
	}, nil
}

func TestPlanningWorker_ProcessReportsCheapest(t *testing.T) {
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	rec := &mockRecorder{}
	w := NewPlanningWorker("test", common.NewMemoryTaskQueue(1), &mockPlanner{searchFunc: threeOptions}, rec, m)

	if err := w.Process(context.Background(), &common.PlanningTask{TaskID: "agent_task_1", MeetingID: "m1"}); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	entries := rec.snapshot()
	if len(entries) != 2 {
		t.Fatalf("Expected 2 log entries, got %d", len(entries))
	}
	if entries[0].entryType != "step" || entries[1].entryType != "stage" {
		t.Errorf("Unexpected entry types: %s, %s", entries[0].entryType, entries[1].entryType)
	}
	if !strings.Contains(entries[1].text, "950.50") || entries[1].meta["candidateId"] != "f_2" {
		t.Errorf("Expected cheapest candidate f_2, got %q %v", entries[1].text, entries[1].meta)
	}
	if got := testutil.ToFloat64(m.PlanningTasksTotal.WithLabelValues("ok")); got != 1 {
		t.Errorf("Expected 1 ok task, got %v", got)
	}
}

func TestPlanningWorker_ProcessSearchFailure(t *testing.T) {
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	rec := &mockRecorder{}
	planner := &mockPlanner{searchFunc: func(context.Context, dtos.FlightSearchRequest) (*dtos.FlightSearchResponse, error) {
		return nil, common.StoreFailure("read preferences", errors.New("down"))
	}}
	w := NewPlanningWorker("test", common.NewMemoryTaskQueue(1), planner, rec, m)

	if err := w.Process(context.Background(), &common.PlanningTask{TaskID: "t", MeetingID: "m1"}); err == nil {
		t.Fatal("Expected error, got nil")
	}
	entries := rec.snapshot()
	if len(entries) != 2 || !strings.HasPrefix(entries[1].text, "Planning failed") {
		t.Errorf("Expected failure entry, got %+v", entries)
	}
	if got := testutil.ToFloat64(m.PlanningTasksTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("Expected 1 failed task, got %v", got)
	}
}

func TestPlanningWorker_RejectsTaskWithoutMeeting(t *testing.T) {
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	rec := &mockRecorder{}
	w := NewPlanningWorker("test", common.NewMemoryTaskQueue(1), &mockPlanner{searchFunc: threeOptions}, rec, m)

	if err := w.Process(context.Background(), &common.PlanningTask{TaskID: "t"}); err == nil {
		t.Fatal("Expected error, got nil")
	}
	if len(rec.snapshot()) != 0 {
		t.Error("Expected nothing recorded")
	}
}

func TestInitWorkers_DrainsQueue(t *testing.T) {
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	rec := &mockRecorder{}
	queue := common.NewMemoryTaskQueue(8)
	ctx, cancel := context.WithCancel(context.Background())

	c := InitWorkers(ctx, queue, &mockPlanner{searchFunc: threeOptions}, rec, m, 2)

	for _, id := range []string{"m1", "m2", "m3"} {
		if err := queue.Enqueue(ctx, &common.PlanningTask{TaskID: "t_" + id, MeetingID: id}); err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(rec.snapshot()) < 6 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	c.Wait()

	if got := len(rec.snapshot()); got != 6 {
		t.Fatalf("Expected 6 entries for 3 tasks, got %d", got)
	}
	if stats, _ := queue.Stats(context.Background()); stats.Length != 0 || stats.Pending != 0 {
		t.Errorf("Expected drained queue, got %+v", stats)
	}
}

func TestQueueMonitor_PublishesGauges(t *testing.T) {
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	queue := common.NewMemoryTaskQueue(8)
	queue.Enqueue(context.Background(), &common.PlanningTask{TaskID: "a", MeetingID: "m"})
	queue.Enqueue(context.Background(), &common.PlanningTask{TaskID: "b", MeetingID: "m"})

	stats := NewQueueMonitor(queue, m).Check(context.Background())

	if stats.Length != 2 {
		t.Errorf("Expected length 2, got %d", stats.Length)
	}
	if got := testutil.ToFloat64(m.PlanningQueueDepth); got != 2 {
		t.Errorf("Expected depth gauge 2, got %v", got)
	}
}
