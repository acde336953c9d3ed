package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"aiso/tripdesk/internal/common"
	"aiso/tripdesk/internal/config"
	"aiso/tripdesk/internal/constants"
	"aiso/tripdesk/internal/logging"
	"aiso/tripdesk/internal/metrics"
	"aiso/tripdesk/internal/models/dtos"
	"aiso/tripdesk/internal/models/entities"
)

func TestMain(m *testing.M) {
	logging.SetLogger(zap.NewNop().Sugar())
	os.Exit(m.Run())
}

// Mock services

type mockPreferences struct {
	fetchFunc func(ctx context.Context, meetingID string) (entities.PreferenceRecord, error)
}

func (m *mockPreferences) Fetch(ctx context.Context, meetingID string) (entities.PreferenceRecord, error) {
	return m.fetchFunc(ctx, meetingID)
}

type mockBookings struct {
	createFunc func(ctx context.Context, req dtos.CreateBookingRequest) (*entities.Booking, error)
	getFunc    func(ctx context.Context, bookingID string) (*entities.Booking, error)
}

func (m *mockBookings) Create(ctx context.Context, req dtos.CreateBookingRequest) (*entities.Booking, error) {
	return m.createFunc(ctx, req)
}

func (m *mockBookings) Get(ctx context.Context, bookingID string) (*entities.Booking, error) {
	return m.getFunc(ctx, bookingID)
}

type mockSearcher struct {
	lastReq dtos.FlightSearchRequest
}

func (m *mockSearcher) Search(_ context.Context, req dtos.FlightSearchRequest) (*dtos.FlightSearchResponse, error) {
	m.lastReq = req
	return &dtos.FlightSearchResponse{SearchID: "s_1", Status: "completed", Candidates: []entities.FlightCandidate{}}, nil
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestGetPreferencesHandler_PassesMeetingID(t *testing.T) {
	var got string
	svc := &mockPreferences{fetchFunc: func(_ context.Context, meetingID string) (entities.PreferenceRecord, error) {
		got = meetingID
		return entities.PreferenceRecord{MeetingID: meetingID, CabinClass: entities.CabinFirst}, nil
	}}

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/meetings/m9/essential", nil), "id", "m9")
	rec := httptest.NewRecorder()
	GetPreferencesHandler(svc)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if got != "m9" {
		t.Errorf("Expected meeting id m9, got %q", got)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Expected JSON content type, got %s", rec.Header().Get("Content-Type"))
	}
}

func TestGetPreferencesHandler_StoreFailureIs500WithGenericMessage(t *testing.T) {
	svc := &mockPreferences{fetchFunc: func(context.Context, string) (entities.PreferenceRecord, error) {
		return entities.PreferenceRecord{}, common.StoreFailure("read preference defaults", errors.New("connection refused"))
	}}

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/meetings/m1/essential", nil), "id", "m1")
	rec := httptest.NewRecorder()
	GetPreferencesHandler(svc)(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
	var body dtos.ErrorResponse
	json.NewDecoder(rec.Body).Decode(&body)
	if strings.Contains(body.Error, "connection refused") {
		t.Errorf("Expected internal cause hidden, got %q", body.Error)
	}
	if body.Code != constants.ErrCodeStoreFailure {
		t.Errorf("Expected STORE_FAILURE code, got %q", body.Code)
	}
}

func TestGetBookingHandler_NotFound(t *testing.T) {
	svc := &mockBookings{getFunc: func(context.Context, string) (*entities.Booking, error) {
		return nil, common.NotFound(constants.MsgBookingNotFound)
	}}

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/bookings/b_x", nil), "id", "b_x")
	rec := httptest.NewRecorder()
	GetBookingHandler(svc)(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
	var body dtos.ErrorResponse
	json.NewDecoder(rec.Body).Decode(&body)
	if body.Error != "not found" {
		t.Errorf("Expected {error: not found}, got %+v", body)
	}
}

func TestCreateBookingHandler_MalformedBody(t *testing.T) {
	called := false
	svc := &mockBookings{createFunc: func(context.Context, dtos.CreateBookingRequest) (*entities.Booking, error) {
		called = true
		return nil, nil
	}}

	rec := httptest.NewRecorder()
	CreateBookingHandler(svc)(rec, httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(`{"candidateId":`)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
	if called {
		t.Error("Expected service not to be called")
	}
}

func TestSearchFlightsHandler_NestedFreeText(t *testing.T) {
	svc := &mockSearcher{}

	body := `{"meetingId":"meeting_1","preferences":{"freeText":"aisle seat"}}`
	rec := httptest.NewRecorder()
	SearchFlightsHandler(svc)(rec, httptest.NewRequest(http.MethodPost, "/flights/search", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if svc.lastReq.MeetingID != "meeting_1" || svc.lastReq.FreeTextValue() != "aisle seat" {
		t.Errorf("Unexpected request passed to service: %+v", svc.lastReq)
	}
}

func TestHealthCheckHandler_DownComponent(t *testing.T) {
	checks := map[string]HealthCheck{
		"store": {Backend: "memory", Ping: func(context.Context) error { return nil }},
		"redis": {Backend: "redis", Ping: func(context.Context) error { return errors.New("dial tcp: refused") }},
	}

	rec := httptest.NewRecorder()
	HealthCheckHandler(checks, time.Now().Add(-time.Minute))(rec, httptest.NewRequest(http.MethodGet, "/healthCheck", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected 503, got %d", rec.Code)
	}
	var body entities.HealthCheckResponse
	json.NewDecoder(rec.Body).Decode(&body)
	if body.Status != "down" || body.Components["store"].Status != "ok" || body.Components["redis"].Details == "" {
		t.Errorf("Unexpected health body: %+v", body)
	}
}

func TestInitDependencies_SQLiteWithRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, _ := strings.Cut(mr.Addr(), ":")

	cfg := &config.Config{
		StoreBackend:          constants.StoreKindSQLite,
		SQLitePath:            filepath.Join(t.TempDir(), "tripdesk.db"),
		RedisHost:             host,
		RedisPort:             port,
		RedisPrefix:           "test:",
		CandidateCacheBackend: constants.StoreKindRedis,
		CandidateTTL:          time.Minute,
		SearchCandidateCount:  3,
		SearchPriceFloor:      800,
		SearchPriceCeiling:    2000,
	}

	deps, err := InitDependencies(context.Background(), cfg, metrics.NewMetricsRegistry(prometheus.NewRegistry()))
	if err != nil {
		t.Fatalf("InitDependencies failed: %v", err)
	}
	defer deps.Close()

	ctx := context.Background()
	if err := deps.Services.Seed.SeedDemo(ctx, time.Now()); err != nil {
		t.Fatalf("SeedDemo failed: %v", err)
	}

	events, err := deps.Services.Events.List(ctx)
	if err != nil || len(events) != 2 {
		t.Fatalf("Expected 2 events from the sql repository, got %d err=%v", len(events), err)
	}

	resp, err := deps.Services.Search.Search(ctx, dtos.FlightSearchRequest{MeetingID: "meeting_1"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if !mr.Exists("test:cache:candidates:meeting_1") {
		t.Error("Expected candidates cached in redis")
	}
	if _, ok, _ := deps.Services.Search.LookupCandidate(ctx, "meeting_1", resp.Candidates[0].ID); !ok {
		t.Error("Expected candidate lookup through redis cache")
	}

	for name := range map[string]bool{"store": true, "sql": true, "redis": true} {
		check, ok := deps.HealthChecks()[name]
		if !ok {
			t.Errorf("Expected %s health check", name)
			continue
		}
		if err := check.Ping(ctx); err != nil {
			t.Errorf("%s ping failed: %v", name, err)
		}
	}
}

func TestInitDependencies_RedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, _ := strings.Cut(mr.Addr(), ":")

	cfg := &config.Config{
		StoreBackend:          constants.StoreKindRedis,
		RedisHost:             host,
		RedisPort:             port,
		RedisPrefix:           "td:",
		CandidateCacheBackend: constants.StoreKindMemory,
		CandidateTTL:          time.Minute,
		SearchCandidateCount:  3,
		SearchPriceFloor:      800,
		SearchPriceCeiling:    2000,
	}

	deps, err := InitDependencies(context.Background(), cfg, metrics.NewMetricsRegistry(prometheus.NewRegistry()))
	if err != nil {
		t.Fatalf("InitDependencies failed: %v", err)
	}
	defer deps.Close()

	ctx := context.Background()
	if _, err := deps.Services.Confirmation.Confirm(ctx, "m1", []byte(`{"class":"first"}`)); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	rec, err := deps.Services.Preferences.Fetch(ctx, "m1")
	if err != nil || rec.CabinClass != entities.CabinFirst {
		t.Errorf("Expected first class from redis store, got %+v err=%v", rec, err)
	}
	if deps.Store.Backend() != "redis" {
		t.Errorf("Expected redis backend, got %s", deps.Store.Backend())
	}
}

func TestInitDependencies_PlanningWorkers(t *testing.T) {
	cfg := &config.Config{
		StoreBackend:          constants.StoreKindMemory,
		CandidateCacheBackend: constants.StoreKindMemory,
		PlanningWorkers:       1,
		PlanningQueueBackend:  constants.StoreKindMemory,
		PlanningQueueCapacity: 4,
		CandidateTTL:          time.Minute,
		SearchCandidateCount:  3,
		SearchPriceFloor:      800,
		SearchPriceCeiling:    2000,
	}

	deps, err := InitDependencies(context.Background(), cfg, metrics.NewMetricsRegistry(prometheus.NewRegistry()))
	if err != nil {
		t.Fatalf("InitDependencies failed: %v", err)
	}
	defer deps.Close()

	ctx, cancel := context.WithCancel(context.Background())
	bg := deps.StartWorkers(ctx)
	if bg == nil {
		t.Fatal("Expected workers to start")
	}
	defer func() {
		cancel()
		bg.Wait()
	}()

	if _, err := deps.Services.Confirmation.Confirm(ctx, "m1", []byte(`{"from":"jfk","to":"lhr"}`)); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := deps.Services.Reasoning.Get(ctx, "m1")
		if err != nil {
			t.Fatalf("Get reasoning failed: %v", err)
		}
		last := resp.Log[len(resp.Log)-1]
		if strings.HasPrefix(last.Text, "Planning complete") {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("Expected planning to complete within 2s")
}

func TestInitDependencies_NoWorkersWithoutQueue(t *testing.T) {
	cfg := &config.Config{
		StoreBackend:          constants.StoreKindMemory,
		CandidateCacheBackend: constants.StoreKindMemory,
		CandidateTTL:          time.Minute,
		SearchCandidateCount:  3,
		SearchPriceFloor:      800,
		SearchPriceCeiling:    2000,
	}

	deps, err := InitDependencies(context.Background(), cfg, metrics.NewMetricsRegistry(prometheus.NewRegistry()))
	if err != nil {
		t.Fatalf("InitDependencies failed: %v", err)
	}
	defer deps.Close()

	if deps.StartWorkers(context.Background()) != nil {
		t.Error("Expected no workers without a planning queue")
	}
}
