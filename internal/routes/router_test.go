package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"aiso/tripdesk/internal/api"
	"aiso/tripdesk/internal/common"
	"aiso/tripdesk/internal/config"
	"aiso/tripdesk/internal/db/repositories"
	"aiso/tripdesk/internal/logging"
	"aiso/tripdesk/internal/metrics"
	"aiso/tripdesk/internal/models/dtos"
	"aiso/tripdesk/internal/models/entities"
	"aiso/tripdesk/internal/store"
)

func TestMain(m *testing.M) {
	logging.SetLogger(zap.NewNop().Sugar())
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		AllowedOrigins:       []string{"http://localhost:3000"},
		RateLimitRPS:         1000,
		RateLimitBurst:       1000,
		CandidateTTL:         time.Minute,
		SearchCandidateCount: 3,
		SearchPriceFloor:     800,
		SearchPriceCeiling:   2000,
	}
}

func setupRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.NewMetricsRegistry(reg)
	kv := store.NewInstrumentedStore(store.NewMemoryStore(), m)

	deps := api.NewDependencies(cfg, m, kv, repositories.NewKVEventRepository(kv), common.NewCacheService(time.Minute, time.Minute))
	if err := deps.Services.Seed.SeedDemo(context.Background(), time.Now()); err != nil {
		t.Fatalf("SeedDemo failed: %v", err)
	}
	return RegisterRoutes(deps, time.Now(), reg)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("Failed to decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestRouter_ListMeetingsAtBothRoots(t *testing.T) {
	h := setupRouter(t, testConfig())

	for _, path := range []string{"/meetings", "/api/meetings", "/api/events"} {
		rec := do(t, h, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
		events := decode[[]entities.Event](t, rec)
		if len(events) != 2 || events[0].Title != "AI - AISO Meetup" {
			t.Errorf("%s: unexpected events %+v", path, events)
		}
	}
}

func TestRouter_MeetingsCalendar(t *testing.T) {
	h := setupRouter(t, testConfig())

	rec := do(t, h, http.MethodGet, "/meetings.ics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/calendar") {
		t.Errorf("Unexpected content type %s", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Body.String(), "BEGIN:VCALENDAR") {
		t.Errorf("Expected calendar body, got %s", rec.Body.String())
	}
}

func TestRouter_ConfirmThenFetch(t *testing.T) {
	h := setupRouter(t, testConfig())

	rec := do(t, h, http.MethodPost, "/meetings/m1/essential/confirm", `{"class":"economy"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	confirm := decode[dtos.ConfirmResponse](t, rec)
	if confirm.Status != "accepted" || confirm.MeetingID != "m1" || !strings.HasPrefix(confirm.TaskID, "agent_task_") {
		t.Errorf("Unexpected confirm response: %+v", confirm)
	}

	rec = do(t, h, http.MethodGet, "/api/meetings/m1/essential", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	prefs := decode[entities.PreferenceRecord](t, rec)
	if prefs.CabinClass != entities.CabinEconomy || prefs.DepartureAirport.Code != "LAX" || prefs.ArrivalAirport.Code != "AMS" {
		t.Errorf("Unexpected merged record: %+v", prefs)
	}
	if prefs.StayRange == nil || prefs.StayRange.MaxDays != 5 {
		t.Errorf("Expected stayRange kept, got %+v", prefs.StayRange)
	}

	rec = do(t, h, http.MethodGet, "/agent/reasoning/m1", "")
	log := decode[dtos.ReasoningResponse](t, rec)
	if log.MeetingID != "m1" || len(log.Log) != 1 || log.Log[0].Text != "Planning started" {
		t.Errorf("Unexpected reasoning log: %+v", log)
	}
}

func TestRouter_ConfirmBadBody(t *testing.T) {
	h := setupRouter(t, testConfig())

	for _, body := range []string{"", "not json", "[]"} {
		rec := do(t, h, http.MethodPost, "/meetings/m1/essential/confirm", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Body %q: expected 400, got %d", body, rec.Code)
		}
		if errBody := decode[dtos.ErrorResponse](t, rec); errBody.Error == "" {
			t.Errorf("Body %q: expected error message", body)
		}
	}
}

func TestRouter_SearchAndBook(t *testing.T) {
	cfg := testConfig()
	cfg.BookingValidateCandidates = true
	h := setupRouter(t, cfg)

	rec := do(t, h, http.MethodPost, "/api/flights/search", `{"meetingId":"meeting_1","preferences":{"freeText":"morning flights"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	search := decode[dtos.FlightSearchResponse](t, rec)
	if search.Status != "completed" || len(search.Candidates) != 3 {
		t.Fatalf("Unexpected search: %+v", search)
	}
	for _, c := range search.Candidates {
		if !strings.Contains(c.Itinerary, "JFK") || !strings.Contains(c.Itinerary, "AMS") {
			t.Errorf("Unexpected itinerary %q", c.Itinerary)
		}
	}

	body, _ := json.Marshal(dtos.CreateBookingRequest{MeetingID: "meeting_1", CandidateID: search.Candidates[0].ID})
	rec = do(t, h, http.MethodPost, "/bookings", string(body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	booking := decode[entities.Booking](t, rec)
	if booking.Status != "confirmed" || booking.ConfirmationNumber == "" {
		t.Errorf("Unexpected booking: %+v", booking)
	}

	rec = do(t, h, http.MethodGet, "/bookings/"+booking.BookingID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/bookings", `{"meetingId":"meeting_1","candidateId":"f_never_seen"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown candidate with validation on, got %d", rec.Code)
	}
}

func TestRouter_BookingErrors(t *testing.T) {
	h := setupRouter(t, testConfig())

	rec := do(t, h, http.MethodPost, "/bookings", `{"meetingId":"meeting_1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without candidateId, got %d", rec.Code)
	}
	if errBody := decode[dtos.ErrorResponse](t, rec); errBody.Error != "missing candidateId" {
		t.Errorf("Unexpected error %q", errBody.Error)
	}

	rec = do(t, h, http.MethodGet, "/bookings/b_nope", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown booking, got %d", rec.Code)
	}
}

func TestRouter_SearchMissingMeeting(t *testing.T) {
	h := setupRouter(t, testConfig())

	rec := do(t, h, http.MethodPost, "/flights/search", `{"freeText":"anything"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
	if errBody := decode[dtos.ErrorResponse](t, rec); errBody.Code != "MISSING_MEETING" {
		t.Errorf("Expected MISSING_MEETING, got %+v", errBody)
	}
}

func TestRouter_RateLimitOnWrites(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitRPS = 0.001
	cfg.RateLimitBurst = 1
	h := setupRouter(t, cfg)

	first := do(t, h, http.MethodPost, "/bookings", `{"meetingId":"m1","candidateId":"f_1"}`)
	second := do(t, h, http.MethodPost, "/bookings", `{"meetingId":"m1","candidateId":"f_1"}`)
	if first.Code != http.StatusCreated || second.Code != http.StatusTooManyRequests {
		t.Errorf("Expected 201 then 429, got %d then %d", first.Code, second.Code)
	}

	if rec := do(t, h, http.MethodGet, "/meetings", ""); rec.Code != http.StatusOK {
		t.Errorf("Expected reads not to be limited, got %d", rec.Code)
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	h := setupRouter(t, testConfig())

	rec := do(t, h, http.MethodGet, "/healthCheck", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	health := decode[entities.HealthCheckResponse](t, rec)
	if health.Status != "ok" || health.Components["store"].Backend != "memory" {
		t.Errorf("Unexpected health: %+v", health)
	}

	do(t, h, http.MethodGet, "/meetings", "")
	rec = do(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `endpoint="/meetings"`) {
		t.Errorf("Expected request metric for /meetings in:\n%s", rec.Body.String())
	}
}
