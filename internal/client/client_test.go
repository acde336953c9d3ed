package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
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
	"aiso/tripdesk/internal/routes"
	"aiso/tripdesk/internal/store"
)

func TestMain(m *testing.M) {
	logging.SetLogger(zap.NewNop().Sugar())
	os.Exit(m.Run())
}

func newTripdeskServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		RateLimitRPS:         1000,
		RateLimitBurst:       1000,
		CandidateTTL:         time.Minute,
		SearchCandidateCount: 3,
		SearchPriceFloor:     800,
		SearchPriceCeiling:   2000,
	}
	reg := prometheus.NewRegistry()
	m := metrics.NewMetricsRegistry(reg)
	kv := store.NewMemoryStore()
	deps := api.NewDependencies(cfg, m, kv, repositories.NewKVEventRepository(kv), common.NewCacheService(time.Minute, time.Minute))
	if err := deps.Services.Seed.SeedDemo(context.Background(), time.Now()); err != nil {
		t.Fatalf("SeedDemo failed: %v", err)
	}

	server := httptest.NewServer(routes.RegisterRoutes(deps, time.Now(), reg))
	t.Cleanup(server.Close)
	return server
}

func TestClient_FetchPreferences_NormalizesAtBoundary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/meetings/m1/essential" {
			t.Errorf("Expected path /meetings/m1/essential, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"from":{"code":"jfk"},"to":{"code":"ams"},"travelClass":"Business","stayRange":{"minDays":2,"maxDays":5}}`))
	}))
	defer server.Close()

	rec, err := NewClient(server.URL).FetchPreferences(context.Background(), "m1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.DepartureAirport.Code != "JFK" || rec.ArrivalAirport.Code != "AMS" {
		t.Errorf("Expected JFK/AMS, got %+v / %+v", rec.DepartureAirport, rec.ArrivalAirport)
	}
	if rec.CabinClass != entities.CabinBusiness || rec.Days != 5 || rec.MeetingID != "m1" {
		t.Errorf("Unexpected record: %+v", rec)
	}
}

func TestClient_FetchPreferences_BareLegacyAirportIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"from":{"code":"jfk"},"to":"ams"}`))
	}))
	defer server.Close()

	rec, err := NewClient(server.URL).FetchPreferences(context.Background(), "m1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.ArrivalAirport.Code != "" {
		t.Errorf("Expected empty arrival code for bare legacy string, got %q", rec.ArrivalAirport.Code)
	}
}

func TestClient_FetchPreferences_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).FetchPreferences(context.Background(), "ghost")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("Expected NOT_FOUND, got %v", err)
	}
}

func TestClient_ConfirmPreferences_EmptyMeetingMakesNoRequest(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).ConfirmPreferences(context.Background(), "  ", entities.PreferenceRecord{})
	if !errors.Is(err, common.ErrInvalidInput) {
		t.Fatalf("Expected INVALID_INPUT, got %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("Expected no request, got %d", calls.Load())
	}
}

func TestClient_ConfirmPreferences_SendsCanonicalRecord(t *testing.T) {
	var sent map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &sent)
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(dtos.ConfirmResponse{TaskID: "agent_task_1", MeetingID: "m1", Status: "accepted"})
	}))
	defer server.Close()

	rec := entities.PreferenceRecord{
		DepartureAirport: entities.Airport{Code: "jfk"},
		ArrivalAirport:   entities.Airport{Code: "ams"},
		CabinClass:       entities.CabinFirst,
	}
	resp, err := NewClient(server.URL).ConfirmPreferences(context.Background(), "m1", rec)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.TaskID != "agent_task_1" {
		t.Errorf("Unexpected response: %+v", resp)
	}

	from, ok := sent["departure_airport"].(map[string]any)
	if !ok || from["code"] != "JFK" {
		t.Errorf("Expected airport object with upper-case code, got %v", sent["departure_airport"])
	}
	if sent["meetingId"] != "m1" || sent["days"] != float64(3) {
		t.Errorf("Expected canonical defaults filled in, got %v", sent)
	}
}

func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url).ListMeetings(context.Background())
	if !errors.Is(err, common.ErrTransportFailure) {
		t.Fatalf("Expected TRANSPORT_FAILURE, got %v", err)
	}
	if common.UserMessage(err) == "" {
		t.Error("Expected a user-facing message")
	}
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		body   string
		want   error
	}{
		{http.StatusBadRequest, `{"error":"missing candidateId","code":"INVALID_INPUT"}`, common.ErrInvalidInput},
		{http.StatusBadRequest, `{"error":"meetingId is required","code":"MISSING_MEETING"}`, common.ErrMissingMeeting},
		{http.StatusNotFound, `{"error":"not found"}`, common.ErrNotFound},
		{http.StatusInternalServerError, `{"error":"boom"}`, common.ErrTransportFailure},
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte(tt.body))
		}))

		_, err := NewClient(server.URL).CreateBooking(context.Background(), "m1", "f_1")
		server.Close()

		if !errors.Is(err, tt.want) {
			t.Errorf("status %d: expected %v, got %v", tt.status, tt.want, err)
		}
	}
}

func TestClient_InputChecksBeforeIO(t *testing.T) {
	c := NewClient("http://127.0.0.1:1")
	ctx := context.Background()

	if _, err := c.SearchFlights(ctx, "", "x"); !errors.Is(err, common.ErrMissingMeeting) {
		t.Errorf("Expected MISSING_MEETING, got %v", err)
	}
	if _, err := c.CreateBooking(ctx, "m1", ""); !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("Expected INVALID_INPUT for missing candidate, got %v", err)
	}
	if _, err := c.FetchBooking(ctx, ""); !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("Expected INVALID_INPUT for missing booking id, got %v", err)
	}
}

func TestClient_EndToEnd(t *testing.T) {
	server := newTripdeskServer(t)
	ctx := context.Background()

	for _, base := range []string{server.URL, server.URL + "/api/"} {
		c := NewClient(base)

		events, err := c.ListMeetings(ctx)
		if err != nil || len(events) != 2 {
			t.Fatalf("%s: expected 2 meetings, got %d err=%v", base, len(events), err)
		}

		prefs, err := c.FetchPreferences(ctx, "meeting_1")
		if err != nil {
			t.Fatalf("FetchPreferences failed: %v", err)
		}
		if prefs.DepartureAirport.Code != "JFK" || prefs.ArrivalAirport.Code != "AMS" {
			t.Errorf("Expected seeded JFK→AMS, got %+v", prefs)
		}

		search, err := c.SearchFlights(ctx, "meeting_1", "morning flights")
		if err != nil || len(search.Candidates) != 3 {
			t.Fatalf("Expected 3 candidates, got %+v err=%v", search, err)
		}
		if !strings.HasPrefix(search.Candidates[0].Itinerary, "JFK→AMS") {
			t.Errorf("Unexpected itinerary %q", search.Candidates[0].Itinerary)
		}

		booking, err := c.CreateBooking(ctx, "meeting_1", search.Candidates[0].ID)
		if err != nil {
			t.Fatalf("CreateBooking failed: %v", err)
		}
		fetched, err := c.FetchBooking(ctx, booking.BookingID)
		if err != nil || fetched.ConfirmationNumber != booking.ConfirmationNumber {
			t.Errorf("Expected booking round trip, got %+v err=%v", fetched, err)
		}

		if _, err := c.FetchBooking(ctx, "b_missing"); !errors.Is(err, common.ErrNotFound) {
			t.Errorf("Expected NOT_FOUND, got %v", err)
		}
	}
}

func TestClient_ConfirmThenFetchEndToEnd(t *testing.T) {
	server := newTripdeskServer(t)
	c := NewClient(server.URL)
	ctx := context.Background()

	rec := entities.PreferenceRecord{
		DepartureAirport: entities.Airport{Code: "sfo"},
		ArrivalAirport:   entities.Airport{Code: "cdg"},
		CabinClass:       entities.CabinPremiumEconomy,
		TripType:         entities.TripOneWay,
		Days:             4,
	}
	if _, err := c.ConfirmPreferences(ctx, "m42", rec); err != nil {
		t.Fatalf("ConfirmPreferences failed: %v", err)
	}

	got, err := c.FetchPreferences(ctx, "m42")
	if err != nil {
		t.Fatalf("FetchPreferences failed: %v", err)
	}
	if got.DepartureAirport.Code != "SFO" || got.CabinClass != entities.CabinPremiumEconomy || got.TripType != entities.TripOneWay {
		t.Errorf("Expected override to win, got %+v", got)
	}

	log, err := c.FetchReasoning(ctx, "m42")
	if err != nil || len(log.Log) != 1 || log.Log[0].Type != "stage" {
		t.Errorf("Expected one stage entry, got %+v err=%v", log, err)
	}
}
