package services

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"aiso/tripdesk/internal/common"
	"aiso/tripdesk/internal/constants"
	"aiso/tripdesk/internal/db/repositories"
	"aiso/tripdesk/internal/logging"
	"aiso/tripdesk/internal/metrics"
	"aiso/tripdesk/internal/models/dtos"
	"aiso/tripdesk/internal/models/entities"
)

// SearchOptions bounds the synthetic candidates a search produces
type SearchOptions struct {
	CandidateCount int
	PriceFloor     float64
	PriceCeiling   float64
	CandidateTTL   time.Duration
}

// FlightSearchService turns a free-text request into priced candidates on the
// meeting's current route. Results are kept by search id, and the candidates
// are cached per meeting so bookings can be checked against them.
type FlightSearchService struct {
	prefs     *PreferenceService
	searches  *repositories.SearchRepository
	reasoning *ReasoningService
	cache     common.CacheInterface
	metrics   *metrics.MetricsRegistry
	opts      SearchOptions

	mu  sync.Mutex
	rng *rand.Rand

	// serializes the read-modify-write of candidate sets
	cacheMu sync.Mutex
}

func NewFlightSearchService(
	prefs *PreferenceService,
	searches *repositories.SearchRepository,
	reasoning *ReasoningService,
	cache common.CacheInterface,
	m *metrics.MetricsRegistry,
	opts SearchOptions,
) *FlightSearchService {
	return &FlightSearchService{
		prefs:     prefs,
		searches:  searches,
		reasoning: reasoning,
		cache:     cache,
		metrics:   m,
		opts:      opts,
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// WithRand swaps the price/seat generator, for deterministic tests
func (s *FlightSearchService) WithRand(r *rand.Rand) *FlightSearchService {
	s.mu.Lock()
	s.rng = r
	s.mu.Unlock()
	return s
}

func (s *FlightSearchService) Search(ctx context.Context, req dtos.FlightSearchRequest) (*dtos.FlightSearchResponse, error) {
	meetingID := strings.TrimSpace(req.MeetingID)
	if meetingID == "" {
		return nil, common.MissingMeeting()
	}
	freeText := req.FreeTextValue()

	prefs, err := s.prefs.Fetch(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	candidates := s.generate(prefs)
	search := &entities.FlightSearch{
		SearchID:   common.NewID(constants.IDPrefixSearch),
		MeetingID:  meetingID,
		FreeText:   freeText,
		Status:     string(constants.APIStatusCompleted),
		Candidates: candidates,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.searches.Save(ctx, search); err != nil {
		return nil, common.StoreFailure("save search", err)
	}
	if err := s.remember(ctx, meetingID, candidates); err != nil {
		logging.Warn("Failed to cache candidates", "meeting_id", meetingID, "error", err)
	}

	requested := "Flight search requested"
	if freeText != "" {
		requested += ": " + freeText
	}
	if err := s.reasoning.Record(ctx, meetingID, constants.LogTypeStep, requested, nil); err != nil {
		return nil, err
	}
	found := fmt.Sprintf("Found %d option(s)", len(candidates))
	if err := s.reasoning.Record(ctx, meetingID, constants.LogTypeInfo, found, map[string]any{"searchId": search.SearchID}); err != nil {
		return nil, err
	}

	s.metrics.SearchesCompletedTotal.Inc()
	s.metrics.CandidatesGeneratedTotal.Add(float64(len(candidates)))
	logging.Info("Flight search completed",
		"meeting_id", meetingID,
		"search_id", search.SearchID,
		"candidates", len(candidates),
	)

	return &dtos.FlightSearchResponse{
		SearchID:   search.SearchID,
		Status:     search.Status,
		Candidates: candidates,
	}, nil
}

// LookupCandidate reports whether candidateID came out of a recent search for the meeting
func (s *FlightSearchService) LookupCandidate(ctx context.Context, meetingID, candidateID string) (*entities.FlightCandidate, bool, error) {
	cached, err := s.cached(ctx, meetingID)
	if err != nil {
		return nil, false, err
	}
	candidate, ok := lo.Find(cached, func(c entities.FlightCandidate) bool {
		return c.ID == candidateID
	})
	if !ok {
		return nil, false, nil
	}
	return &candidate, true, nil
}

func (s *FlightSearchService) generate(prefs entities.PreferenceRecord) []entities.FlightCandidate {
	from := lo.Ternary(prefs.DepartureAirport.Code != "", prefs.DepartureAirport.Code, "ANY")
	to := lo.Ternary(prefs.ArrivalAirport.Code != "", prefs.ArrivalAirport.Code, "ANY")
	spread := s.opts.PriceCeiling - s.opts.PriceFloor

	s.mu.Lock()
	defer s.mu.Unlock()

	return lo.Times(s.opts.CandidateCount, func(i int) entities.FlightCandidate {
		// floor to cents so the price never reaches the ceiling
		price := math.Floor((s.opts.PriceFloor+s.rng.Float64()*spread)*100) / 100
		return entities.FlightCandidate{
			ID:        common.NewID(constants.IDPrefixCandidate),
			Price:     price,
			Itinerary: fmt.Sprintf("%s→%s — %s", from, to, constants.StopVariants[i%len(constants.StopVariants)]),
			Provider:  constants.FlightProviders[i%len(constants.FlightProviders)],
			Details: map[string]any{
				"seatsLeft": 1 + s.rng.IntN(6),
				"cabin":     string(prefs.CabinClass),
			},
		}
	})
}

func candidateKey(meetingID string) string {
	return string(constants.StorePrefixCandidates) + meetingID
}

func (s *FlightSearchService) cached(ctx context.Context, meetingID string) ([]entities.FlightCandidate, error) {
	var cached []entities.FlightCandidate
	found, err := s.cache.Get(ctx, candidateKey(meetingID), &cached)
	if err != nil {
		return nil, err
	}
	if !found {
		s.metrics.CacheMissesTotal.WithLabelValues("candidates").Inc()
		return nil, nil
	}
	s.metrics.CacheHitsTotal.WithLabelValues("candidates").Inc()
	return cached, nil
}

// remember adds the new candidates to the meeting's cached set and restarts its TTL
func (s *FlightSearchService) remember(ctx context.Context, meetingID string, candidates []entities.FlightCandidate) error {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	existing, err := s.cached(ctx, meetingID)
	if err != nil {
		return err
	}
	all := lo.UniqBy(append(existing, candidates...), func(c entities.FlightCandidate) string {
		return c.ID
	})
	return s.cache.Set(ctx, candidateKey(meetingID), all, s.opts.CandidateTTL)
}
