package services

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"aiso/tripdesk/internal/common"
	"aiso/tripdesk/internal/constants"
	"aiso/tripdesk/internal/db/repositories"
	"aiso/tripdesk/internal/logging"
	"aiso/tripdesk/internal/metrics"
	"aiso/tripdesk/internal/models/dtos"
	"aiso/tripdesk/internal/models/entities"
)

// CandidateLookup resolves a candidate id against recent searches for a meeting
type CandidateLookup interface {
	LookupCandidate(ctx context.Context, meetingID, candidateID string) (*entities.FlightCandidate, bool, error)
}

// BookingService confirms candidates. Every call creates a new booking;
// there is no idempotency key.
type BookingService struct {
	repo       *repositories.BookingRepository
	reasoning  *ReasoningService
	candidates CandidateLookup
	validate   bool
	metrics    *metrics.MetricsRegistry
	seq        atomic.Uint64
}

// NewBookingService builds the service. With validate set, a candidate id that
// no recent search for the meeting returned is rejected as not found.
func NewBookingService(
	repo *repositories.BookingRepository,
	reasoning *ReasoningService,
	candidates CandidateLookup,
	validate bool,
	m *metrics.MetricsRegistry,
) *BookingService {
	return &BookingService{
		repo:       repo,
		reasoning:  reasoning,
		candidates: candidates,
		validate:   validate,
		metrics:    m,
	}
}

func (s *BookingService) Create(ctx context.Context, req dtos.CreateBookingRequest) (*entities.Booking, error) {
	candidateID := strings.TrimSpace(req.CandidateID)
	if candidateID == "" {
		s.metrics.BookingsRejectedTotal.WithLabelValues("missing_candidate").Inc()
		return nil, common.InvalidInput(constants.MsgCandidateRequired)
	}
	meetingID := strings.TrimSpace(req.MeetingID)
	if meetingID == "" {
		s.metrics.BookingsRejectedTotal.WithLabelValues("missing_meeting").Inc()
		return nil, common.MissingMeeting()
	}

	if s.validate {
		_, ok, err := s.candidates.LookupCandidate(ctx, meetingID, candidateID)
		if err != nil {
			return nil, common.StoreFailure("look up candidate", err)
		}
		if !ok {
			s.metrics.BookingsRejectedTotal.WithLabelValues("unknown_candidate").Inc()
			return nil, common.NotFound(constants.MsgCandidateNotFound)
		}
	}

	booking := &entities.Booking{
		BookingID:          common.NewID(constants.IDPrefixBooking),
		MeetingID:          meetingID,
		Status:             string(constants.APIStatusConfirmed),
		ConfirmationNumber: s.confirmationNumber(),
		Itinerary:          entities.BookingItinerary{CandidateID: candidateID},
		CreatedAt:          time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, common.StoreFailure("save booking", err)
	}

	meta := map[string]any{"bookingId": booking.BookingID, "candidateId": candidateID}
	if err := s.reasoning.Record(ctx, meetingID, constants.LogTypeBooking, "Booking created: "+booking.ConfirmationNumber, meta); err != nil {
		return nil, err
	}

	s.metrics.BookingsCreatedTotal.Inc()
	logging.Info("Booking created",
		"meeting_id", meetingID,
		"booking_id", booking.BookingID,
		"candidate_id", candidateID,
	)
	return booking, nil
}

func (s *BookingService) Get(ctx context.Context, bookingID string) (*entities.Booking, error) {
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return nil, common.NotFound(constants.MsgBookingNotFound)
	}

	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, common.StoreFailure("read booking", err)
	}
	if booking == nil {
		return nil, common.NotFound(constants.MsgBookingNotFound)
	}
	return booking, nil
}

// confirmationNumber is C-<random>-<sequence>; the sequence makes it unique within the process
func (s *BookingService) confirmationNumber() string {
	return fmt.Sprintf("%s%s-%d", constants.IDPrefixConfirmation, common.ShortToken(6), s.seq.Add(1))
}
