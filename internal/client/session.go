package client

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"aiso/tripdesk/internal/common"
	"aiso/tripdesk/internal/constants"
	"aiso/tripdesk/internal/models/dtos"
	"aiso/tripdesk/internal/models/entities"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Message is one line of the assistant conversation. Agent messages that
// report a search carry the candidates they announced.
type Message struct {
	Role       Role
	Text       string
	Candidates []entities.FlightCandidate
	At         time.Time
}

// TravelAPI is the part of the client a Session drives
type TravelAPI interface {
	SearchFlights(ctx context.Context, meetingID, freeText string) (*dtos.FlightSearchResponse, error)
	CreateBooking(ctx context.Context, meetingID, candidateID string) (*entities.Booking, error)
}

// Session is the search-then-book conversation for one selected meeting
type Session struct {
	api TravelAPI
	now func() time.Time

	mu         sync.Mutex
	meetingID  string
	messages   []Message
	candidates []entities.FlightCandidate
	lastErr    string
	booking    *entities.Booking
}

func NewSession(api TravelAPI) *Session {
	return &Session{api: api, now: time.Now}
}

// SelectMeeting switches the conversation to meetingID. The previous
// candidate list no longer applies and is dropped.
func (s *Session) SelectMeeting(meetingID string) {
	meetingID = strings.TrimSpace(meetingID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.meetingID != meetingID {
		s.candidates = nil
	}
	s.meetingID = meetingID
	s.lastErr = ""
}

func (s *Session) MeetingID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meetingID
}

// Send posts text as a search request. Blank text is ignored.
func (s *Session) Send(ctx context.Context, text string) ([]entities.FlightCandidate, error) {
	s.mu.Lock()
	meetingID := s.meetingID
	if meetingID == "" {
		s.lastErr = constants.MsgSelectMeeting
		s.mu.Unlock()
		return nil, common.MissingMeeting()
	}
	text = strings.TrimSpace(text)
	if text == "" {
		s.mu.Unlock()
		return nil, nil
	}
	s.lastErr = ""
	s.push(Message{Role: RoleUser, Text: text})
	s.mu.Unlock()

	resp, err := s.api.SearchFlights(ctx, meetingID, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = common.UserMessage(err)
		s.push(Message{Role: RoleAgent, Text: constants.MsgSearchFailed})
		return nil, err
	}

	candidates := resp.Candidates
	if candidates == nil {
		candidates = []entities.FlightCandidate{}
	}
	s.candidates = candidates
	s.push(Message{
		Role:       RoleAgent,
		Text:       fmt.Sprintf("Found %d option(s)", len(candidates)),
		Candidates: candidates,
	})
	return candidates, nil
}

// Book confirms one of the candidates from the last search
func (s *Session) Book(ctx context.Context, candidateID string) (*entities.Booking, error) {
	s.mu.Lock()
	meetingID := s.meetingID
	if meetingID == "" {
		s.lastErr = constants.MsgMissingMeeting
		s.mu.Unlock()
		return nil, common.MissingMeeting()
	}
	_, known := lo.Find(s.candidates, func(c entities.FlightCandidate) bool { return c.ID == candidateID })
	if !known {
		s.lastErr = constants.MsgCandidateNotFound
		s.mu.Unlock()
		return nil, common.NotFound(constants.MsgCandidateNotFound)
	}
	s.lastErr = ""
	s.mu.Unlock()

	booking, err := s.api.CreateBooking(ctx, meetingID, candidateID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = common.UserMessage(err)
		return nil, err
	}

	s.booking = booking
	ref := lo.CoalesceOrEmpty(booking.ConfirmationNumber, booking.BookingID)
	s.push(Message{Role: RoleAgent, Text: "Booking created: " + ref})
	return booking, nil
}

// Messages returns a copy of the conversation so far
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

// Candidates returns the candidates of the most recent successful search
func (s *Session) Candidates() []entities.FlightCandidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.FlightCandidate(nil), s.candidates...)
}

// LastError is the user-facing text of the most recent failure, or ""
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) LastBooking() *entities.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.booking
}

// push appends msg; callers hold mu
func (s *Session) push(msg Message) {
	msg.At = s.now()
	s.messages = append(s.messages, msg)
}
