package services

import (
	"context"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"aiso/tripdesk/internal/common"
	"aiso/tripdesk/internal/db/repositories"
	"aiso/tripdesk/internal/models/entities"
)

const calendarProductID = "-//aiso//tripdesk//EN"

type EventService struct {
	repo repositories.EventRepository
}

func NewEventService(repo repositories.EventRepository) *EventService {
	return &EventService{repo: repo}
}

// List returns every meeting in stored order
func (s *EventService) List(ctx context.Context) ([]entities.Event, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, common.StoreFailure("list events", err)
	}
	if events == nil {
		events = []entities.Event{}
	}
	return events, nil
}

// Calendar renders the meetings as an iCalendar feed. Events without a
// parseable start are still listed, just without DTSTART.
func (s *EventService) Calendar(ctx context.Context, now time.Time) (string, error) {
	events, err := s.List(ctx)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetXWRCalName("Meetings")

	for _, e := range events {
		vevent := cal.AddEvent(e.ID)
		vevent.SetDtStampTime(now.UTC())
		vevent.SetSummary(e.Title)
		if e.Location != "" {
			vevent.SetLocation(e.Location)
		}
		if start, err := time.Parse(time.RFC3339, e.Start); err == nil {
			vevent.SetStartAt(start.UTC())
		}
		if e.Organizer != "" {
			vevent.SetOrganizer("mailto:" + strings.TrimPrefix(e.Organizer, "mailto:"))
		}
	}
	return cal.Serialize(), nil
}
