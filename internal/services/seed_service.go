package services

import (
	"context"
	"time"

	"aiso/tripdesk/internal/constants"
	"aiso/tripdesk/internal/db/repositories"
	"aiso/tripdesk/internal/logging"
	"aiso/tripdesk/internal/models/entities"
	"aiso/tripdesk/internal/preferences"
)

// DemoMeetingID has seeded JFK to AMS defaults
const DemoMeetingID = "meeting_1"

// SeedService loads the demo meetings and defaults into an empty store
type SeedService struct {
	events    repositories.EventRepository
	prefs     *repositories.PreferenceRepository
	reasoning *repositories.ReasoningRepository
}

func NewSeedService(events repositories.EventRepository, prefs *repositories.PreferenceRepository, reasoning *repositories.ReasoningRepository) *SeedService {
	return &SeedService{events: events, prefs: prefs, reasoning: reasoning}
}

// SeedDemo is safe to call on every start: each part is only written when absent
func (s *SeedService) SeedDemo(ctx context.Context, now time.Time) error {
	count, err := s.events.Count(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		events := demoEvents(now)
		for _, e := range events {
			if err := s.events.Insert(ctx, e); err != nil {
				return err
			}
		}
		logging.Info("Seeded demo events", "count", len(events))
	}

	existing, err := s.prefs.GetDefaults(ctx, DemoMeetingID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	defaults := preferences.Legacy(DemoMeetingID,
		entities.Airport{Code: "JFK", Label: "New York (JFK)"},
		entities.Airport{Code: "AMS", Label: "Amsterdam (AMS)"},
		entities.CabinBusiness,
	)
	if err := s.prefs.SetDefaults(ctx, DemoMeetingID, defaults); err != nil {
		return err
	}
	if err := s.reasoning.Append(ctx, DemoMeetingID, entities.ReasoningLogEntry{
		Timestamp: now.UTC().Format(time.RFC3339Nano),
		Type:      constants.LogTypeStep,
		Text:      "Prefill origin detected: JFK",
		Meta:      map[string]any{"confidence": 0.92},
	}); err != nil {
		return err
	}

	logging.Info("Seeded demo preferences", "meeting_id", DemoMeetingID)
	return nil
}

func demoEvents(now time.Time) []entities.Event {
	return []entities.Event{
		{
			ID:         "evt_1",
			Title:      "AI - AISO Meetup",
			Location:   "Amsterdam",
			Start:      now.Add(7 * 24 * time.Hour).UTC().Format(time.RFC3339),
			Organizer:  "bob@company.com",
			RawEmailID: "gmail_msg_abc",
		},
		{
			ID:         "evt_2",
			Title:      "Sales Offsite",
			Location:   "New York",
			Start:      now.Add(14 * 24 * time.Hour).UTC().Format(time.RFC3339),
			Organizer:  "sarah@company.com",
			RawEmailID: "gmail_msg_def",
		},
	}
}
