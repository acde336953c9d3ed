package services

import (
	"context"
	"strings"
	"time"

	"aiso/tripdesk/internal/common"
	"aiso/tripdesk/internal/db/repositories"
	"aiso/tripdesk/internal/models/dtos"
	"aiso/tripdesk/internal/models/entities"
)

// ReasoningService reads and appends the per-meeting agent log
type ReasoningService struct {
	repo *repositories.ReasoningRepository
	now  func() time.Time
}

func NewReasoningService(repo *repositories.ReasoningRepository) *ReasoningService {
	return &ReasoningService{repo: repo, now: time.Now}
}

// Get returns the meeting's log. Unknown meetings have an empty log.
func (s *ReasoningService) Get(ctx context.Context, meetingID string) (*dtos.ReasoningResponse, error) {
	meetingID = strings.TrimSpace(meetingID)
	if meetingID == "" {
		return nil, common.MissingMeeting()
	}

	log, err := s.repo.List(ctx, meetingID)
	if err != nil {
		return nil, common.StoreFailure("read reasoning log", err)
	}
	return &dtos.ReasoningResponse{MeetingID: meetingID, Log: log}, nil
}

// Record appends one entry stamped with the current time
func (s *ReasoningService) Record(ctx context.Context, meetingID, entryType, text string, meta map[string]any) error {
	entry := entities.ReasoningLogEntry{
		Timestamp: s.now().UTC().Format(time.RFC3339Nano),
		Type:      entryType,
		Text:      text,
		Meta:      meta,
	}
	if err := s.repo.Append(ctx, meetingID, entry); err != nil {
		return common.StoreFailure("append reasoning log", err)
	}
	return nil
}
