package services

import (
	"bytes"
	"context"
	"strings"
	"time"

	"aiso/tripdesk/internal/common"
	"aiso/tripdesk/internal/constants"
	"aiso/tripdesk/internal/logging"
	"aiso/tripdesk/internal/metrics"
	"aiso/tripdesk/internal/models/dtos"
	"aiso/tripdesk/internal/preferences"
)

// PlanningQueue receives the task of every accepted confirmation
type PlanningQueue interface {
	Enqueue(ctx context.Context, task *common.PlanningTask) error
}

type ConfirmationService struct {
	prefs   *PreferenceService
	metrics *metrics.MetricsRegistry
	queue   PlanningQueue
}

func NewConfirmationService(prefs *PreferenceService, m *metrics.MetricsRegistry) *ConfirmationService {
	return &ConfirmationService{prefs: prefs, metrics: m}
}

// SetQueue hands accepted confirmations to background planning. Without a
// queue the task id is still issued but nothing picks it up.
func (s *ConfirmationService) SetQueue(q PlanningQueue) {
	s.queue = q
}

// Confirm validates the submitted essentials, stores them as the meeting's
// override and hands back the planning task id. Validation failures leave
// the store untouched.
func (s *ConfirmationService) Confirm(ctx context.Context, meetingID string, body []byte) (*dtos.ConfirmResponse, error) {
	meetingID = strings.TrimSpace(meetingID)
	if meetingID == "" {
		return nil, common.InvalidInput(constants.MsgMeetingRequired)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, common.InvalidInput(constants.MsgBodyRequired)
	}

	patch, err := preferences.CoerceAirports(body)
	if err != nil {
		return nil, common.InvalidInput(constants.MsgBodyNotObject)
	}

	taskID, err := s.prefs.Save(ctx, meetingID, patch)
	if err != nil {
		return nil, err
	}
	s.metrics.PreferencesConfirmedTotal.Inc()

	if s.queue != nil {
		task := &common.PlanningTask{TaskID: taskID, MeetingID: meetingID, EnqueuedAt: time.Now().UTC()}
		if err := s.queue.Enqueue(ctx, task); err != nil {
			logging.Warn("Failed to enqueue planning task", "task_id", taskID, "meeting_id", meetingID, "error", err)
		}
	}

	return &dtos.ConfirmResponse{
		TaskID:    taskID,
		MeetingID: meetingID,
		Status:    string(constants.APIStatusAccepted),
		Message:   constants.MsgAgentPlanningStarted,
	}, nil
}
