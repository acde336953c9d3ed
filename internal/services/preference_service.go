package services

import (
	"context"
	"strings"

	"aiso/tripdesk/internal/common"
	"aiso/tripdesk/internal/constants"
	"aiso/tripdesk/internal/db/repositories"
	"aiso/tripdesk/internal/logging"
	"aiso/tripdesk/internal/models/entities"
	"aiso/tripdesk/internal/preferences"
)

// PreferenceService resolves a meeting's trip essentials from stored defaults
// and the latest confirmed override.
type PreferenceService struct {
	repo      *repositories.PreferenceRepository
	reasoning *ReasoningService
}

func NewPreferenceService(repo *repositories.PreferenceRepository, reasoning *ReasoningService) *PreferenceService {
	return &PreferenceService{repo: repo, reasoning: reasoning}
}

// Fetch returns the normalized merge of defaults and override. A meeting
// without stored defaults resolves to the built-in LAX to AMS defaults.
func (s *PreferenceService) Fetch(ctx context.Context, meetingID string) (entities.PreferenceRecord, error) {
	meetingID = strings.TrimSpace(meetingID)
	if meetingID == "" {
		return entities.PreferenceRecord{}, common.MissingMeeting()
	}

	defaults, err := s.repo.GetDefaults(ctx, meetingID)
	if err != nil {
		return entities.PreferenceRecord{}, common.StoreFailure("read preference defaults", err)
	}
	if defaults == nil {
		defaults = preferences.Defaults(meetingID)
	}

	override, err := s.repo.GetOverride(ctx, meetingID)
	if err != nil {
		return entities.PreferenceRecord{}, common.StoreFailure("read preference override", err)
	}

	return preferences.Normalize(preferences.Merge(defaults, override), meetingID), nil
}

// Save replaces the override in full, logs that planning started and
// returns a fresh task id.
func (s *PreferenceService) Save(ctx context.Context, meetingID string, patch []byte) (string, error) {
	if err := s.repo.SetOverride(ctx, meetingID, patch); err != nil {
		return "", common.StoreFailure("write preference override", err)
	}

	taskID := common.NewID(constants.IDPrefixTask)
	if err := s.reasoning.Record(ctx, meetingID, constants.LogTypeStage, constants.MsgPlanningStarted, map[string]any{"taskId": taskID}); err != nil {
		return "", err
	}

	logging.Info("Preferences saved", "meeting_id", meetingID, "task_id", taskID)
	return taskID, nil
}
