package repositories

import (
	"context"

	"aiso/tripdesk/internal/constants"
	"aiso/tripdesk/internal/models/entities"
	"aiso/tripdesk/internal/store"
)

// ReasoningRepository is the append-only agent log of each meeting
type ReasoningRepository struct {
	store store.KVStore
}

func NewReasoningRepository(s store.KVStore) *ReasoningRepository {
	return &ReasoningRepository{store: s}
}

func (r *ReasoningRepository) Append(ctx context.Context, meetingID string, entry entities.ReasoningLogEntry) error {
	return store.AppendJSON(ctx, r.store, string(constants.StorePrefixReasoning)+meetingID, entry)
}

// List returns the entries in append order. An unknown meeting yields an empty, non-nil slice.
func (r *ReasoningRepository) List(ctx context.Context, meetingID string) ([]entities.ReasoningLogEntry, error) {
	return store.RangeJSON[entities.ReasoningLogEntry](ctx, r.store, string(constants.StorePrefixReasoning)+meetingID)
}
