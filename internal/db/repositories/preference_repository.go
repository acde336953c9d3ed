package repositories

import (
	"context"
	"errors"

	"aiso/tripdesk/internal/constants"
	"aiso/tripdesk/internal/store"
)

// PreferenceRepository keeps the two layers of a meeting's trip essentials:
// the server-side defaults and the client-submitted override. Both are stored
// as raw JSON so whatever shape arrived is preserved until normalization.
type PreferenceRepository struct {
	store store.KVStore
}

func NewPreferenceRepository(s store.KVStore) *PreferenceRepository {
	return &PreferenceRepository{store: s}
}

// GetDefaults returns nil when the meeting has no stored defaults
func (r *PreferenceRepository) GetDefaults(ctx context.Context, meetingID string) ([]byte, error) {
	return r.get(ctx, string(constants.StorePrefixDefaults)+meetingID)
}

func (r *PreferenceRepository) SetDefaults(ctx context.Context, meetingID string, raw []byte) error {
	return r.store.Set(ctx, string(constants.StorePrefixDefaults)+meetingID, raw)
}

// GetOverride returns nil when nothing was confirmed for the meeting yet
func (r *PreferenceRepository) GetOverride(ctx context.Context, meetingID string) ([]byte, error) {
	return r.get(ctx, string(constants.StorePrefixOverride)+meetingID)
}

// SetOverride replaces the previous override in full
func (r *PreferenceRepository) SetOverride(ctx context.Context, meetingID string, raw []byte) error {
	return r.store.Set(ctx, string(constants.StorePrefixOverride)+meetingID, raw)
}

func (r *PreferenceRepository) get(ctx context.Context, key string) ([]byte, error) {
	raw, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return raw, nil
}
