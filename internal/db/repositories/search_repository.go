package repositories

import (
	"context"

	"aiso/tripdesk/internal/constants"
	"aiso/tripdesk/internal/models/entities"
	"aiso/tripdesk/internal/store"
)

// SearchRepository keeps every completed search by search id
type SearchRepository struct {
	store store.KVStore
}

func NewSearchRepository(s store.KVStore) *SearchRepository {
	return &SearchRepository{store: s}
}

func (r *SearchRepository) Save(ctx context.Context, search *entities.FlightSearch) error {
	return store.SetJSON(ctx, r.store, string(constants.StorePrefixSearch)+search.SearchID, search)
}

// FindByID returns nil, nil when the search does not exist
func (r *SearchRepository) FindByID(ctx context.Context, searchID string) (*entities.FlightSearch, error) {
	var search entities.FlightSearch
	found, err := store.GetJSON(ctx, r.store, string(constants.StorePrefixSearch)+searchID, &search)
	if err != nil || !found {
		return nil, err
	}
	return &search, nil
}
