package repositories

import (
	"context"

	"aiso/tripdesk/internal/constants"
	"aiso/tripdesk/internal/models/entities"
	"aiso/tripdesk/internal/store"
)

// BookingRepository stores bookings by booking id. There is no update path.
type BookingRepository struct {
	store store.KVStore
}

func NewBookingRepository(s store.KVStore) *BookingRepository {
	return &BookingRepository{store: s}
}

func (r *BookingRepository) Create(ctx context.Context, booking *entities.Booking) error {
	return store.SetJSON(ctx, r.store, string(constants.StorePrefixBooking)+booking.BookingID, booking)
}

// FindByID returns nil, nil when the booking does not exist
func (r *BookingRepository) FindByID(ctx context.Context, bookingID string) (*entities.Booking, error) {
	var booking entities.Booking
	found, err := store.GetJSON(ctx, r.store, string(constants.StorePrefixBooking)+bookingID, &booking)
	if err != nil || !found {
		return nil, err
	}
	return &booking, nil
}
