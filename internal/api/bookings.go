package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	reqctx "aiso/tripdesk/internal/context"
	"aiso/tripdesk/internal/models/dtos"
)

// CreateBookingHandler handles POST /bookings
//
// @Summary      Book a candidate
// @Description  Every call creates a new confirmed booking.
// @Tags         Bookings
// @Accept       json
// @Produce      json
// @Param        request  body      dtos.CreateBookingRequest  true  "Booking request"
// @Success      201      {object}  entities.Booking
// @Failure      400,404  {object}  dtos.ErrorResponse
// @Router       /bookings [post]
func CreateBookingHandler(svc BookingManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.CreateBookingRequest
		if err := decodeBody(w, r, &req); err != nil {
			respondWithError(w, err)
			return
		}
		reqctx.SetMeetingID(r.Context(), req.MeetingID)

		booking, err := svc.Create(r.Context(), req)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusCreated, booking)
	}
}

// GetBookingHandler handles GET /bookings/{id}
func GetBookingHandler(svc BookingManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		booking, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, booking)
	}
}
