package api

import (
	"net/http"

	reqctx "aiso/tripdesk/internal/context"
	"aiso/tripdesk/internal/models/dtos"
)

// SearchFlightsHandler handles POST /flights/search
//
// @Summary      Search flights
// @Description  Generates candidates on the meeting's current route. Accepts
// @Description  {meetingId, freeText} or {meetingId, preferences: {freeText}}.
// @Tags         Flights
// @Accept       json
// @Produce      json
// @Param        request  body      dtos.FlightSearchRequest  true  "Search request"
// @Success      200      {object}  dtos.FlightSearchResponse
// @Failure      400      {object}  dtos.ErrorResponse
// @Failure      429      {object}  dtos.ErrorResponse
// @Router       /flights/search [post]
func SearchFlightsHandler(svc FlightSearcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.FlightSearchRequest
		if err := decodeBody(w, r, &req); err != nil {
			respondWithError(w, err)
			return
		}
		reqctx.SetMeetingID(r.Context(), req.MeetingID)

		resp, err := svc.Search(r.Context(), req)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, resp)
	}
}
