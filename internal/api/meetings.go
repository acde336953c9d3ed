package api

import (
	"net/http"
	"time"
)

// ListMeetingsHandler handles GET /meetings and GET /api/events
//
// @Summary      List meetings
// @Description  Returns every meeting invitation in stored order.
// @Tags         Meetings
// @Produce      json
// @Success      200  {array}   entities.Event
// @Failure      500  {object}  dtos.ErrorResponse
// @Router       /meetings [get]
func ListMeetingsHandler(svc EventLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := svc.List(r.Context())
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, &events)
	}
}

// MeetingsCalendarHandler handles GET /meetings.ics
func MeetingsCalendarHandler(svc EventLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		feed, err := svc.Calendar(r.Context(), time.Now())
		if err != nil {
			respondWithError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", `inline; filename="meetings.ics"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(feed))
	}
}
