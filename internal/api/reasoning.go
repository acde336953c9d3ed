package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	reqctx "aiso/tripdesk/internal/context"
)

// GetReasoningHandler handles GET /agent/reasoning/{id}
func GetReasoningHandler(svc ReasoningReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		meetingID := chi.URLParam(r, "id")
		reqctx.SetMeetingID(r.Context(), meetingID)

		resp, err := svc.Get(r.Context(), meetingID)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, resp)
	}
}
