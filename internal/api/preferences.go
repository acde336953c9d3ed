package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	reqctx "aiso/tripdesk/internal/context"
)

// GetPreferencesHandler handles GET /meetings/{id}/essential
//
// @Summary      Get trip essentials
// @Description  Stored defaults merged with the latest confirmed override, normalized.
// @Description  Meetings without stored defaults get the built-in LAX to AMS defaults.
// @Tags         Preferences
// @Produce      json
// @Param        id   path      string  true  "Meeting ID"
// @Success      200  {object}  entities.PreferenceRecord
// @Failure      400  {object}  dtos.ErrorResponse
// @Router       /meetings/{id}/essential [get]
func GetPreferencesHandler(svc PreferenceFetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		meetingID := chi.URLParam(r, "id")
		reqctx.SetMeetingID(r.Context(), meetingID)

		rec, err := svc.Fetch(r.Context(), meetingID)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, &rec)
	}
}

// ConfirmPreferencesHandler handles POST /meetings/{id}/essential/confirm
//
// @Summary      Confirm trip essentials
// @Description  Stores the body as the meeting's override and starts planning.
// @Tags         Preferences
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Meeting ID"
// @Success      202  {object}  dtos.ConfirmResponse
// @Failure      400  {object}  dtos.ErrorResponse
// @Router       /meetings/{id}/essential/confirm [post]
func ConfirmPreferencesHandler(svc PreferenceConfirmer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		meetingID := chi.URLParam(r, "id")
		reqctx.SetMeetingID(r.Context(), meetingID)

		body, err := readBody(w, r)
		if err != nil {
			respondWithError(w, err)
			return
		}

		resp, err := svc.Confirm(r.Context(), meetingID, body)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusAccepted, resp)
	}
}
