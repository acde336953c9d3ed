package routes

import (
	"github.com/go-chi/chi/v5"

	"aiso/tripdesk/internal/api"
	"aiso/tripdesk/internal/middleware"
)

// RegisterAPIRoutes registers the meeting, preference, search and booking routes on r
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies, limiter *middleware.IPRateLimiter) {
	svcs := deps.Services

	r.Get("/meetings", api.ListMeetingsHandler(svcs.Events))
	r.Get("/meetings.ics", api.MeetingsCalendarHandler(svcs.Events))

	r.Get("/meetings/{id}/essential", api.GetPreferencesHandler(svcs.Preferences))
	r.Post("/meetings/{id}/essential/confirm", api.ConfirmPreferencesHandler(svcs.Confirmation))

	r.Get("/agent/reasoning/{id}", api.GetReasoningHandler(svcs.Reasoning))

	// writes that create records are rate limited per client IP
	r.Group(func(limited chi.Router) {
		limited.Use(limiter.Middleware)
		limited.Post("/flights/search", api.SearchFlightsHandler(svcs.Search))
		limited.Post("/bookings", api.CreateBookingHandler(svcs.Bookings))
	})

	r.Get("/bookings/{id}", api.GetBookingHandler(svcs.Bookings))
}
