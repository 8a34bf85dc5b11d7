package route

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"kalender/src-server/cal"
	"kalender/src-server/utils"
)

// Calendar wires the read-only queries the month grid and the day
// popup render from. No auth: viewing the calendar is public.
func Calendar(muxer *http.ServeMux, as *utils.AppState) {
	// all events, or one day's events when ?date= is given
	muxer.HandleFunc("GET /api/events", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		dateParam := r.URL.Query().Get("date")
		var events []cal.Event
		if dateParam == "" {
			events = cal.SortEvents(as.EventStore.List())
		} else {
			day, err := cal.ParseDate(dateParam)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"message":"Invalid date, want yyyy-mm-dd"}`))
				return
			}
			events = as.EventStore.EventsForDate(day.Format(cal.DateLayout))
		}
		if events == nil {
			events = []cal.Event{}
		}

		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(events); err != nil {
			slog.Warn("can't write events", "error", err)
		}
	})

	// the grid only needs a dot per day
	type HasEventRespBody struct {
		HasEvent bool `json:"hasEvent"`
	}
	muxer.HandleFunc("GET /api/events/has", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		day, err := cal.ParseDate(r.URL.Query().Get("date"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"Invalid date, want yyyy-mm-dd"}`))
			return
		}

		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(HasEventRespBody{
			HasEvent: as.EventStore.HasEvent(day.Format(cal.DateLayout)),
		}); err != nil {
			slog.Warn("can't write has-event response", "error", err)
		}
	})
}
