package route

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"kalender/src-server/cal"
	"kalender/src-server/utils"
)

// Events wires the admin-gated mutating surface: draft submission
// (expansion + batch create), edit, delete, duplicate, and the
// natural-language quick add.
func Events(muxer *http.ServeMux, as *utils.AppState) {
	// submit a draft; the whole expanded batch is created or
	// nothing is
	muxer.HandleFunc("POST /api/events", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			var draft cal.Draft
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"message":"Invalid request body"}`))
				return
			}
			draft.Title = utils.CleanupString(draft.Title)

			startTimer := time.Now()
			events, err := cal.Expand(draft, time.Now())
			as.MetricChans.ExpandEvents <- float64(time.Since(startTimer).Microseconds())
			if err != nil {
				writeValidationError(w, err)
				return
			}

			if err := as.EventStore.Create(r.Context(), events); err != nil {
				writePersistenceError(w, err)
				return
			}

			w.WriteHeader(http.StatusCreated)
			if err := json.NewEncoder(w).Encode(events); err != nil {
				slog.Warn("can't write created events", "error", err)
			}
		}))

	// quick add from natural language, e.g. "team lunch tomorrow
	// at 12:30"
	type NaturalReqBody struct {
		Text string `json:"text"`
	}
	muxer.HandleFunc("POST /api/events/natural", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			var reqBody NaturalReqBody
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"message":"Invalid request body"}`))
				return
			}

			result, err := as.When.Parse(reqBody.Text, time.Now())
			if err != nil || result == nil {
				w.WriteHeader(http.StatusUnprocessableEntity)
				w.Write([]byte(`{"message":"Can't find a date in that text"}`))
				return
			}

			draft := cal.Draft{
				Title: utils.CleanupString(strings.TrimSpace(
					strings.Replace(reqBody.Text, result.Text, "", 1))),
				Date:      result.Time.Format(cal.DateLayout),
				Recurring: cal.RECURRING_NONE,
			}
			if draft.Title == "" {
				draft.Title = "Untitled"
			}
			// midnight means when found a date but no clock time
			if result.Time.Format(cal.TimeLayout) != "00:00" {
				draft.Time = result.Time.Format(cal.TimeLayout)
			}

			startTimer := time.Now()
			events, err := cal.Expand(draft, time.Now())
			as.MetricChans.ExpandEvents <- float64(time.Since(startTimer).Microseconds())
			if err != nil {
				writeValidationError(w, err)
				return
			}
			if err := as.EventStore.Create(r.Context(), events); err != nil {
				writePersistenceError(w, err)
				return
			}

			w.WriteHeader(http.StatusCreated)
			if err := json.NewEncoder(w).Encode(events[0]); err != nil {
				slog.Warn("can't write created event", "error", err)
			}
		}))

	// edit one stored event in place
	muxer.HandleFunc("PATCH /api/events/{id}", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			var patch cal.Patch
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"message":"Invalid request body"}`))
				return
			}

			switch err := as.EventStore.Update(r.Context(), r.PathValue("id"), patch); {
			case errors.Is(err, cal.ErrNotFound):
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"message":"No event with that id"}`))
			case isPersistenceError(err):
				writePersistenceError(w, err)
			case err != nil:
				writeValidationError(w, err)
			default:
				w.WriteHeader(http.StatusOK)
			}
		}))

	// delete by id; deleting an unknown id is still a 200
	muxer.HandleFunc("DELETE /api/events/{id}", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			if err := as.EventStore.Delete(r.Context(), r.PathValue("id")); err != nil {
				writePersistenceError(w, err)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))

	// clone under a fresh id
	muxer.HandleFunc("POST /api/events/{id}/duplicate", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			clone, err := as.EventStore.Duplicate(r.Context(), r.PathValue("id"))
			switch {
			case errors.Is(err, cal.ErrNotFound):
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"message":"No event with that id"}`))
				return
			case isPersistenceError(err):
				writePersistenceError(w, err)
				return
			}
			w.WriteHeader(http.StatusCreated)
			if err := json.NewEncoder(w).Encode(clone); err != nil {
				slog.Warn("can't write duplicated event", "error", err)
			}
		}))
}

func isPersistenceError(err error) bool {
	var persistenceErr *cal.PersistenceError
	return errors.As(err, &persistenceErr)
}

// Expansion and patch validation failures become 422; they never
// touched the store.
func writeValidationError(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusUnprocessableEntity)
	resp, _ := json.Marshal(map[string]string{"message": err.Error()})
	w.Write(resp)
}

// The mutation is applied in memory, the durable write failed.
// Callers treat this as "committed, durability unknown".
func writePersistenceError(w http.ResponseWriter, err error) {
	slog.Error("durable write failed, in-memory state kept", "error", err)
	w.WriteHeader(http.StatusInternalServerError)
	resp, _ := json.Marshal(map[string]string{"message": err.Error()})
	w.Write(resp)
}
