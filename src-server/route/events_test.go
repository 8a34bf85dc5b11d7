package route_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kalender/src-server/cal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func login(t *testing.T, muxer *http.ServeMux) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth",
		strings.NewReader(`{"username":"admin","password":"hunter2"}`))
	rec := httptest.NewRecorder()
	muxer.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}

func doJSON(muxer *http.ServeMux, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	muxer.ServeHTTP(rec, req)
	return rec
}

func TestCreateDailySeriesAndQuery(t *testing.T) {
	_, muxer := newTestServer(t)
	cookie := login(t, muxer)

	rec := doJSON(muxer, http.MethodPost, "/api/events",
		`{"title":"standup","date":"2024-01-01","time":"10:00","recurring":"daily","recurrenceEndDate":"2024-01-10"}`,
		cookie)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created []cal.Event
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	require.Len(t, created, 10)
	// title went through cleanup
	assert.Equal(t, "Standup", created[0].Title)

	// day query
	rec = doJSON(muxer, http.MethodGet, "/api/events?date=2024-01-05", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var day []cal.Event
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&day))
	require.Len(t, day, 1)
	assert.Equal(t, "2024-01-05", day[0].Date)

	// grid dot query
	rec = doJSON(muxer, http.MethodGet, "/api/events/has?date=2024-01-05", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"hasEvent":true}`, rec.Body.String())

	rec = doJSON(muxer, http.MethodGet, "/api/events/has?date=2024-01-11", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"hasEvent":false}`, rec.Body.String())
}

func TestCreateValidationErrors(t *testing.T) {
	_, muxer := newTestServer(t)
	cookie := login(t, muxer)

	// bad time, checked before anything else
	rec := doJSON(muxer, http.MethodPost, "/api/events",
		`{"title":"bad","date":"2024-01-01","time":"25:00","recurring":"daily"}`, cookie)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// bad custom dates are reported together
	rec = doJSON(muxer, http.MethodPost, "/api/events",
		`{"title":"bad","recurring":"custom","customDates":["31.02.2024","25.12.2024"]}`, cookie)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "31.02.2024")
	assert.NotContains(t, rec.Body.String(), "25.12.2024")

	// empty custom list is an error, not an empty series
	rec = doJSON(muxer, http.MethodPost, "/api/events",
		`{"title":"bad","recurring":"custom","customDates":[]}`, cookie)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// nothing was committed
	rec = doJSON(muxer, http.MethodGet, "/api/events", "", nil)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestUpdateDeleteDuplicate(t *testing.T) {
	_, muxer := newTestServer(t)
	cookie := login(t, muxer)

	rec := doJSON(muxer, http.MethodPost, "/api/events",
		`{"title":"party","date":"2024-06-01","time":"20:00","recurring":"none"}`, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created []cal.Event
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	require.Len(t, created, 1)
	id := created[0].ID

	// edit in place
	rec = doJSON(muxer, http.MethodPatch, "/api/events/"+id, `{"title":"After Party"}`, cookie)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(muxer, http.MethodPatch, "/api/events/unknown-id", `{"title":"x"}`, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// duplicate clones under a fresh id
	rec = doJSON(muxer, http.MethodPost, "/api/events/"+id+"/duplicate", "", cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	var clone cal.Event
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&clone))
	assert.NotEqual(t, id, clone.ID)
	assert.Equal(t, "After Party", clone.Title)

	rec = doJSON(muxer, http.MethodPost, "/api/events/unknown-id/duplicate", "", cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// delete is idempotent
	rec = doJSON(muxer, http.MethodDelete, "/api/events/"+id, "", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(muxer, http.MethodDelete, "/api/events/"+id, "", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(muxer, http.MethodGet, "/api/events", "", nil)
	var remaining []cal.Event
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&remaining))
	require.Len(t, remaining, 1)
	assert.Equal(t, clone.ID, remaining[0].ID)
}

func TestNaturalQuickAdd(t *testing.T) {
	_, muxer := newTestServer(t)
	cookie := login(t, muxer)

	rec := doJSON(muxer, http.MethodPost, "/api/events/natural",
		`{"text":"dinner with Alex tomorrow at 18:00"}`, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created cal.Event
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.NotEmpty(t, created.Date)
	assert.Equal(t, "18:00", created.Time)
	assert.Equal(t, cal.RECURRING_NONE, created.Recurring)
}

func TestSubscribeStub(t *testing.T) {
	_, muxer := newTestServer(t)

	rec := doJSON(muxer, http.MethodPost, "/api/subscribe", `{"email":"kai@example.com"}`, nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = doJSON(muxer, http.MethodPost, "/api/subscribe", `{"email":"not-an-email"}`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestIcalFeed(t *testing.T) {
	_, muxer := newTestServer(t)
	cookie := login(t, muxer)

	rec := doJSON(muxer, http.MethodPost, "/api/events",
		`{"title":"standup","date":"2024-01-01","time":"10:00","recurring":"daily","recurrenceEndDate":"2024-01-05"}`,
		cookie)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(muxer, http.MethodGet, "/ical", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Contains(t, body, "SUMMARY:Standup")
	assert.Contains(t, body, "RRULE:FREQ=DAILY")
	// one VEVENT for the whole series
	assert.Equal(t, 1, strings.Count(body, "BEGIN:VEVENT"))
}

func TestIcalFeedSkipsMalformedDates(t *testing.T) {
	as, muxer := newTestServer(t)
	cookie := login(t, muxer)

	rec := doJSON(muxer, http.MethodPost, "/api/events",
		`{"title":"picnic","date":"2024-07-01","recurring":"none"}`, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)

	// a corrupted row, e.g. written by hand into the database
	require.NoError(t, as.EventStore.Create(context.Background(), []cal.Event{
		{ID: "bad", Title: "Broken", Date: "not-a-date", Recurring: cal.RECURRING_NONE},
	}))

	rec = doJSON(muxer, http.MethodGet, "/ical", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "SUMMARY:Picnic")
	assert.NotContains(t, body, "SUMMARY:Broken")
	assert.NotContains(t, body, "DTSTART:\r\n")
	assert.Equal(t, 1, strings.Count(body, "BEGIN:VEVENT"))
}
