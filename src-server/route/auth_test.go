package route_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginWrongPassword(t *testing.T) {
	_, muxer := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/auth",
		strings.NewReader(`{"username":"admin","password":"wrong"}`))
	rec := httptest.NewRecorder()
	muxer.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestLoginAndLogout(t *testing.T) {
	_, muxer := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/auth",
		strings.NewReader(`{"username":"admin","password":"hunter2"}`))
	rec := httptest.NewRecorder()
	muxer.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "session-secret", cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)

	// the session gates a mutating route
	createReq := httptest.NewRequest(http.MethodPost, "/api/events",
		strings.NewReader(`{"title":"Gated","date":"2024-05-01","recurring":"none"}`))
	createReq.AddCookie(cookies[0])
	createRec := httptest.NewRecorder()
	muxer.ServeHTTP(createRec, createReq)
	assert.Equal(t, http.StatusCreated, createRec.Code)

	// logout revokes it
	logoutReq := httptest.NewRequest(http.MethodDelete, "/auth", nil)
	logoutReq.AddCookie(cookies[0])
	logoutRec := httptest.NewRecorder()
	muxer.ServeHTTP(logoutRec, logoutReq)
	require.Equal(t, http.StatusOK, logoutRec.Code)

	retryReq := httptest.NewRequest(http.MethodPost, "/api/events",
		strings.NewReader(`{"title":"Too Late","date":"2024-05-01","recurring":"none"}`))
	retryReq.AddCookie(cookies[0])
	retryRec := httptest.NewRecorder()
	muxer.ServeHTTP(retryRec, retryReq)
	assert.Equal(t, http.StatusUnauthorized, retryRec.Code)
}

func TestMutatingRoutesRequireSession(t *testing.T) {
	_, muxer := newTestServer(t)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/events"},
		{http.MethodPatch, "/api/events/e1"},
		{http.MethodDelete, "/api/events/e1"},
		{http.MethodPost, "/api/events/e1/duplicate"},
		{http.MethodPost, "/api/events/natural"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		muxer.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}
