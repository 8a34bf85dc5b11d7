package route_test

import (
	"net/http"
	"path/filepath"
	"testing"

	"kalender/src-server/route"
	"kalender/src-server/utils"
)

// newTestServer boots a real AppState against a throwaway sqlite
// file and wires every route the way main.go does.
func newTestServer(t *testing.T) (*utils.AppState, *http.ServeMux) {
	t.Helper()
	t.Setenv("ADMIN_PASSWORD", "hunter2")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "test.db"))
	t.Setenv("STATIC_WEB_CLIENT_DIR", "")

	as := utils.NewAppState()

	// metric.Init is not running in tests; drain its channels so
	// persistence and expansion don't block
	done := make(chan struct{})
	t.Cleanup(func() { close(done) })
	go func() {
		for {
			select {
			case <-as.MetricChans.DatabaseRead:
			case <-as.MetricChans.DatabaseWrite:
			case <-as.MetricChans.ExpandEvents:
			case <-done:
				return
			}
		}
	}()

	muxer := http.NewServeMux()
	route.Auth(muxer, as)
	route.Calendar(muxer, as)
	route.Events(muxer, as)
	route.Subscribe(muxer, as)
	route.Ical(muxer, as)
	return as, muxer
}
