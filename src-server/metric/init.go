package metric

import (
	"log/slog"
	"time"

	"kalender/src-server/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Init registers the gauges and starts the goroutines draining the
// AppState metric channels. Runs for the whole process lifetime;
// the graceful-shutdown channels unwind it.
func Init(as *utils.AppState) {
	clearTickerInterval := 5 * time.Minute
	probeTickerInterval := 10 * time.Minute

	databaseEmptyRead(as, &probeTickerInterval)
	channelGauge(as, "kalender_database_read_microsec",
		"The latency of an event-store read in microseconds",
		as.MetricChans.DatabaseRead, &clearTickerInterval)
	channelGauge(as, "kalender_database_write_microsec",
		"The latency of an event-store write in microseconds",
		as.MetricChans.DatabaseWrite, &clearTickerInterval)
	channelGauge(as, "kalender_expand_events_microsec",
		"The latency of one recurrence expansion in microseconds",
		as.MetricChans.ExpandEvents, &clearTickerInterval)
}

// channelGauge mirrors the last value sent on ch into a gauge and
// zeroes it after a quiet period.
func channelGauge(as *utils.AppState, name string, help string, ch chan float64, clearTickerInterval *time.Duration) {
	gauge := promauto.NewGauge(prometheus.GaugeOpts{
		Name: name,
		Help: help,
	})
	good := true
	if err := prometheus.Register(gauge); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register metric", "name", name, "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("metric registered", "name", name)
		gauge.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(gauge) {
				case true:
					slog.Debug("metric unregistered", "name", name)
				case false:
					slog.Warn("metric not registered", "name", name)
				}
				return
			case latency := <-ch:
				gauge.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				gauge.Set(0)
			}
		}
	}()
}

func databaseEmptyRead(as *utils.AppState, tickerInterval *time.Duration) {
	gauge := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kalender_database_empty_read_microsec",
		Help: "The latency of an empty database read in microseconds",
	})
	good := true
	if err := prometheus.Register(gauge); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register kalender_database_empty_read_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("kalender_database_empty_read_microsec metric registered")
		gauge.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		ticker := time.NewTicker(*tickerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(gauge) {
				case true:
					slog.Debug("kalender_database_empty_read_microsec metric unregistered")
				case false:
					slog.Warn("kalender_database_empty_read_microsec metric not registered")
				}
				return
			case <-ticker.C:
				latency, err := database(as)
				if err != nil {
					slog.Error("can't get database latency", "error", err)
					continue
				}
				gauge.Set(float64(latency.Microseconds()))
			}
		}
	}()
}
