package utils

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"sync"

	"kalender/src-server/cal"
	"kalender/src-server/model"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type AppState struct {
	Config     *Config
	RawDB      *sql.DB
	BunDB      *bun.DB
	When       *when.Parser
	EventStore *cal.Store

	MetricChans        *Metric
	AppCloseSignalChan chan os.Signal

	gracefulShutdownMu    sync.Mutex
	gracefulShutdownChans []chan struct{}
}

func NewAppState() *AppState {
	as := &AppState{}

	as.MetricChans = NewMetric()
	as.AppCloseSignalChan = make(chan os.Signal, 1)

	// date parser for the natural-language quick-add route
	as.When = when.New(nil)
	as.When.Add(en.All...)
	as.When.Add(common.All...)

	// env
	as.Config = NewConfig()

	// database
	var err error
	as.RawDB, err = sql.Open(sqliteshim.ShimName, as.Config.GetDBPath()+"?mode=rwc")
	if err != nil {
		slog.Error("cannot open sqlite database", "error", err)
		os.Exit(1)
	}
	as.RawDB.SetMaxIdleConns(8)
	as.BunDB = bun.NewDB(as.RawDB, sqlitedialect.New())

	if err := model.CreateSchema(as.BunDB); err != nil {
		slog.Error("can't create database schema", "error", err)
		os.Exit(1)
	}

	// the event collection, loaded once on start
	as.EventStore, err = cal.NewStore(context.Background(), &model.KVPersistence{
		DB:           as.BunDB,
		Key:          model.KV_EVENTS_KEY,
		ReadLatency:  as.MetricChans.DatabaseRead,
		WriteLatency: as.MetricChans.DatabaseWrite,
	})
	if err != nil {
		slog.Error("can't load event store", "error", err)
		os.Exit(1)
	}

	return as
}

// CreateGracefulShutdownChan hands out a channel that closes when
// the app shuts down; metric goroutines use it to unregister.
func (as *AppState) CreateGracefulShutdownChan() *chan struct{} {
	as.gracefulShutdownMu.Lock()
	defer as.gracefulShutdownMu.Unlock()
	ch := make(chan struct{})
	as.gracefulShutdownChans = append(as.gracefulShutdownChans, ch)
	return &ch
}

func (as *AppState) GracefulShutdown() {
	as.gracefulShutdownMu.Lock()
	defer as.gracefulShutdownMu.Unlock()
	for _, ch := range as.gracefulShutdownChans {
		close(ch)
	}
	as.gracefulShutdownChans = nil
	if err := as.RawDB.Close(); err != nil {
		slog.Warn("can't close database", "error", err)
	}
}
