package model_test

import (
	"context"
	"database/sql"
	"testing"

	"kalender/src-server/model"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func TestKV(t *testing.T) {
	// init db
	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	bundb := bun.NewDB(db, sqlitedialect.New())
	if err := model.CreateSchema(bundb); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()

	// case: missing key
	func() {
		_, ok, err := model.Get(ctx, bundb, model.KV_EVENTS_KEY)
		if err != nil {
			t.Error(err)
		}
		if ok {
			t.Error("key should not exist yet")
		}
	}()

	// case: set then get
	func() {
		if err := model.Set(ctx, bundb, model.KV_EVENTS_KEY, `[{"id":"e1"}]`); err != nil {
			t.Error(err)
		}
		value, ok, err := model.Get(ctx, bundb, model.KV_EVENTS_KEY)
		if err != nil {
			t.Error(err)
		}
		if !ok || value != `[{"id":"e1"}]` {
			t.Error("stored value not found", value)
		}
	}()

	// case: overwrite
	func() {
		if err := model.Set(ctx, bundb, model.KV_EVENTS_KEY, `[]`); err != nil {
			t.Error(err)
		}
		value, _, err := model.Get(ctx, bundb, model.KV_EVENTS_KEY)
		if err != nil {
			t.Error(err)
		}
		if value != `[]` {
			t.Error("value not overwritten", value)
		}
	}()
}
