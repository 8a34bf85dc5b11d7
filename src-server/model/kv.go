package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// The whole event collection is serialized under this key, the
// server-side stand-in for the web client's localStorage slot.
const KV_EVENTS_KEY = "events"

type KV struct {
	bun.BaseModel `bun:"table:kv_store"`

	Key   string `bun:"key,pk,notnull"`
	Value string `bun:"value"`
}

// Get returns the stored value, or ("", false, nil) when the key
// has never been written.
func Get(ctx context.Context, db bun.IDB, key string) (string, bool, error) {
	kvModel := new(KV)
	if err := db.NewSelect().
		Model(kvModel).
		Where("key = ?", key).
		Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("model.Get: %w", err)
	}
	return kvModel.Value, true, nil
}

// Set upserts the value for a key.
func Set(ctx context.Context, db bun.IDB, key string, value string) error {
	if _, err := db.NewInsert().
		Model(&KV{Key: key, Value: value}).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx); err != nil {
		return fmt.Errorf("model.Set: %w", err)
	}
	return nil
}
