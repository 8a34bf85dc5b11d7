package model

import (
	"github.com/uptrace/bun"
)

// Session is one logged-in admin browser. The secret travels in a
// cookie; the row existing (and not being expired) is the whole
// admin gate.
type Session struct {
	bun.BaseModel `bun:"table:sessions"`

	Secret           string `bun:"secret,pk"`
	Username         string `bun:"username,notnull"`
	CreatedAtUnixUTC int64  `bun:"created_at,notnull"`
}
