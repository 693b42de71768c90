package state

import (
	"context"
)

// NotifyChannel carries change notifications for the state table. Payloads
// are "set:<key>" or "del:<key>".
const NotifyChannel = "storefront_state"

// Repository is a small key/value store for storefront state. Values are
// opaque JSON documents keyed by well-known names.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
