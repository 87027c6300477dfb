// Package productcache holds the server-side product catalog cached per
// device. The hub edits this cache and pushes it to the scale as a whole;
// the cache is the source of truth between fetch and push.
package productcache

import (
	"context"

	"github.com/dmitrijs2005/scalehub/internal/scaleapi"
)

// Store is a per-device catalog store. Get returns common.ErrorNotFound
// when no catalog has been cached for the device yet.
type Store interface {
	Get(ctx context.Context, deviceID int64) ([]scaleapi.Product, error)
	Set(ctx context.Context, deviceID int64, products []scaleapi.Product) error
	Delete(ctx context.Context, deviceID int64) error
	Close() error
}
