package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/scalehub/internal/client/api"
	"github.com/dmitrijs2005/scalehub/internal/client/querycache"
	"github.com/dmitrijs2005/scalehub/internal/expiry"
	"github.com/dmitrijs2005/scalehub/internal/scaleapi"
)

// DefaultAutoUpdateInterval is the interval, in minutes, substituted when a
// requested auto-update interval is unusable.
const DefaultAutoUpdateInterval = 60

// ProductService covers everything around a device's product catalog:
// fetching it off the scale into the hub cache, reading and editing the
// cached copy, pushing it back, and the auto-update settings. Mutation
// methods await their invalidation group before returning.
type ProductService interface {
	Fetch(ctx context.Context, deviceID int64) (int, error)
	Cached(ctx context.Context, deviceID int64) ([]scaleapi.Product, error)
	Patch(ctx context.Context, deviceID, plu int64, patch scaleapi.ProductPatch) (scaleapi.Product, error)
	Push(ctx context.Context, deviceID int64) (int, error)
	AutoUpdate(ctx context.Context, deviceID int64) (scaleapi.AutoUpdate, error)
	SetAutoUpdate(ctx context.Context, deviceID int64, enabled bool, intervalMinutes float64) (scaleapi.AutoUpdate, error)
}

type productService struct {
	client api.Client
	cache  *querycache.Cache
}

func NewProductService(client api.Client, cache *querycache.Cache) ProductService {
	return &productService{client: client, cache: cache}
}

// Fetch reads the catalog off the physical scale into the hub's cache and
// returns how many products arrived. Fetching resets any unpushed edits
// server-side, so the full product group is refreshed.
func (s *productService) Fetch(ctx context.Context, deviceID int64) (int, error) {
	products, err := s.client.FetchProducts(ctx, deviceID)
	if err != nil {
		return 0, fmt.Errorf("fetching products: %w", err)
	}
	if err := s.cache.Invalidate(ctx, querycache.AfterProductChange(deviceID)...); err != nil {
		return 0, err
	}
	return len(products), nil
}

func (s *productService) Cached(ctx context.Context, deviceID int64) ([]scaleapi.Product, error) {
	return querycache.Resolve(ctx, s.cache, querycache.ProductsCached(deviceID), func(ctx context.Context) ([]scaleapi.Product, error) {
		return s.client.CachedProducts(ctx, deviceID)
	})
}

// Patch validates and applies a partial edit to one cached product.
func (s *productService) Patch(ctx context.Context, deviceID, plu int64, patch scaleapi.ProductPatch) (scaleapi.Product, error) {
	if err := patch.Validate(); err != nil {
		return scaleapi.Product{}, err
	}

	p, err := s.client.PatchProduct(ctx, deviceID, plu, patch)
	if err != nil {
		return scaleapi.Product{}, fmt.Errorf("updating product: %w", err)
	}
	if err := s.cache.Invalidate(ctx, querycache.AfterProductChange(deviceID)...); err != nil {
		return scaleapi.Product{}, err
	}
	return p, nil
}

// Push writes the cached catalog to the physical scale and returns the
// number of products written.
func (s *productService) Push(ctx context.Context, deviceID int64) (int, error) {
	res, err := s.client.PushProducts(ctx, deviceID)
	if err != nil {
		return 0, fmt.Errorf("pushing products: %w", err)
	}
	if err := s.cache.Invalidate(ctx, querycache.AfterProductChange(deviceID)...); err != nil {
		return 0, err
	}
	return res.Pushed, nil
}

func (s *productService) AutoUpdate(ctx context.Context, deviceID int64) (scaleapi.AutoUpdate, error) {
	return querycache.Resolve(ctx, s.cache, querycache.AutoUpdate(deviceID), func(ctx context.Context) (scaleapi.AutoUpdate, error) {
		return s.client.AutoUpdateSettings(ctx, deviceID)
	})
}

// SetAutoUpdate sanitizes the interval before every write, since the hub
// rejects non-integer or non-positive intervals, then stores the settings.
func (s *productService) SetAutoUpdate(ctx context.Context, deviceID int64, enabled bool, intervalMinutes float64) (scaleapi.AutoUpdate, error) {
	spec := scaleapi.AutoUpdateSpec{
		Enabled:         enabled,
		IntervalMinutes: expiry.NormalizeIntervalMinutes(intervalMinutes, DefaultAutoUpdateInterval),
	}
	if err := spec.Validate(); err != nil {
		return scaleapi.AutoUpdate{}, err
	}

	au, err := s.client.SetAutoUpdate(ctx, deviceID, spec)
	if err != nil {
		return scaleapi.AutoUpdate{}, fmt.Errorf("saving auto-update settings: %w", err)
	}
	if err := s.cache.Invalidate(ctx, querycache.AfterAutoUpdateChange(deviceID)...); err != nil {
		return scaleapi.AutoUpdate{}, err
	}
	return au, nil
}
