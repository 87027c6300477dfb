package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/scalehub/internal/common"
	"github.com/dmitrijs2005/scalehub/internal/scaleapi"
	"github.com/dmitrijs2005/scalehub/internal/server/models"
	"github.com/dmitrijs2005/scalehub/internal/server/productcache"
	"github.com/dmitrijs2005/scalehub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/scalehub/internal/server/scalelink"
	"github.com/dmitrijs2005/scalehub/internal/server/snapshots"
)

// ErrProductNotFound reports a PLU that is absent from the device's cached
// catalog. It matches common.ErrorNotFound under errors.Is.
var ErrProductNotFound = fmt.Errorf("product %w", common.ErrorNotFound)

// ErrNothingCached reports a push or patch attempted before any catalog was
// fetched into the cache. It matches common.ErrorNotFound under errors.Is.
var ErrNothingCached = fmt.Errorf("no cached products: %w", common.ErrorNotFound)

// ProductService moves product catalogs between the physical scales, the
// per-device cache, and the snapshot archive. The cache is the working copy:
// fetch fills it, patches edit it, push sends it back to the scale.
type ProductService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       productcache.Store
	link        scalelink.Link
	archiver    snapshots.Archiver
}

func NewProductService(db *sql.DB, m repomanager.RepositoryManager, cache productcache.Store, link scalelink.Link, archiver snapshots.Archiver) *ProductService {
	return &ProductService{db: db, repomanager: m, cache: cache, link: link, archiver: archiver}
}

func target(d *models.Device) scalelink.Target {
	return scalelink.Target{Host: d.Host, Port: d.Port, Protocol: scaleapi.Protocol(d.Protocol)}
}

// FetchIntoCache pulls the catalog from the physical scale, normalizes the
// raw rows, and replaces the device's cached catalog with the result. Rows
// without a usable PLU are dropped. A successful fetch clears the dirty
// flag: the cache now mirrors the device.
func (s *ProductService) FetchIntoCache(ctx context.Context, ownerID string, deviceID int64) ([]scaleapi.Product, error) {
	repo := s.repomanager.Devices(s.db)
	d, err := repo.GetByID(ctx, ownerID, deviceID)
	if err != nil {
		return nil, err
	}

	raw, err := s.link.FetchProducts(ctx, target(d))
	if err != nil {
		return nil, fmt.Errorf("error fetching products: %w", err)
	}

	products := make([]scaleapi.Product, 0, len(raw))
	for _, row := range raw {
		if p, ok := scaleapi.ProductFromRaw(row); ok {
			products = append(products, p)
		}
	}

	if err := s.cache.Set(ctx, deviceID, products); err != nil {
		return nil, fmt.Errorf("error caching products: %w", err)
	}
	if err := repo.SetCacheState(ctx, deviceID, false, len(products)); err != nil {
		return nil, fmt.Errorf("error updating cache state: %w", err)
	}
	return products, nil
}

// Cached returns the device's cached catalog. A device that has never been
// fetched yields an empty list, not an error.
func (s *ProductService) Cached(ctx context.Context, ownerID string, deviceID int64) ([]scaleapi.Product, error) {
	repo := s.repomanager.Devices(s.db)
	if _, err := repo.GetByID(ctx, ownerID, deviceID); err != nil {
		return nil, err
	}

	products, err := s.cache.Get(ctx, deviceID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return []scaleapi.Product{}, nil
		}
		return nil, fmt.Errorf("error reading cache: %w", err)
	}
	return products, nil
}

// PatchCached applies a partial update to one cached product, identified by
// PLU, and marks the device dirty. An empty patch is a no-op and leaves the
// dirty flag alone.
func (s *ProductService) PatchCached(ctx context.Context, ownerID string, deviceID int64, plu int64, patch scaleapi.ProductPatch) (*scaleapi.Product, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	repo := s.repomanager.Devices(s.db)
	if _, err := repo.GetByID(ctx, ownerID, deviceID); err != nil {
		return nil, err
	}

	products, err := s.cache.Get(ctx, deviceID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("error reading cache: %w", err)
	}

	idx := -1
	for i := range products {
		if products[i].PLU == plu {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrProductNotFound
	}

	if patch.IsEmpty() {
		p := products[idx]
		return &p, nil
	}

	patch.Apply(&products[idx])

	if err := s.cache.Set(ctx, deviceID, products); err != nil {
		return nil, fmt.Errorf("error caching products: %w", err)
	}
	if err := repo.SetDirty(ctx, deviceID, true); err != nil {
		return nil, fmt.Errorf("error updating cache state: %w", err)
	}

	p := products[idx]
	return &p, nil
}

// Push archives the cached catalog, sends it to the physical scale, and
// clears the dirty flag. The snapshot is taken first so every catalog that
// reached a scale has an audit copy, and a failed snapshot fails the push.
func (s *ProductService) Push(ctx context.Context, ownerID string, deviceID int64) (int, error) {
	repo := s.repomanager.Devices(s.db)
	d, err := repo.GetByID(ctx, ownerID, deviceID)
	if err != nil {
		return 0, err
	}

	products, err := s.cache.Get(ctx, deviceID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, ErrNothingCached
		}
		return 0, fmt.Errorf("error reading cache: %w", err)
	}

	if _, err := s.archiver.Archive(ctx, deviceID, products); err != nil {
		return 0, fmt.Errorf("error archiving snapshot: %w", err)
	}

	pushed, err := s.link.PushProducts(ctx, target(d), products)
	if err != nil {
		return 0, fmt.Errorf("error pushing products: %w", err)
	}

	if err := repo.SetDirty(ctx, deviceID, false); err != nil {
		return 0, fmt.Errorf("error updating cache state: %w", err)
	}
	return pushed, nil
}
