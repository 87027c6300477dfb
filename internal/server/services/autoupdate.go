package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/scalehub/internal/common"
	"github.com/dmitrijs2005/scalehub/internal/expiry"
	"github.com/dmitrijs2005/scalehub/internal/logging"
	"github.com/dmitrijs2005/scalehub/internal/server/models"
	"github.com/dmitrijs2005/scalehub/internal/server/productcache"
	"github.com/dmitrijs2005/scalehub/internal/server/repositories/repomanager"
)

// AutoUpdateRunner is the background job behind the auto-update setting.
// On every tick it finds devices whose interval has elapsed and re-dates
// their near-expiry cached products: any cached product that is expired or
// expiring soon and has a positive shelf life gets a manufacture date of
// today and a sell-by date of today plus its shelf life. Touched caches are
// marked dirty so the edits show up as pending until the next push.
type AutoUpdateRunner struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	cache         productcache.Store
	checkInterval time.Duration
	logger        logging.Logger
	now           func() time.Time
}

func NewAutoUpdateRunner(db *sql.DB, m repomanager.RepositoryManager, cache productcache.Store, checkInterval time.Duration, logger logging.Logger) *AutoUpdateRunner {
	return &AutoUpdateRunner{
		db:            db,
		repomanager:   m,
		cache:         cache,
		checkInterval: checkInterval,
		logger:        logger.With("component", "autoupdate"),
		now:           time.Now,
	}
}

// Run ticks until the context is cancelled. Errors are logged per device;
// one broken device never stops the scan.
func (r *AutoUpdateRunner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *AutoUpdateRunner) runOnce(ctx context.Context) {
	repo := r.repomanager.Devices(r.db)

	due, err := repo.ListAutoUpdateDue(ctx, r.now().UTC())
	if err != nil {
		r.logger.Error(ctx, "listing due devices failed", "error", err.Error())
		return
	}

	for _, d := range due {
		updated, err := r.refreshDevice(ctx, d)
		if err != nil {
			r.logger.Error(ctx, "refresh failed", "device", d.ID, "error", err.Error())
			continue
		}
		if updated > 0 {
			r.logger.Info(ctx, "re-dated near-expiry products", "device", d.ID, "updated", updated)
		}
	}
}

// refreshDevice re-dates the device's near-expiry cached products and stamps
// the run. A device with no cached catalog is stamped without changes so it
// is not re-scanned every tick.
func (r *AutoUpdateRunner) refreshDevice(ctx context.Context, d *models.Device) (int, error) {
	repo := r.repomanager.Devices(r.db)
	now := r.now()

	products, err := r.cache.Get(ctx, d.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, repo.StampAutoUpdateRun(ctx, d.ID, now.UTC())
		}
		return 0, err
	}

	updated := 0
	for i := range products {
		p := &products[i]
		if p.ShelfLifeDays <= 0 {
			continue
		}
		if expiry.ProductStatus(p.SellByDate, now).Class == expiry.ClassOK {
			continue
		}
		p.ManufactureDate = expiry.FormatDate(now)
		p.SellByDate = expiry.FormatDate(now.AddDate(0, 0, p.ShelfLifeDays))
		updated++
	}

	if updated > 0 {
		if err := r.cache.Set(ctx, d.ID, products); err != nil {
			return 0, err
		}
		if err := repo.SetDirty(ctx, d.ID, true); err != nil {
			return 0, err
		}
	}

	return updated, repo.StampAutoUpdateRun(ctx, d.ID, now.UTC())
}
