package devices

import (
	"context"
	"time"

	"github.com/dmitrijs2005/scalehub/internal/server/models"
)

// Repository persists device rows. List/Get/Update/Delete/SetAutoUpdate are
// owner-scoped; the cache-state and auto-update-run operations are internal
// and address devices by id alone.
type Repository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Device, error)
	GetByID(ctx context.Context, ownerID string, id int64) (*models.Device, error)
	Create(ctx context.Context, device *models.Device) (*models.Device, error)
	Update(ctx context.Context, device *models.Device) error
	Delete(ctx context.Context, ownerID string, id int64) error
	SetAutoUpdate(ctx context.Context, ownerID string, id int64, enabled bool, intervalMinutes int) error
	SetCacheState(ctx context.Context, id int64, dirty bool, count int) error
	SetDirty(ctx context.Context, id int64, dirty bool) error
	StampAutoUpdateRun(ctx context.Context, id int64, at time.Time) error
	ListAutoUpdateDue(ctx context.Context, now time.Time) ([]*models.Device, error)
}
