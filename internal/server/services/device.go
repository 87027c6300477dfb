package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/scalehub/internal/scaleapi"
	"github.com/dmitrijs2005/scalehub/internal/server/models"
	"github.com/dmitrijs2005/scalehub/internal/server/productcache"
	"github.com/dmitrijs2005/scalehub/internal/server/repositories/repomanager"
)

// defaultAutoUpdateIntervalMinutes seeds new devices so that enabling
// auto-update without picking an interval still produces a sane schedule.
const defaultAutoUpdateIntervalMinutes = 60

// DeviceService implements owner-scoped CRUD on registered scales. Every
// read and write is keyed by the owner taken from the bearer token, so one
// account can never see or touch another account's devices.
type DeviceService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       productcache.Store
}

func NewDeviceService(db *sql.DB, m repomanager.RepositoryManager, cache productcache.Store) *DeviceService {
	return &DeviceService{db: db, repomanager: m, cache: cache}
}

// List returns all devices registered by the owner, ordered by id.
func (s *DeviceService) List(ctx context.Context, ownerID string) ([]*models.Device, error) {
	repo := s.repomanager.Devices(s.db)
	devices, err := repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing devices: %w", err)
	}
	return devices, nil
}

// Get returns one device or common.ErrorNotFound, including when the device
// exists but belongs to someone else.
func (s *DeviceService) Get(ctx context.Context, ownerID string, id int64) (*models.Device, error) {
	repo := s.repomanager.Devices(s.db)
	return repo.GetByID(ctx, ownerID, id)
}

// Create validates the spec and registers a new device for the owner.
func (s *DeviceService) Create(ctx context.Context, ownerID string, spec scaleapi.DeviceSpec) (*models.Device, error) {
	spec = spec.Normalize()
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	device := &models.Device{
		OwnerID:                   ownerID,
		Name:                      spec.Name,
		Description:               spec.Description,
		Host:                      spec.Host,
		Port:                      spec.Port,
		Protocol:                  string(spec.Protocol),
		AutoUpdateIntervalMinutes: defaultAutoUpdateIntervalMinutes,
	}

	repo := s.repomanager.Devices(s.db)
	d, err := repo.Create(ctx, device)
	if err != nil {
		return nil, fmt.Errorf("error creating device: %w", err)
	}
	return d, nil
}

// Update replaces the writable fields of an existing device. The cache
// flags and auto-update settings are not touched; they change through their
// own operations.
func (s *DeviceService) Update(ctx context.Context, ownerID string, id int64, spec scaleapi.DeviceSpec) (*models.Device, error) {
	spec = spec.Normalize()
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	repo := s.repomanager.Devices(s.db)
	d, err := repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	d.Name = spec.Name
	d.Description = spec.Description
	d.Host = spec.Host
	d.Port = spec.Port
	d.Protocol = string(spec.Protocol)

	if err := repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Delete removes the device row and drops its cached catalog.
func (s *DeviceService) Delete(ctx context.Context, ownerID string, id int64) error {
	repo := s.repomanager.Devices(s.db)
	if err := repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		return fmt.Errorf("error clearing device cache: %w", err)
	}
	return nil
}

// SetAutoUpdate validates and stores new auto-update settings, then returns
// the device so callers can render the updated state.
func (s *DeviceService) SetAutoUpdate(ctx context.Context, ownerID string, id int64, spec scaleapi.AutoUpdateSpec) (*models.Device, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	repo := s.repomanager.Devices(s.db)
	if err := repo.SetAutoUpdate(ctx, ownerID, id, spec.Enabled, spec.IntervalMinutes); err != nil {
		return nil, err
	}
	return repo.GetByID(ctx, ownerID, id)
}
