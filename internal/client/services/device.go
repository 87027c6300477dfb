package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/scalehub/internal/client/api"
	"github.com/dmitrijs2005/scalehub/internal/client/querycache"
	"github.com/dmitrijs2005/scalehub/internal/scaleapi"
)

// DeviceService covers device CRUD. Reads go through the query cache;
// every mutation runs its invalidation group to completion before
// returning, so a caller that reports success can only ever show fresh
// state afterwards.
type DeviceService interface {
	List(ctx context.Context) ([]scaleapi.Device, error)
	Get(ctx context.Context, id int64) (scaleapi.Device, error)
	Create(ctx context.Context, spec scaleapi.DeviceSpec) (scaleapi.Device, error)
	Update(ctx context.Context, id int64, spec scaleapi.DeviceSpec) (scaleapi.Device, error)
	Delete(ctx context.Context, id int64) error
}

type deviceService struct {
	client api.Client
	cache  *querycache.Cache
}

func NewDeviceService(client api.Client, cache *querycache.Cache) DeviceService {
	return &deviceService{client: client, cache: cache}
}

func (s *deviceService) List(ctx context.Context) ([]scaleapi.Device, error) {
	return querycache.Resolve(ctx, s.cache, querycache.Devices(), s.client.Devices)
}

func (s *deviceService) Get(ctx context.Context, id int64) (scaleapi.Device, error) {
	return querycache.Resolve(ctx, s.cache, querycache.Device(id), func(ctx context.Context) (scaleapi.Device, error) {
		return s.client.Device(ctx, id)
	})
}

func (s *deviceService) Create(ctx context.Context, spec scaleapi.DeviceSpec) (scaleapi.Device, error) {
	spec = spec.Normalize()
	if err := spec.Validate(); err != nil {
		return scaleapi.Device{}, err
	}

	d, err := s.client.CreateDevice(ctx, spec)
	if err != nil {
		return scaleapi.Device{}, fmt.Errorf("creating device: %w", err)
	}
	if err := s.cache.Invalidate(ctx, querycache.AfterDeviceListChange()...); err != nil {
		return scaleapi.Device{}, err
	}
	return d, nil
}

func (s *deviceService) Update(ctx context.Context, id int64, spec scaleapi.DeviceSpec) (scaleapi.Device, error) {
	spec = spec.Normalize()
	if err := spec.Validate(); err != nil {
		return scaleapi.Device{}, err
	}

	d, err := s.client.UpdateDevice(ctx, id, spec)
	if err != nil {
		return scaleapi.Device{}, fmt.Errorf("updating device: %w", err)
	}
	if err := s.cache.Invalidate(ctx, querycache.AfterDeviceChange(id)...); err != nil {
		return scaleapi.Device{}, err
	}
	return d, nil
}

// Delete removes the device, drops its cached resources outright (they no
// longer exist to refresh), and refreshes the device list.
func (s *deviceService) Delete(ctx context.Context, id int64) error {
	if err := s.client.DeleteDevice(ctx, id); err != nil {
		return fmt.Errorf("deleting device: %w", err)
	}

	s.cache.Remove(
		querycache.Device(id),
		querycache.ProductsCached(id),
		querycache.AutoUpdate(id),
	)
	return s.cache.Invalidate(ctx, querycache.AfterDeviceListChange()...)
}
