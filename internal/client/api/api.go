package api

import (
	"context"

	"github.com/dmitrijs2005/scalehub/internal/scaleapi"
)

// TokenSource supplies the bearer token for outgoing requests and is
// cleared when the hub rejects it. *session.Session satisfies it.
type TokenSource interface {
	Token() string
	Clear()
}

// Client is the full hub API surface the client application talks to.
type Client interface {
	Close() error
	Healthz(ctx context.Context) error

	Register(ctx context.Context, creds scaleapi.Credentials) error
	Login(ctx context.Context, email, password string) (scaleapi.Token, error)

	Devices(ctx context.Context) ([]scaleapi.Device, error)
	Device(ctx context.Context, id int64) (scaleapi.Device, error)
	CreateDevice(ctx context.Context, spec scaleapi.DeviceSpec) (scaleapi.Device, error)
	UpdateDevice(ctx context.Context, id int64, spec scaleapi.DeviceSpec) (scaleapi.Device, error)
	DeleteDevice(ctx context.Context, id int64) error

	FetchProducts(ctx context.Context, id int64) ([]scaleapi.Product, error)
	CachedProducts(ctx context.Context, id int64) ([]scaleapi.Product, error)
	PatchProduct(ctx context.Context, id, plu int64, patch scaleapi.ProductPatch) (scaleapi.Product, error)
	PushProducts(ctx context.Context, id int64) (scaleapi.PushResult, error)

	AutoUpdateSettings(ctx context.Context, id int64) (scaleapi.AutoUpdate, error)
	SetAutoUpdate(ctx context.Context, id int64, spec scaleapi.AutoUpdateSpec) (scaleapi.AutoUpdate, error)
}
