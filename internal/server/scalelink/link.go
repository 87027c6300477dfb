// Package scalelink talks to the scale devices themselves. A request is one
// JSON line, the reply is one JSON line, over TCP or UDP depending on how
// the device is registered.
package scalelink

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/scalehub/internal/scaleapi"
)

// ErrScaleUnavailable marks dial, deadline, and transport failures so the
// API layer can distinguish an unreachable device from a bad request.
var ErrScaleUnavailable = errors.New("scale unavailable")

// Target is the network address of one scale.
type Target struct {
	Host     string
	Port     int
	Protocol scaleapi.Protocol
}

func (t Target) addr() string {
	return fmt.Sprintf("%s:%d", t.Host, t.Port)
}

func (t Target) network() string {
	if t.Protocol == scaleapi.ProtocolUDP {
		return "udp"
	}
	return "tcp"
}

// Link exchanges product catalogs with a scale. FetchProducts returns the
// raw rows as sent by the firmware; callers normalize them through
// scaleapi.ProductFromRaw. PushProducts returns how many products the scale
// acknowledged.
type Link interface {
	FetchProducts(ctx context.Context, target Target) ([]map[string]any, error)
	PushProducts(ctx context.Context, target Target, products []scaleapi.Product) (int, error)
}
