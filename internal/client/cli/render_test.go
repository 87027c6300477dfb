package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/scalehub/internal/scaleapi"
	"github.com/stretchr/testify/require"
)

func TestRenderProducts_StatusLabels(t *testing.T) {
	now := time.Date(2026, 6, 15, 10, 30, 0, 0, time.UTC)
	products := []scaleapi.Product{
		{PLU: 1, Name: "Yesterday", Price: 1, SellByDate: "14-06-26"},
		{PLU: 2, Name: "Today", Price: 1, SellByDate: "15-06-26"},
		{PLU: 3, Name: "EdgeOfWindow", Price: 1, SellByDate: "17-06-26"},
		{PLU: 4, Name: "Fine", Price: 1, SellByDate: "18-06-26"},
	}

	var out bytes.Buffer
	renderProducts(&out, products, now)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 5) // header + four rows

	require.Contains(t, lines[1], "expired")
	require.Contains(t, lines[2], "expires in 0d")
	require.Contains(t, lines[3], "expires in 2d")
	require.NotContains(t, lines[4], "expire")
}

func TestRenderProducts_Empty(t *testing.T) {
	var out bytes.Buffer
	renderProducts(&out, nil, time.Now())
	require.Contains(t, out.String(), "No products cached")
}

func TestRenderDevices(t *testing.T) {
	devices := []scaleapi.Device{
		{
			ID: 1, Name: "deli", Host: "10.0.0.7", Port: 8080, Protocol: scaleapi.ProtocolTCP,
			AutoUpdate: scaleapi.AutoUpdate{Enabled: true, IntervalMinutes: 30},
		},
		{
			ID: 2, Name: "bakery", Host: "10.0.0.8", Port: 9000, Protocol: scaleapi.ProtocolUDP,
			CachedDirty: true, CachedCount: 42,
		},
	}

	var out bytes.Buffer
	renderDevices(&out, devices)

	s := out.String()
	require.Contains(t, s, "10.0.0.7:8080")
	require.Contains(t, s, "every 30m")
	require.Contains(t, s, "unpushed edits")
	require.Contains(t, s, "off")
	require.Contains(t, s, "42")
}

func TestRenderDevices_Empty(t *testing.T) {
	var out bytes.Buffer
	renderDevices(&out, nil)
	require.Contains(t, out.String(), "No devices registered")
}

func TestRenderAutoUpdate(t *testing.T) {
	var out bytes.Buffer
	renderAutoUpdate(&out, scaleapi.AutoUpdate{Enabled: false})
	require.Contains(t, out.String(), "disabled")
	require.Contains(t, out.String(), "never")

	out.Reset()
	lastRun := time.Date(2026, 6, 15, 8, 0, 0, 0, time.UTC)
	renderAutoUpdate(&out, scaleapi.AutoUpdate{Enabled: true, IntervalMinutes: 15, LastRunUTC: &lastRun})
	require.Contains(t, out.String(), "every 15 minutes")
	require.Contains(t, out.String(), "2026-06-15T08:00:00Z")
}
