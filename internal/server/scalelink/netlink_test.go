package scalelink

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/scalehub/internal/scaleapi"
)

// fakeScale swaps the dial seam for a net.Pipe and serves exactly one
// request: it reads a JSON line, hands it to respond, writes the result
// back, and closes. The captured request is returned for assertions.
func fakeScale(t *testing.T, respond func(req map[string]any) string) *map[string]any {
	t.Helper()

	captured := &map[string]any{}

	orig := dialContext
	dialContext = func(ctx context.Context, network, address string) (net.Conn, error) {
		client, server := net.Pipe()
		go func() {
			defer server.Close()
			line, err := bufio.NewReader(server).ReadBytes('\n')
			if err != nil {
				return
			}
			var req map[string]any
			if err := json.Unmarshal(line, &req); err != nil {
				return
			}
			*captured = req
			_, _ = server.Write([]byte(respond(req)))
		}()
		return client, nil
	}
	t.Cleanup(func() { dialContext = orig })

	return captured
}

func tcpTarget() Target {
	return Target{Host: "10.0.0.7", Port: 8080, Protocol: scaleapi.ProtocolTCP}
}

func TestFetchProducts_EnvelopeReply(t *testing.T) {
	captured := fakeScale(t, func(req map[string]any) string {
		return `{"products":[{"pluNumber":101,"name":"Smoked ham","price":5.99}]}` + "\n"
	})

	link := NewNetLink(time.Second)
	rows, err := link.FetchProducts(context.Background(), tcpTarget())
	require.NoError(t, err)

	assert.Equal(t, "get_products", (*captured)["op"])
	require.Len(t, rows, 1)
	assert.Equal(t, "Smoked ham", rows[0]["name"])
}

func TestFetchProducts_BareArrayReply(t *testing.T) {
	fakeScale(t, func(req map[string]any) string {
		return `[{"plu":7,"name":"Brie"}]` + "\n"
	})

	link := NewNetLink(time.Second)
	rows, err := link.FetchProducts(context.Background(), tcpTarget())
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "Brie", rows[0]["name"])
}

func TestFetchProducts_UDPDatagramReply(t *testing.T) {
	// UDP replies carry no trailing newline
	fakeScale(t, func(req map[string]any) string {
		return `{"products":[{"pluNumber":1}]}`
	})

	link := NewNetLink(time.Second)
	target := Target{Host: "10.0.0.7", Port: 9000, Protocol: scaleapi.ProtocolUDP}
	rows, err := link.FetchProducts(context.Background(), target)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestPushProducts_AckWithCount(t *testing.T) {
	captured := fakeScale(t, func(req map[string]any) string {
		return `{"status":"ok","received":2}` + "\n"
	})

	link := NewNetLink(time.Second)
	products := []scaleapi.Product{
		{PLU: 101, Name: "Smoked ham", Price: 5.99, SellByDate: "31-12-26"},
		{PLU: 102, Name: "Brie", Price: 3.49},
	}
	n, err := link.PushProducts(context.Background(), tcpTarget(), products)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, "set_products", (*captured)["op"])
	sent, ok := (*captured)["products"].([]any)
	require.True(t, ok, "products missing from request: %v", *captured)
	require.Len(t, sent, 2)
	first, ok := sent[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(101), first["pluNumber"])
	assert.Equal(t, "31-12-26", first["sellByDate"])
}

func TestPushProducts_MissingReceivedFallsBackToSent(t *testing.T) {
	fakeScale(t, func(req map[string]any) string {
		return `{"status":"ok"}` + "\n"
	})

	link := NewNetLink(time.Second)
	n, err := link.PushProducts(context.Background(), tcpTarget(), []scaleapi.Product{{PLU: 1}, {PLU: 2}, {PLU: 3}})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestPushProducts_ScaleRejects(t *testing.T) {
	fakeScale(t, func(req map[string]any) string {
		return `{"status":"error","error":"catalog full"}` + "\n"
	})

	link := NewNetLink(time.Second)
	_, err := link.PushProducts(context.Background(), tcpTarget(), []scaleapi.Product{{PLU: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog full")
}

func TestDialFailure_IsScaleUnavailable(t *testing.T) {
	orig := dialContext
	dialContext = func(ctx context.Context, network, address string) (net.Conn, error) {
		return nil, errors.New("connection refused")
	}
	t.Cleanup(func() { dialContext = orig })

	link := NewNetLink(time.Second)

	_, err := link.FetchProducts(context.Background(), tcpTarget())
	require.ErrorIs(t, err, ErrScaleUnavailable)

	_, err = link.PushProducts(context.Background(), tcpTarget(), nil)
	require.ErrorIs(t, err, ErrScaleUnavailable)
}

func TestFetchProducts_GarbageReply(t *testing.T) {
	fakeScale(t, func(req map[string]any) string {
		return "not json\n"
	})

	link := NewNetLink(time.Second)
	_, err := link.FetchProducts(context.Background(), tcpTarget())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding scale reply")
}
