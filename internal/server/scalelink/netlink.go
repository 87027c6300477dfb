package scalelink

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/dmitrijs2005/scalehub/internal/scaleapi"
)

// maxReplySize caps one reply; a UDP reply must fit a single datagram.
const maxReplySize = 64 * 1024

// defaultTimeout applies when the configured timeout is missing.
const defaultTimeout = 5 * time.Second

// dialContext is a seam for testing connections.
var dialContext = func(ctx context.Context, network, address string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, network, address)
}

// NetLink implements Link over real sockets. Every call is one
// dial/request/reply exchange; no connections are pooled.
type NetLink struct {
	timeout time.Duration
}

func NewNetLink(timeout time.Duration) *NetLink {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &NetLink{timeout: timeout}
}

type fetchRequest struct {
	Op string `json:"op"`
}

type pushRequest struct {
	Op       string             `json:"op"`
	Products []scaleapi.Product `json:"products"`
}

type fetchReply struct {
	Products []map[string]any `json:"products"`
}

type pushReply struct {
	Status   string `json:"status"`
	Received *int   `json:"received"`
	Error    string `json:"error"`
}

func (l *NetLink) FetchProducts(ctx context.Context, target Target) ([]map[string]any, error) {
	reply, err := l.exchange(ctx, target, fetchRequest{Op: "get_products"})
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(reply)

	// older firmwares reply with a bare array instead of an envelope
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var rows []map[string]any
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, fmt.Errorf("decoding scale reply: %w", err)
		}
		return rows, nil
	}

	var r fetchReply
	if err := json.Unmarshal(trimmed, &r); err != nil {
		return nil, fmt.Errorf("decoding scale reply: %w", err)
	}
	return r.Products, nil
}

func (l *NetLink) PushProducts(ctx context.Context, target Target, products []scaleapi.Product) (int, error) {
	if products == nil {
		products = []scaleapi.Product{}
	}

	reply, err := l.exchange(ctx, target, pushRequest{Op: "set_products", Products: products})
	if err != nil {
		return 0, err
	}

	var r pushReply
	if err := json.Unmarshal(bytes.TrimSpace(reply), &r); err != nil {
		return 0, fmt.Errorf("decoding scale reply: %w", err)
	}
	if r.Status != "ok" {
		if r.Error != "" {
			return 0, fmt.Errorf("scale rejected push: %s", r.Error)
		}
		return 0, fmt.Errorf("scale rejected push: status %q", r.Status)
	}
	if r.Received != nil {
		return *r.Received, nil
	}
	return len(products), nil
}

// exchange dials the target, writes req as one JSON line, and reads one
// reply back. The timeout bounds the dial and the whole exchange.
func (l *NetLink) exchange(ctx context.Context, target Target, req any) ([]byte, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	payload = append(payload, '\n')

	dialCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	conn, err := dialContext(dialCtx, target.network(), target.addr())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScaleUnavailable, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(l.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScaleUnavailable, err)
	}

	if _, err := conn.Write(payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScaleUnavailable, err)
	}

	// UDP replies arrive as one datagram; TCP replies as one line.
	if target.Protocol == scaleapi.ProtocolUDP {
		buf := make([]byte, maxReplySize)
		n, err := conn.Read(buf)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrScaleUnavailable, err)
		}
		return buf[:n], nil
	}

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && len(line) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrScaleUnavailable, err)
	}
	return line, nil
}
