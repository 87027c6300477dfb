package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/dmitrijs2005/scalehub/internal/common"
	"github.com/dmitrijs2005/scalehub/internal/scaleapi"
)

const (
	// maxErrorBody caps how much of an error response is read for a message.
	maxErrorBody = 64 * 1024

	// defaultRequestsPerSecond paces outgoing calls so interactive use
	// plus background refreshes never hammer the hub.
	defaultRequestsPerSecond = 20
)

// HTTPClient talks to the hub over HTTP+JSON. It reads the bearer token
// from its TokenSource on every call and clears the source on a 401.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	limiter *rate.Limiter
}

// NewHTTPClient builds a client for the hub at baseURL. rps limits outgoing
// requests per second; values <= 0 select the default.
func NewHTTPClient(baseURL string, tokens TokenSource, timeout time.Duration, rps float64) *HTTPClient {
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		limiter: rate.NewLimiter(rate.Limit(rps), int(2*rps)),
	}
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// do performs one request: pace, token header, send, decode into out (when
// out is non-nil and the body is non-empty). Non-2xx responses come back as
// mapped sentinel errors.
func (c *HTTPClient) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if tok := c.tokens.Token(); tok != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode >= 400 {
		return c.mapError(resp.StatusCode, data)
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, contentType, body, out)
}

// mapError converts a non-2xx response into a sentinel error carrying the
// best message the body yields: string detail, flattened validation array,
// the raw JSON, or finally "unknown error".
func (c *HTTPClient) mapError(status int, body []byte) error {
	msg := scaleapi.MessageFromBody(body)

	switch status {
	case http.StatusUnauthorized:
		// one rejected token invalidates the whole session
		c.tokens.Clear()
		if msg == "" {
			msg = "authentication required"
		}
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case http.StatusForbidden:
		if msg == "" {
			msg = "access denied"
		}
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case http.StatusNotFound:
		if msg == "" {
			msg = "not found"
		}
		return fmt.Errorf("%w: %s", common.ErrorNotFound, msg)
	case http.StatusConflict:
		if msg == "" {
			msg = "already exists"
		}
		return fmt.Errorf("%w: %s", common.ErrorAlreadyExists, msg)
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		if msg == "" {
			msg = "invalid request"
		}
		return fmt.Errorf("%w: %s", common.ErrorValidation, msg)
	}

	if status >= 500 {
		if msg == "" {
			msg = http.StatusText(status)
		}
		return fmt.Errorf("%w: %s", ErrUnavailable, msg)
	}
	if msg == "" {
		msg = "unknown error"
	}
	return fmt.Errorf("hub replied %d: %s", status, msg)
}

func (c *HTTPClient) Healthz(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", "", nil, nil)
}

func (c *HTTPClient) Register(ctx context.Context, creds scaleapi.Credentials) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/register", creds, nil)
}

// Login posts the form-encoded token request. The token is returned, not
// stored: the session object owns token state.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (scaleapi.Token, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var tok scaleapi.Token
	err := c.do(ctx, http.MethodPost, "/auth/login",
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()), &tok)
	if err != nil {
		return scaleapi.Token{}, err
	}
	return tok, nil
}

func (c *HTTPClient) Devices(ctx context.Context) ([]scaleapi.Device, error) {
	var out []scaleapi.Device
	if err := c.do(ctx, http.MethodGet, "/devices", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Device(ctx context.Context, id int64) (scaleapi.Device, error) {
	var out scaleapi.Device
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/devices/%d", id), "", nil, &out); err != nil {
		return scaleapi.Device{}, err
	}
	return out, nil
}

func (c *HTTPClient) CreateDevice(ctx context.Context, spec scaleapi.DeviceSpec) (scaleapi.Device, error) {
	var out scaleapi.Device
	if err := c.doJSON(ctx, http.MethodPost, "/devices", spec, &out); err != nil {
		return scaleapi.Device{}, err
	}
	return out, nil
}

func (c *HTTPClient) UpdateDevice(ctx context.Context, id int64, spec scaleapi.DeviceSpec) (scaleapi.Device, error) {
	var out scaleapi.Device
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/devices/%d", id), spec, &out); err != nil {
		return scaleapi.Device{}, err
	}
	return out, nil
}

func (c *HTTPClient) DeleteDevice(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/devices/%d", id), "", nil, nil)
}

// FetchProducts asks the hub to read the catalog off the physical scale
// into its server-side cache and returns what was read.
func (c *HTTPClient) FetchProducts(ctx context.Context, id int64) ([]scaleapi.Product, error) {
	var out scaleapi.CachedProducts
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/devices/%d/products", id), "", nil, &out); err != nil {
		return nil, err
	}
	return out.Products.Products, nil
}

func (c *HTTPClient) CachedProducts(ctx context.Context, id int64) ([]scaleapi.Product, error) {
	var out scaleapi.CachedProducts
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/devices/%d/products/cached", id), "", nil, &out); err != nil {
		return nil, err
	}
	return out.Products.Products, nil
}

func (c *HTTPClient) PatchProduct(ctx context.Context, id, plu int64, patch scaleapi.ProductPatch) (scaleapi.Product, error) {
	var out scaleapi.Product
	if err := c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/devices/%d/products/%d", id, plu), patch, &out); err != nil {
		return scaleapi.Product{}, err
	}
	return out, nil
}

func (c *HTTPClient) PushProducts(ctx context.Context, id int64) (scaleapi.PushResult, error) {
	var out scaleapi.PushResult
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/devices/%d/upload", id), "", nil, &out); err != nil {
		return scaleapi.PushResult{}, err
	}
	return out, nil
}

func (c *HTTPClient) AutoUpdateSettings(ctx context.Context, id int64) (scaleapi.AutoUpdate, error) {
	var out scaleapi.AutoUpdate
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/devices/%d/auto-update", id), "", nil, &out); err != nil {
		return scaleapi.AutoUpdate{}, err
	}
	return out, nil
}

func (c *HTTPClient) SetAutoUpdate(ctx context.Context, id int64, spec scaleapi.AutoUpdateSpec) (scaleapi.AutoUpdate, error) {
	var out scaleapi.AutoUpdate
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/devices/%d/auto-update", id), spec, &out); err != nil {
		return scaleapi.AutoUpdate{}, err
	}
	return out, nil
}
