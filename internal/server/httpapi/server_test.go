package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/scalehub/internal/common"
	"github.com/dmitrijs2005/scalehub/internal/dbx"
	"github.com/dmitrijs2005/scalehub/internal/logging"
	"github.com/dmitrijs2005/scalehub/internal/scaleapi"
	"github.com/dmitrijs2005/scalehub/internal/server/auth"
	"github.com/dmitrijs2005/scalehub/internal/server/config"
	"github.com/dmitrijs2005/scalehub/internal/server/models"
	"github.com/dmitrijs2005/scalehub/internal/server/productcache"
	devicesrepo "github.com/dmitrijs2005/scalehub/internal/server/repositories/devices"
	usersrepo "github.com/dmitrijs2005/scalehub/internal/server/repositories/users"
	"github.com/dmitrijs2005/scalehub/internal/server/scalelink"
	"github.com/dmitrijs2005/scalehub/internal/server/services"
	"github.com/dmitrijs2005/scalehub/internal/server/snapshots"
)

// --- stub repositories ---

type stubUsersRepo struct {
	byEmail map[string]*models.User
	seq     int
}

func (f *stubUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if _, taken := f.byEmail[u.Email]; taken {
		return nil, common.ErrorAlreadyExists
	}
	f.seq++
	out := *u
	out.ID = fmt.Sprintf("u%d", f.seq)
	f.byEmail[u.Email] = &out
	return &out, nil
}

func (f *stubUsersRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

type stubDevicesRepo struct {
	rows map[int64]*models.Device
	seq  int64
}

func (f *stubDevicesRepo) owned(ownerID string, id int64) (*models.Device, error) {
	d, ok := f.rows[id]
	if !ok || d.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	return d, nil
}

func (f *stubDevicesRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.Device, error) {
	out := []*models.Device{}
	for _, d := range f.rows {
		if d.OwnerID == ownerID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *stubDevicesRepo) GetByID(ctx context.Context, ownerID string, id int64) (*models.Device, error) {
	return f.owned(ownerID, id)
}

func (f *stubDevicesRepo) Create(ctx context.Context, device *models.Device) (*models.Device, error) {
	f.seq++
	device.ID = f.seq
	f.rows[device.ID] = device
	return device, nil
}

func (f *stubDevicesRepo) Update(ctx context.Context, device *models.Device) error {
	if _, ok := f.rows[device.ID]; !ok {
		return common.ErrorNotFound
	}
	f.rows[device.ID] = device
	return nil
}

func (f *stubDevicesRepo) Delete(ctx context.Context, ownerID string, id int64) error {
	if _, err := f.owned(ownerID, id); err != nil {
		return err
	}
	delete(f.rows, id)
	return nil
}

func (f *stubDevicesRepo) SetAutoUpdate(ctx context.Context, ownerID string, id int64, enabled bool, intervalMinutes int) error {
	d, err := f.owned(ownerID, id)
	if err != nil {
		return err
	}
	d.AutoUpdateEnabled = enabled
	d.AutoUpdateIntervalMinutes = intervalMinutes
	return nil
}

func (f *stubDevicesRepo) SetCacheState(ctx context.Context, id int64, dirty bool, count int) error {
	if d, ok := f.rows[id]; ok {
		d.CachedDirty = dirty
		d.CachedCount = count
	}
	return nil
}

func (f *stubDevicesRepo) SetDirty(ctx context.Context, id int64, dirty bool) error {
	if d, ok := f.rows[id]; ok {
		d.CachedDirty = dirty
	}
	return nil
}

func (f *stubDevicesRepo) StampAutoUpdateRun(ctx context.Context, id int64, at time.Time) error {
	if d, ok := f.rows[id]; ok {
		d.AutoUpdateLastRun = &at
	}
	return nil
}

func (f *stubDevicesRepo) ListAutoUpdateDue(ctx context.Context, now time.Time) ([]*models.Device, error) {
	return nil, nil
}

type stubRepoManager struct {
	u *stubUsersRepo
	d *stubDevicesRepo
}

func (m *stubRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *stubRepoManager) Users(db dbx.DBTX) usersrepo.Repository      { return m.u }
func (m *stubRepoManager) Devices(db dbx.DBTX) devicesrepo.Repository  { return m.d }

type stubLink struct {
	fetchOut []map[string]any
	fetchErr error
	pushOut  int
	pushErr  error
}

func (f *stubLink) FetchProducts(ctx context.Context, target scalelink.Target) ([]map[string]any, error) {
	return f.fetchOut, f.fetchErr
}

func (f *stubLink) PushProducts(ctx context.Context, target scalelink.Target, products []scaleapi.Product) (int, error) {
	if f.pushErr != nil {
		return 0, f.pushErr
	}
	if f.pushOut == 0 {
		return len(products), nil
	}
	return f.pushOut, nil
}

// --- test harness ---

type testHub struct {
	handler http.Handler
	users   *stubUsersRepo
	devices *stubDevicesRepo
	link    *stubLink
	cache   *productcache.MemoryStore
	secret  string
}

func newTestHub(t *testing.T) *testHub {
	t.Helper()

	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		EndpointAddr:                ":0",
		SecretKey:                   "test-secret",
		AccessTokenValidityDuration: time.Hour,
	}

	h := &testHub{
		users:   &stubUsersRepo{byEmail: map[string]*models.User{}},
		devices: &stubDevicesRepo{rows: map[int64]*models.Device{}},
		link:    &stubLink{},
		cache:   productcache.NewMemoryStore(),
		secret:  cfg.SecretKey,
	}

	rm := &stubRepoManager{u: h.users, d: h.devices}
	us := services.NewUserService(db, rm, cfg)
	ds := services.NewDeviceService(db, rm, h.cache)
	ps := services.NewProductService(db, rm, h.cache, h.link, snapshots.Disabled{})

	srv := NewServer(cfg, logging.NewJSON(io.Discard), us, ds, ps)
	h.handler = srv.Handler()
	return h
}

func (h *testHub) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case url.Values:
		rd = strings.NewReader(b.Encode())
		contentType = "application/x-www-form-urlencoded"
	case string:
		rd = strings.NewReader(b)
		contentType = "application/json"
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(data)
		contentType = "application/json"
	}

	req := httptest.NewRequest(method, path, rd)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func (h *testHub) token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := auth.GenerateToken(userID, []byte(h.secret), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	return tok
}

func (h *testHub) seedDevice(ownerID string) *models.Device {
	h.devices.seq++
	d := &models.Device{
		ID: h.devices.seq, OwnerID: ownerID, Name: "bakery",
		Host: "10.0.0.5", Port: 9000, Protocol: "TCP",
		AutoUpdateIntervalMinutes: 60,
	}
	h.devices.rows[d.ID] = d
	return d
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func detailOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload scaleapi.ErrorPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return scaleapi.FlattenDetail(payload.Detail)
}

func fieldErrorsOf(t *testing.T, rec *httptest.ResponseRecorder) []scaleapi.FieldError {
	t.Helper()
	var payload struct {
		Detail []scaleapi.FieldError `json:"detail"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode field errors %q: %v", rec.Body.String(), err)
	}
	return payload.Detail
}

// --- tests ---

func TestHealthz_NoAuth(t *testing.T) {
	h := newTestHub(t)

	rec := h.request(t, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := decodeBody[map[string]string](t, rec); got["status"] != "ok" {
		t.Errorf("body = %v", got)
	}
}

func TestRegisterAndLogin_Flow(t *testing.T) {
	h := newTestHub(t)

	rec := h.request(t, http.MethodPost, "/auth/register", "", scaleapi.Credentials{
		Email: "baker@example.com", Password: "correct horse",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = h.request(t, http.MethodPost, "/auth/register", "", scaleapi.Credentials{
		Email: "baker@example.com", Password: "correct horse",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate register status = %d", rec.Code)
	}
	if detailOf(t, rec) != "Email already registered" {
		t.Errorf("detail = %q", detailOf(t, rec))
	}

	form := url.Values{}
	form.Set("username", "baker@example.com")
	form.Set("password", "correct horse")
	rec = h.request(t, http.MethodPost, "/auth/login", "", form)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", rec.Code, rec.Body.String())
	}
	tok := decodeBody[scaleapi.Token](t, rec)
	if tok.TokenType != "bearer" || tok.AccessToken == "" {
		t.Fatalf("unexpected token: %+v", tok)
	}

	rec = h.request(t, http.MethodGet, "/devices", tok.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("minted token rejected: %d", rec.Code)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newTestHub(t)
	h.request(t, http.MethodPost, "/auth/register", "", scaleapi.Credentials{
		Email: "baker@example.com", Password: "correct horse",
	})

	form := url.Values{}
	form.Set("username", "baker@example.com")
	form.Set("password", "wrong")
	rec := h.request(t, http.MethodPost, "/auth/login", "", form)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if detailOf(t, rec) != "Incorrect email or password" {
		t.Errorf("detail = %q", detailOf(t, rec))
	}
}

func TestLogin_MissingFields(t *testing.T) {
	h := newTestHub(t)

	rec := h.request(t, http.MethodPost, "/auth/login", "", url.Values{})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	fields := fieldErrorsOf(t, rec)
	if len(fields) != 2 {
		t.Fatalf("expected 2 field errors, got %+v", fields)
	}
	if fields[0].Location() != "body.username" || fields[1].Location() != "body.password" {
		t.Errorf("unexpected locations: %q, %q", fields[0].Location(), fields[1].Location())
	}
}

func TestRegister_ShortPassword(t *testing.T) {
	h := newTestHub(t)

	rec := h.request(t, http.MethodPost, "/auth/register", "", scaleapi.Credentials{
		Email: "baker@example.com", Password: "short",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	fields := fieldErrorsOf(t, rec)
	if len(fields) != 1 || !strings.Contains(fields[0].Msg, "password") {
		t.Errorf("unexpected detail: %+v", fields)
	}
}

func TestAuth_Required(t *testing.T) {
	h := newTestHub(t)

	rec := h.request(t, http.MethodGet, "/devices", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", rec.Code)
	}
	if detailOf(t, rec) != "Not authenticated" {
		t.Errorf("detail = %q", detailOf(t, rec))
	}

	rec = h.request(t, http.MethodGet, "/devices", "not-a-jwt", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: status = %d, want 401", rec.Code)
	}
	if detailOf(t, rec) != "Could not validate credentials" {
		t.Errorf("detail = %q", detailOf(t, rec))
	}

	expired, err := auth.GenerateToken("u1", []byte(h.secret), -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	rec = h.request(t, http.MethodGet, "/devices", expired, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expired token: status = %d, want 401", rec.Code)
	}
}

func TestDeviceCRUD_Flow(t *testing.T) {
	h := newTestHub(t)
	tok := h.token(t, "u1")

	rec := h.request(t, http.MethodPost, "/devices", tok, scaleapi.DeviceSpec{
		Name: "bakery", Host: "10.0.0.5", Port: 9000, Protocol: "tcp",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[scaleapi.Device](t, rec)
	if created.ID == 0 || created.Protocol != scaleapi.ProtocolTCP {
		t.Fatalf("unexpected device: %+v", created)
	}
	if created.AutoUpdate.IntervalMinutes != 60 || created.AutoUpdate.LastRunUTC != nil {
		t.Errorf("auto-update defaults wrong: %+v", created.AutoUpdate)
	}

	rec = h.request(t, http.MethodGet, "/devices", tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	list := decodeBody[[]scaleapi.Device](t, rec)
	if len(list) != 1 || list[0].Name != "bakery" {
		t.Fatalf("unexpected list: %+v", list)
	}

	path := fmt.Sprintf("/devices/%d", created.ID)

	rec = h.request(t, http.MethodPut, path, tok, scaleapi.DeviceSpec{
		Name: "deli counter", Host: "10.0.0.7", Port: 9001, Protocol: "UDP",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", rec.Code, rec.Body.String())
	}
	updated := decodeBody[scaleapi.Device](t, rec)
	if updated.Name != "deli counter" || updated.Protocol != scaleapi.ProtocolUDP {
		t.Errorf("update not applied: %+v", updated)
	}

	rec = h.request(t, http.MethodDelete, path, tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = h.request(t, http.MethodGet, path, tok, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", rec.Code)
	}
	if detailOf(t, rec) != "Device not found" {
		t.Errorf("detail = %q", detailOf(t, rec))
	}
}

func TestDevice_ForeignOwnerHidden(t *testing.T) {
	h := newTestHub(t)
	d := h.seedDevice("owner")

	rec := h.request(t, http.MethodGet, fmt.Sprintf("/devices/%d", d.ID), h.token(t, "intruder"), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for foreign device", rec.Code)
	}
}

func TestDevice_ValidationErrors(t *testing.T) {
	h := newTestHub(t)
	tok := h.token(t, "u1")

	rec := h.request(t, http.MethodPost, "/devices", tok, scaleapi.DeviceSpec{
		Name: "x", Host: "10.0.0.5", Port: 70000, Protocol: "TCP",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	fields := fieldErrorsOf(t, rec)
	if len(fields) != 1 || !strings.Contains(fields[0].Msg, "port") {
		t.Errorf("unexpected detail: %+v", fields)
	}

	rec = h.request(t, http.MethodPost, "/devices", tok, "{not json")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad JSON status = %d, want 422", rec.Code)
	}
}

func TestDevice_BadIDInPath(t *testing.T) {
	h := newTestHub(t)

	rec := h.request(t, http.MethodGet, "/devices/abc", h.token(t, "u1"), nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	fields := fieldErrorsOf(t, rec)
	if len(fields) != 1 || fields[0].Location() != "path.id" {
		t.Errorf("unexpected detail: %+v", fields)
	}
}

func TestProducts_FetchCachePatchPush(t *testing.T) {
	h := newTestHub(t)
	d := h.seedDevice("u1")
	tok := h.token(t, "u1")
	base := fmt.Sprintf("/devices/%d", d.ID)

	h.link.fetchOut = []map[string]any{
		{"pluNumber": float64(101), "name": "Rye bread", "price": 3.5, "shelfLife": float64(4)},
		{"plu": float64(102), "name": "Croissant", "price": 2.0},
	}

	rec := h.request(t, http.MethodGet, base+"/products", tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("fetch status = %d: %s", rec.Code, rec.Body.String())
	}
	fetched := decodeBody[scaleapi.CachedProducts](t, rec)
	if len(fetched.Products.Products) != 2 {
		t.Fatalf("fetched %d products, want 2", len(fetched.Products.Products))
	}

	rec = h.request(t, http.MethodGet, base, tok, nil)
	dev := decodeBody[scaleapi.Device](t, rec)
	if dev.CachedCount != 2 || dev.CachedDirty {
		t.Errorf("fetch must record a clean cache of 2: %+v", dev)
	}

	rec = h.request(t, http.MethodGet, base+"/products/cached", tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("cached status = %d", rec.Code)
	}
	cached := decodeBody[scaleapi.CachedProducts](t, rec)
	if len(cached.Products.Products) != 2 {
		t.Fatalf("cached %d products, want 2", len(cached.Products.Products))
	}

	rec = h.request(t, http.MethodPatch, base+"/products/101", tok, map[string]any{"price": 4.2})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d: %s", rec.Code, rec.Body.String())
	}
	patched := decodeBody[scaleapi.Product](t, rec)
	if patched.Price != 4.2 {
		t.Errorf("price not patched: %+v", patched)
	}

	rec = h.request(t, http.MethodGet, base, tok, nil)
	dev = decodeBody[scaleapi.Device](t, rec)
	if !dev.CachedDirty {
		t.Errorf("patch must mark the device dirty")
	}

	rec = h.request(t, http.MethodPost, base+"/upload", tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("push status = %d: %s", rec.Code, rec.Body.String())
	}
	result := decodeBody[scaleapi.PushResult](t, rec)
	if result.Pushed != 2 {
		t.Errorf("pushed = %d, want 2", result.Pushed)
	}

	rec = h.request(t, http.MethodGet, base, tok, nil)
	dev = decodeBody[scaleapi.Device](t, rec)
	if dev.CachedDirty {
		t.Errorf("push must clear the dirty flag")
	}
}

func TestPatch_UnknownPLU(t *testing.T) {
	h := newTestHub(t)
	d := h.seedDevice("u1")
	tok := h.token(t, "u1")
	h.cache.Set(context.Background(), d.ID, []scaleapi.Product{{PLU: 101}})

	rec := h.request(t, http.MethodPatch, fmt.Sprintf("/devices/%d/products/999", d.ID), tok, map[string]any{"price": 1.0})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if detailOf(t, rec) != "Product not found" {
		t.Errorf("detail = %q", detailOf(t, rec))
	}
}

func TestPatch_InvalidDate(t *testing.T) {
	h := newTestHub(t)
	d := h.seedDevice("u1")
	tok := h.token(t, "u1")
	h.cache.Set(context.Background(), d.ID, []scaleapi.Product{{PLU: 101}})

	rec := h.request(t, http.MethodPatch, fmt.Sprintf("/devices/%d/products/101", d.ID), tok, map[string]any{"sellByDate": "31-02-26"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	fields := fieldErrorsOf(t, rec)
	if len(fields) != 1 || !strings.Contains(fields[0].Msg, "sellByDate") {
		t.Errorf("unexpected detail: %+v", fields)
	}
}

func TestPush_NothingCached(t *testing.T) {
	h := newTestHub(t)
	d := h.seedDevice("u1")

	rec := h.request(t, http.MethodPost, fmt.Sprintf("/devices/%d/upload", d.ID), h.token(t, "u1"), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if detailOf(t, rec) != "No products cached for device" {
		t.Errorf("detail = %q", detailOf(t, rec))
	}
}

func TestFetch_ScaleUnavailable(t *testing.T) {
	h := newTestHub(t)
	d := h.seedDevice("u1")
	h.link.fetchErr = fmt.Errorf("%w: dial tcp: connection refused", scalelink.ErrScaleUnavailable)

	rec := h.request(t, http.MethodGet, fmt.Sprintf("/devices/%d/products", d.ID), h.token(t, "u1"), nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if detailOf(t, rec) != "Scale unavailable" {
		t.Errorf("detail = %q", detailOf(t, rec))
	}
}

func TestAutoUpdate_GetAndPut(t *testing.T) {
	h := newTestHub(t)
	d := h.seedDevice("u1")
	tok := h.token(t, "u1")
	path := fmt.Sprintf("/devices/%d/auto-update", d.ID)

	rec := h.request(t, http.MethodGet, path, tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	settings := decodeBody[scaleapi.AutoUpdate](t, rec)
	if settings.Enabled || settings.IntervalMinutes != 60 {
		t.Fatalf("unexpected defaults: %+v", settings)
	}

	rec = h.request(t, http.MethodPut, path, tok, scaleapi.AutoUpdateSpec{Enabled: true, IntervalMinutes: 15})
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d: %s", rec.Code, rec.Body.String())
	}
	settings = decodeBody[scaleapi.AutoUpdate](t, rec)
	if !settings.Enabled || settings.IntervalMinutes != 15 {
		t.Errorf("settings not applied: %+v", settings)
	}

	rec = h.request(t, http.MethodPut, path, tok, scaleapi.AutoUpdateSpec{Enabled: true, IntervalMinutes: 0})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("zero interval status = %d, want 422", rec.Code)
	}
}
