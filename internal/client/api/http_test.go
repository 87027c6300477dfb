package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/scalehub/internal/common"
	"github.com/dmitrijs2005/scalehub/internal/scaleapi"
)

type fakeTokens struct {
	token   string
	cleared bool
}

func (f *fakeTokens) Token() string { return f.token }
func (f *fakeTokens) Clear()        { f.cleared = true; f.token = "" }

func newTestClient(t *testing.T, handler http.HandlerFunc) (*HTTPClient, *fakeTokens) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	tokens := &fakeTokens{token: "tok-1"}
	return NewHTTPClient(srv.URL, tokens, 5*time.Second, 0), tokens
}

func TestBearerHeaderInjected(t *testing.T) {
	var gotAuth string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, c.Healthz(context.Background()))
	require.Equal(t, "Bearer tok-1", gotAuth)
}

func TestNoBearerHeaderWhenLoggedOut(t *testing.T) {
	var gotAuth string
	c, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	})
	tokens.token = ""

	require.NoError(t, c.Healthz(context.Background()))
	require.Empty(t, gotAuth)
}

func TestLoginPostsForm(t *testing.T) {
	var gotUser, gotPass, gotContentType string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		gotUser = r.PostFormValue("username")
		gotPass = r.PostFormValue("password")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"abc","token_type":"bearer"}`))
	})

	tok, err := c.Login(context.Background(), "user@example.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, scaleapi.Token{AccessToken: "abc", TokenType: "bearer"}, tok)
	require.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	require.Equal(t, "user@example.com", gotUser)
	require.Equal(t, "secret123", gotPass)
}

func TestUnauthorizedClearsTokenSource(t *testing.T) {
	c, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"token expired"}`))
	})

	_, err := c.Devices(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
	require.ErrorContains(t, err, "token expired")
	require.True(t, tokens.cleared)
}

func TestMapErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		target error
	}{
		{"not found", http.StatusNotFound, `{"detail":"no such device"}`, common.ErrorNotFound},
		{"conflict", http.StatusConflict, `{"detail":"email taken"}`, common.ErrorAlreadyExists},
		{"validation", http.StatusUnprocessableEntity, `{"detail":"bad"}`, common.ErrorValidation},
		{"server error", http.StatusInternalServerError, ``, ErrUnavailable},
		{"bad gateway", http.StatusBadGateway, `down`, ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			_, err := c.Device(context.Background(), 1)
			require.ErrorIs(t, err, tt.target)
		})
	}
}

func TestValidationDetailArrayFlattened(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":[{"loc":["body","port"],"msg":"too large","type":"value_error"},{"loc":["body","host"],"msg":"required","type":"missing"}]}`))
	})

	_, err := c.CreateDevice(context.Background(), scaleapi.DeviceSpec{})
	require.ErrorIs(t, err, common.ErrorValidation)
	require.ErrorContains(t, err, "body.port: too large; body.host: required")
}

func TestCachedProductsUnwrapsEnvelope(t *testing.T) {
	var gotPath string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"products":{"products":[{"pluNumber":101,"name":"Ham","price":9.5,"shelfLife":14,"manufactureDate":"01-01-26","sellByDate":"15-01-26"}]}}`))
	})

	products, err := c.CachedProducts(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, "/devices/7/products/cached", gotPath)
	require.Len(t, products, 1)
	require.Equal(t, int64(101), products[0].PLU)
	require.Equal(t, "Ham", products[0].Name)
	require.Equal(t, "15-01-26", products[0].SellByDate)
}

func TestPatchProductSendsOnlySetFields(t *testing.T) {
	var gotBody []byte
	var gotMethod, gotPath string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = buf
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"pluNumber":101,"name":"Ham","price":6.5}`))
	})

	price := 6.5
	got, err := c.PatchProduct(context.Background(), 7, 101, scaleapi.ProductPatch{Price: &price})
	require.NoError(t, err)
	require.Equal(t, http.MethodPatch, gotMethod)
	require.Equal(t, "/devices/7/products/101", gotPath)
	require.JSONEq(t, `{"price":6.5}`, string(gotBody))
	require.Equal(t, 6.5, got.Price)
}

func TestPushProducts(t *testing.T) {
	var gotMethod, gotPath string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"pushed":3}`))
	})

	res, err := c.PushProducts(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, http.MethodPost, gotMethod)
	require.Equal(t, "/devices/7/upload", gotPath)
	require.Equal(t, 3, res.Pushed)
}

func TestDeleteDevice(t *testing.T) {
	var gotMethod, gotPath string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.DeleteDevice(context.Background(), 9))
	require.Equal(t, http.MethodDelete, gotMethod)
	require.Equal(t, "/devices/9", gotPath)
}

func TestNetworkErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewHTTPClient(srv.URL, &fakeTokens{}, time.Second, 0)
	err := c.Healthz(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestSetAutoUpdateRoundTrip(t *testing.T) {
	var gotBody []byte
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/devices/4/auto-update", r.URL.Path)
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = buf
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"enabled":true,"interval_minutes":30,"last_run_utc":null}`))
	})

	got, err := c.SetAutoUpdate(context.Background(), 4, scaleapi.AutoUpdateSpec{Enabled: true, IntervalMinutes: 30})
	require.NoError(t, err)
	require.JSONEq(t, `{"enabled":true,"interval_minutes":30}`, string(gotBody))
	require.True(t, got.Enabled)
	require.Equal(t, 30, got.IntervalMinutes)
	require.Nil(t, got.LastRunUTC)
}
