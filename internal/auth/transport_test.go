package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/isdelr/jobboard-be/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderTransport_Extract(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "bearer", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc", want: "abc"},
		{name: "missing", header: "", wantErr: true},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", wantErr: true},
		{name: "empty token", header: "Bearer ", wantErr: true},
		{name: "no separator", header: "Bearer", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			got, err := HeaderTransport{}.Extract(req)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMissingToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHeaderTransport_DeliverInBody(t *testing.T) {
	rec := httptest.NewRecorder()
	assert.True(t, HeaderTransport{}.Deliver(rec, "tok", time.Hour))
	assert.Empty(t, rec.Result().Cookies())
}

func TestCookieTransport_DeliverAndExtract(t *testing.T) {
	transport := NewCookieTransport("token", false)

	rec := httptest.NewRecorder()
	inBody := transport.Deliver(rec, "signed-token", 15*time.Minute)
	assert.False(t, inBody)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "token", c.Name)
	assert.Equal(t, "signed-token", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 900, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.False(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "signed-token"})
	got, err := transport.Extract(req)
	require.NoError(t, err)
	assert.Equal(t, "signed-token", got)
}

func TestCookieTransport_ProductionPolicy(t *testing.T) {
	transport := NewCookieTransport("token", true)
	assert.True(t, transport.Secure)
	assert.Equal(t, http.SameSiteNoneMode, transport.SameSite)
}

func TestCookieTransport_IgnoresAuthorizationHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc")

	_, err := NewCookieTransport("token", false).Extract(req)
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestCookieTransport_Clear(t *testing.T) {
	rec := httptest.NewRecorder()
	NewCookieTransport("token", false).Clear(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestNewTransport(t *testing.T) {
	_, ok := NewTransport(&config.Config{TokenTransport: config.TransportHeader}).(HeaderTransport)
	assert.True(t, ok)

	ct, ok := NewTransport(&config.Config{TokenTransport: config.TransportCookie, CookieName: "jb"}).(CookieTransport)
	require.True(t, ok)
	assert.Equal(t, "jb", ct.Name)
}
