package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveGate(t *testing.T, gate *Gate, req *http.Request) (*httptest.ResponseRecorder, *Identity) {
	t.Helper()
	var got *Identity
	handler := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, got
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["message"]
}

func TestGate_HeaderTransport(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour)
	gate := NewGate(tokens, HeaderTransport{})

	token, err := tokens.Issue(testUser)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec, identity := serveGate(t, gate, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, identity)
	assert.Equal(t, testUser.ID, identity.SubjectID)
}

func TestGate_CookieTransport(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour)
	gate := NewGate(tokens, NewCookieTransport("token", false))

	token, err := tokens.Issue(testUser)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})

	rec, identity := serveGate(t, gate, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, identity)
	assert.Equal(t, testUser.Email, identity.Email)
}

func TestGate_Rejections(t *testing.T) {
	issuedAt := time.Now().Add(-2 * time.Hour)
	expired, err := NewTokens(testSecret, time.Hour).WithClock(fixedClock(issuedAt)).Issue(testUser)
	require.NoError(t, err)

	forged, err := NewTokens([]byte("some-other-secret-of-32-bytes!!!"), time.Hour).Issue(testUser)
	require.NoError(t, err)

	gate := NewGate(NewTokens(testSecret, time.Hour), HeaderTransport{})

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{name: "no token", header: "", message: "Not authenticated"},
		{name: "expired token", header: "Bearer " + expired, message: "Invalid or expired token"},
		{name: "forged token", header: "Bearer " + forged, message: "Invalid or expired token"},
		{name: "garbage token", header: "Bearer garbage", message: "Invalid or expired token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/jobs/all", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec, identity := serveGate(t, gate, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Nil(t, identity)
			assert.Equal(t, tt.message, decodeMessage(t, rec))
			assert.NotContains(t, rec.Body.String(), "signature")
		})
	}
}

func TestIdentityFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, IdentityFromContext(req.Context()))
}
