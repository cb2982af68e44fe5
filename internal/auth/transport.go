package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/isdelr/jobboard-be/internal/config"
)

// Transport is how a client presents its token. The issuer and the gate of
// one deployment always share the same Transport.
type Transport interface {
	// Extract returns the raw token or ErrMissingToken.
	Extract(r *http.Request) (string, error)
	// Deliver hands a freshly issued token to the client. It reports whether
	// the token must also be returned in the response body.
	Deliver(w http.ResponseWriter, token string, ttl time.Duration) bool
	// Clear removes any client-side token state.
	Clear(w http.ResponseWriter)
}

// NewTransport picks the transport configured for this deployment.
func NewTransport(cfg *config.Config) Transport {
	if cfg.TokenTransport == config.TransportCookie {
		return NewCookieTransport(cfg.CookieName, cfg.IsProduction())
	}
	return HeaderTransport{}
}

// HeaderTransport reads "Authorization: Bearer <token>" and returns issued
// tokens in the response body.
type HeaderTransport struct{}

func (HeaderTransport) Extract(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrMissingToken
	}
	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMissingToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

func (HeaderTransport) Deliver(http.ResponseWriter, string, time.Duration) bool { return true }

func (HeaderTransport) Clear(http.ResponseWriter) {}

// CookieTransport carries the token in an httpOnly cookie.
type CookieTransport struct {
	Name     string
	Secure   bool
	SameSite http.SameSite
}

// NewCookieTransport builds the cookie policy: Secure and SameSite=None in
// production, Lax otherwise.
func NewCookieTransport(name string, production bool) CookieTransport {
	c := CookieTransport{Name: name, SameSite: http.SameSiteLaxMode}
	if production {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

func (c CookieTransport) Extract(r *http.Request) (string, error) {
	cookie, err := r.Cookie(c.Name)
	if err != nil || cookie.Value == "" {
		return "", ErrMissingToken
	}
	return cookie.Value, nil
}

func (c CookieTransport) Deliver(w http.ResponseWriter, token string, ttl time.Duration) bool {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
	return false
}

func (c CookieTransport) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
}
