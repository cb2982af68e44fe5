package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"
)

type contextKey string

// IdentityKey is the context key for the verified Identity.
const IdentityKey = contextKey("identity")

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

// IdentityFromContext returns the Identity attached by the gate, or nil.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(IdentityKey).(*Identity)
	return id
}

// Gate authenticates requests against the configured transport. It performs
// no database lookups.
type Gate struct {
	tokens    *Tokens
	transport Transport
}

// NewGate creates a Gate.
func NewGate(tokens *Tokens, transport Transport) *Gate {
	return &Gate{tokens: tokens, transport: transport}
}

// Authenticate extracts and verifies the request's token.
func (g *Gate) Authenticate(r *http.Request) (*Identity, error) {
	tokenStr, err := g.transport.Extract(r)
	if err != nil {
		return nil, err
	}
	return g.tokens.Verify(tokenStr)
}

// Middleware protects the wrapped handler. Missing and invalid tokens both
// yield 401; only the message differs.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := g.Authenticate(r)
		if err != nil {
			msg := "Invalid or expired token"
			if errors.Is(err, ErrMissingToken) {
				msg = "Not authenticated"
			}
			hlog.FromRequest(r).Debug().Err(err).Str("path", r.URL.Path).Msg("Rejected unauthenticated request")
			writeUnauthorized(w, msg)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
