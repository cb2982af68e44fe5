package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/isdelr/jobboard-be/internal/apperr"
	"github.com/isdelr/jobboard-be/internal/models"
)

// Token errors. Both wrap apperr.ErrUnauthenticated so the HTTP layer
// rejects them the same way.
var (
	ErrMissingToken = fmt.Errorf("%w: missing token", apperr.ErrUnauthenticated)
	ErrInvalidToken = fmt.Errorf("%w: invalid or expired token", apperr.ErrUnauthenticated)
)

// Claims defines the JWT claims structure. The subject carries the user ID.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the verified caller, extracted from a valid token.
type Identity struct {
	SubjectID string
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Tokens issues and verifies HS256 tokens with a process-wide secret.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens creates a Tokens for the given secret and lifetime.
func NewTokens(secret []byte, ttl time.Duration) *Tokens {
	return &Tokens{
		secret: append([]byte(nil), secret...),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock returns a copy of t that reads the current time from now.
func (t *Tokens) WithClock(now func() time.Time) *Tokens {
	c := *t
	c.now = now
	return &c
}

// TTL returns the configured token lifetime.
func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

// Issue creates a signed token for the given user.
func (t *Tokens) Issue(user models.User) (string, error) {
	if user.ID == "" {
		return "", errors.New("cannot issue token without subject")
	}
	issuedAt := t.now()
	claims := &Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify parses tokenStr, checks its signature and expiry, and returns the
// identity it asserts. Every failure is reported as ErrInvalidToken with the
// cause attached for server-side logging.
func (t *Tokens) Verify(tokenStr string) (*Identity, error) {
	if tokenStr == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w (%v)", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	identity := &Identity{
		SubjectID: claims.Subject,
		Email:     claims.Email,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		identity.IssuedAt = claims.IssuedAt.Time
	}
	return identity, nil
}
