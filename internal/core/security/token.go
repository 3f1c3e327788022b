package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/identity-service/internal/core/domain"
)

const defaultTokenTTL = 30 * time.Minute

// TokenCodec issues and verifies HS256-signed access tokens. The signing
// secret and default expiry window are fixed at construction and injected
// from configuration, never read ambiently.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec builds a codec signing with secret. A non-positive ttl falls
// back to the 30-minute default.
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl}
}

// Issue signs the claims with the default expiry window.
func (c *TokenCodec) Issue(claims domain.Claims) (string, error) {
	return c.IssueWithTTL(claims, c.ttl)
}

// IssueWithTTL signs the claims with expiry = now + ttl. The caller must
// supply a subject claim; everything else is passed through untouched. A
// negative ttl is applied verbatim and produces an already-expired token.
func (c *TokenCodec) IssueWithTTL(claims domain.Claims, ttl time.Duration) (string, error) {
	if claims.Subject() == "" {
		return "", fmt.Errorf("issue token: missing %s claim", domain.ClaimSubject)
	}

	mc := jwt.MapClaims{}
	for k, v := range claims {
		mc[k] = v
	}
	mc[domain.ClaimExpiry] = time.Now().Add(ttl).Unix()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mc).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature and expiry and returns the embedded claims.
// Every failure (malformed string, signature mismatch, wrong algorithm,
// expired token) collapses to domain.ErrInvalidToken.
func (c *TokenCodec) Decode(token string) (domain.Claims, error) {
	mc := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, mc, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}

	return domain.Claims(mc), nil
}
