package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/identity-service/internal/core/domain"
)

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := NewTokenCodec("secret", time.Hour)

	token, err := codec.Issue(domain.Claims{
		domain.ClaimSubject: "alice",
		domain.ClaimUserID:  "42",
		"custom":            "value",
	})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if claims.Subject() != "alice" {
		t.Fatalf("expected subject alice, got %q", claims.Subject())
	}
	if claims.UserID() != "42" {
		t.Fatalf("expected user_id 42, got %q", claims.UserID())
	}
	if claims["custom"] != "value" {
		t.Fatalf("expected custom claim to survive, got %v", claims["custom"])
	}
	if _, ok := claims[domain.ClaimExpiry]; !ok {
		t.Fatalf("expected exp claim to be added")
	}
}

func TestTokenCodec_DefaultExpiryIs30Minutes(t *testing.T) {
	// ttl <= 0 falls back to the 30-minute default.
	codec := NewTokenCodec("secret", 0)

	token, err := codec.Issue(domain.Claims{domain.ClaimSubject: "alice"})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}

	exp, ok := claims[domain.ClaimExpiry].(float64)
	if !ok {
		t.Fatalf("exp claim missing or not numeric: %v", claims[domain.ClaimExpiry])
	}
	want := time.Now().Add(30 * time.Minute).Unix()
	if diff := int64(exp) - want; diff < -60 || diff > 60 {
		t.Fatalf("expected exp ~30m from now, off by %ds", diff)
	}
}

func TestTokenCodec_ExplicitTTL(t *testing.T) {
	codec := NewTokenCodec("secret", time.Hour)

	token, err := codec.IssueWithTTL(domain.Claims{domain.ClaimSubject: "alice"}, 5*time.Minute)
	if err != nil {
		t.Fatalf("IssueWithTTL returned error: %v", err)
	}

	claims, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	exp, _ := claims[domain.ClaimExpiry].(float64)
	want := time.Now().Add(5 * time.Minute).Unix()
	if diff := int64(exp) - want; diff < -60 || diff > 60 {
		t.Fatalf("expected exp ~5m from now, off by %ds", diff)
	}
}

func TestTokenCodec_NegativeTTLAlwaysFails(t *testing.T) {
	codec := NewTokenCodec("secret", time.Hour)

	token, err := codec.IssueWithTTL(domain.Claims{domain.ClaimSubject: "alice"}, -time.Second)
	if err != nil {
		t.Fatalf("issuing an expired token must succeed, got: %v", err)
	}

	if _, err := codec.Decode(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	issuer := NewTokenCodec("secret-one", time.Hour)
	verifier := NewTokenCodec("secret-two", time.Hour)

	token, _ := issuer.Issue(domain.Claims{domain.ClaimSubject: "alice"})
	if _, err := verifier.Decode(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign secret, got %v", err)
	}
}

func TestTokenCodec_WrongAlgorithm(t *testing.T) {
	codec := NewTokenCodec("secret", time.Hour)

	// Same secret, HS384 signature: the codec only accepts HS256.
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS384, jwt.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := foreign.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign HS384 token: %v", err)
	}

	if _, err := codec.Decode(signed); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for HS384 token, got %v", err)
	}
}

func TestTokenCodec_MalformedToken(t *testing.T) {
	codec := NewTokenCodec("secret", time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		if _, err := codec.Decode(token); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestTokenCodec_MissingExpiryRejected(t *testing.T) {
	codec := NewTokenCodec("secret", time.Hour)

	// Hand-rolled token without an exp claim.
	bare := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "alice"})
	signed, err := bare.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := codec.Decode(signed); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for token without exp, got %v", err)
	}
}

func TestTokenCodec_IssueRequiresSubject(t *testing.T) {
	codec := NewTokenCodec("secret", time.Hour)

	if _, err := codec.Issue(domain.Claims{domain.ClaimUserID: "42"}); err == nil {
		t.Fatalf("expected error when issuing without a subject claim")
	}
}

func TestClaims_UserIDNumericDecay(t *testing.T) {
	// A numeric user_id claim decodes as float64; the accessor renders it back.
	claims := domain.Claims{domain.ClaimUserID: float64(7)}
	if claims.UserID() != "7" {
		t.Fatalf("expected user_id 7, got %q", claims.UserID())
	}

	claims = domain.Claims{}
	if claims.UserID() != "" {
		t.Fatalf("expected empty user_id for absent claim, got %q", claims.UserID())
	}
}
