package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/splitpay/auth-service/internal/core/domain"
)

func TestJWTIssuer_RoundTrip(t *testing.T) {
	issuer := NewJWTIssuer("secret", time.Hour)

	tok, err := issuer.Issue("user-42")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if tok == "" {
		t.Fatalf("expected non-empty token")
	}

	subject, err := issuer.Verify(tok)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if subject != "user-42" {
		t.Fatalf("expected subject user-42, got %q", subject)
	}
}

func TestJWTIssuer_Expired(t *testing.T) {
	issuer := NewJWTIssuer("secret", time.Hour)
	// Same secret, negative TTL: the token is expired at issuance.
	expired := &JWTIssuer{secret: []byte("secret"), ttl: -time.Minute}

	tok, err := expired.Issue("user-42")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := issuer.Verify(tok); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for expired token, got %v", err)
	}
}

func TestJWTIssuer_WrongSecret(t *testing.T) {
	tok, err := NewJWTIssuer("secret-a", time.Hour).Issue("user-42")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := NewJWTIssuer("secret-b", time.Hour).Verify(tok); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for wrong secret, got %v", err)
	}
}

func TestJWTIssuer_Tampered(t *testing.T) {
	issuer := NewJWTIssuer("secret", time.Hour)
	tok, err := issuer.Issue("user-42")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	parts := strings.Split(tok, ".")
	parts[1] = parts[1][:len(parts[1])-2] + "xx"
	if _, err := issuer.Verify(strings.Join(parts, ".")); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for tampered payload, got %v", err)
	}
}

func TestJWTIssuer_Malformed(t *testing.T) {
	issuer := NewJWTIssuer("secret", time.Hour)

	for _, tok := range []string{"", "garbage", "a.b", "a.b.c"} {
		if _, err := issuer.Verify(tok); !errors.Is(err, domain.ErrTokenInvalid) {
			t.Fatalf("token %q: expected ErrTokenInvalid, got %v", tok, err)
		}
	}
}

func TestJWTIssuer_FailuresIndistinguishable(t *testing.T) {
	issuer := NewJWTIssuer("secret", time.Hour)

	expiredTok, _ := (&JWTIssuer{secret: []byte("secret"), ttl: -time.Minute}).Issue("user-42")
	foreignTok, _ := NewJWTIssuer("other", time.Hour).Issue("user-42")

	_, expiredErr := issuer.Verify(expiredTok)
	_, foreignErr := issuer.Verify(foreignTok)
	_, malformedErr := issuer.Verify("garbage")

	if expiredErr != foreignErr || foreignErr != malformedErr {
		t.Fatalf("verification failures must be indistinguishable: %v / %v / %v",
			expiredErr, foreignErr, malformedErr)
	}
}
