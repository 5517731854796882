package auth

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "test-secret-key"

func TestNewTokenRoundTrip(t *testing.T) {
	id := Identity{UserID: "user-1", Email: "jane@example.com", Username: "jane"}

	token, err := NewToken(testSecret, id)
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}

	claims, err := ParseToken(testSecret, token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}

	if claims.Identity != id {
		t.Errorf("identity mismatch: got %+v", claims.Identity)
	}
	if claims.ID == "" {
		t.Error("expected non-empty JTI")
	}
	if claims.Subject != id.UserID {
		t.Errorf("expected subject %q, got %q", id.UserID, claims.Subject)
	}
}

func TestParseTokenRejections(t *testing.T) {
	token, err := NewToken(testSecret, Identity{UserID: "user-1"})
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}

	if _, err := ParseToken("other-secret", token); err == nil {
		t.Error("expected error for wrong secret")
	}
	if _, err := ParseToken(testSecret, "not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}

	// Flip a character in the signature segment.
	parts := strings.Split(token, ".")
	parts[2] = "A" + parts[2][1:]
	if _, err := ParseToken(testSecret, strings.Join(parts, ".")); err == nil {
		t.Error("expected error for tampered signature")
	}
}

func TestTokensGetUniqueJTIs(t *testing.T) {
	id := Identity{UserID: "user-1"}
	seen := map[string]bool{}
	for range 5 {
		token, err := NewToken(testSecret, id)
		if err != nil {
			t.Fatalf("NewToken: %v", err)
		}
		claims, err := ParseToken(testSecret, token)
		if err != nil {
			t.Fatalf("ParseToken: %v", err)
		}
		if seen[claims.ID] {
			t.Fatalf("duplicate JTI %q", claims.ID)
		}
		seen[claims.ID] = true
	}
}

func TestTokenExpiryWindow(t *testing.T) {
	token, err := NewToken(testSecret, Identity{UserID: "user-1"})
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}
	claims, err := ParseToken(testSecret, token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}

	diff := time.Until(claims.ExpiresAt.Time) - TokenTTL
	if diff < -5*time.Second || diff > 5*time.Second {
		t.Errorf("expiry too far from TTL: diff=%v", diff)
	}
}
