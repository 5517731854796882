package store

import (
	"context"
	"testing"
	"time"
)

func TestRevokeAndCheckToken(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	revoked, err := IsTokenRevoked(ctx, database, "jti-1")
	if err != nil {
		t.Fatalf("IsTokenRevoked: %v", err)
	}
	if revoked {
		t.Error("expected unknown jti not revoked")
	}

	if err := RevokeToken(ctx, database, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}
	revoked, _ = IsTokenRevoked(ctx, database, "jti-1")
	if !revoked {
		t.Error("expected jti revoked")
	}

	// Revoking again is a no-op, not an error.
	if err := RevokeToken(ctx, database, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Errorf("double revoke: %v", err)
	}
}

func TestRevokeTokenPurgesExpired(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	// An entry whose expiry has passed is dropped by the next revocation.
	RevokeToken(ctx, database, "stale", time.Now().Add(-time.Hour))
	RevokeToken(ctx, database, "fresh", time.Now().Add(time.Hour))

	revoked, _ := IsTokenRevoked(ctx, database, "stale")
	if revoked {
		t.Error("expected expired revocation purged")
	}
	revoked, _ = IsTokenRevoked(ctx, database, "fresh")
	if !revoked {
		t.Error("expected fresh revocation kept")
	}
}
