package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RevokeToken blocks a token's JTI until the token would have expired
// anyway. Revoking the same JTI twice is a no-op. Each call also purges
// revocations that have outlived their tokens, so the table stays bounded
// without a background sweeper.
func RevokeToken(ctx context.Context, db *sql.DB, jti string, expiresAt time.Time) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO revoked_tokens (jti, expires_at) VALUES (?, ?)`,
		jti, expiresAt,
	); err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM revoked_tokens WHERE expires_at < ?`, time.Now(),
	); err != nil {
		return fmt.Errorf("purging expired revocations: %w", err)
	}

	return tx.Commit()
}

// IsTokenRevoked reports whether a JTI is on the revocation list.
func IsTokenRevoked(ctx context.Context, db *sql.DB, jti string) (bool, error) {
	var revoked bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = ?)`, jti,
	).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("checking token revocation: %w", err)
	}
	return revoked, nil
}
