package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
)

const jwtSecretKey = "jwt_secret"

// GetJWTSecret returns the persisted signing secret, generating and storing
// one on first use. Concurrent first calls race on the insert; whichever row
// lands first wins and everyone reads that value back.
func GetJWTSecret(ctx context.Context, db *sql.DB) (string, error) {
	candidate, err := randomSecret()
	if err != nil {
		return "", err
	}
	if err := setSettingIfAbsent(ctx, db, jwtSecretKey, candidate); err != nil {
		return "", err
	}
	return getSetting(ctx, db, jwtSecretKey)
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func getSetting(ctx context.Context, db *sql.DB, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key,
	).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("reading setting %q: %w", key, err)
	}
	return value, nil
}

func setSettingIfAbsent(ctx context.Context, db *sql.DB, key, value string) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`, key, value,
	)
	if err != nil {
		return fmt.Errorf("writing setting %q: %w", key, err)
	}
	return nil
}
