package store

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/forgeaistudio/frontera/internal/db"
)

// newTestUser creates an account plus profile and returns the shared id.
// The username is derived from the email local part, the way signup does it.
func newTestUser(t *testing.T, database *sql.DB, email string) string {
	t.Helper()
	ctx := context.Background()

	account, err := CreateAccount(ctx, database, email, "hash")
	if err != nil {
		t.Fatalf("CreateAccount(%s): %v", email, err)
	}
	username := email
	for i, c := range email {
		if c == '@' {
			username = email[:i]
			break
		}
	}
	if _, err := CreateProfile(ctx, database, account.ID, email, username, "Test", "User"); err != nil {
		t.Fatalf("CreateProfile(%s): %v", email, err)
	}
	return account.ID
}

// backdate shifts a row's created_at so list-order tests do not depend on
// sub-second timestamp resolution.
func backdate(t *testing.T, database *sql.DB, table, id string, minutesAgo int) {
	t.Helper()
	query := fmt.Sprintf(
		`UPDATE %s SET created_at = datetime('now', '-%d minutes') WHERE id = ?`,
		table, minutesAgo,
	)
	if _, err := database.Exec(query, id); err != nil {
		t.Fatalf("backdating %s row: %v", table, err)
	}
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return db.NewTestDB(t)
}
