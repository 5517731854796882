package store

import (
	"context"
	"database/sql"
	"fmt"
)

// DeleteUserData removes every row belonging to a user: inventory, tracts
// (memberships cascade), owned resources, stray memberships in other
// tracts, the profile, and finally the account itself. Shared resources
// (no owner) are left untouched. This is the destructive account-cleanup
// path; it is not reachable through the regular row-scoped surface.
func DeleteUserData(ctx context.Context, db *sql.DB, userID string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	steps := []struct {
		desc  string
		query string
	}{
		{"deleting inventory", `DELETE FROM inventory WHERE user_id = ?`},
		{"deleting tracts", `DELETE FROM tracts WHERE user_id = ?`},
		{"deleting resources", `DELETE FROM resources WHERE user_id = ?`},
		{"deleting memberships", `DELETE FROM tract_members WHERE user_id = ?`},
		{"deleting profile", `DELETE FROM profiles WHERE id = ?`},
		{"deleting account", `DELETE FROM accounts WHERE id = ?`},
	}
	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step.query, userID); err != nil {
			return fmt.Errorf("%s: %w", step.desc, err)
		}
	}

	// Membership rows deleted above may have belonged to other users'
	// tracts; recount those so member_count stays accurate.
	_, err = tx.ExecContext(ctx,
		`UPDATE tracts SET member_count = (
		     SELECT COUNT(*) FROM tract_members WHERE tract_members.tract_id = tracts.id
		 )`,
	)
	if err != nil {
		return fmt.Errorf("recounting tract members: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing user cleanup: %w", err)
	}
	return nil
}
