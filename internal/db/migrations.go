package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: resources created before shared rows existed had an empty
	// user_id instead of NULL; normalize so shared-visibility queries match.
	`UPDATE resources SET user_id = NULL WHERE user_id = ''`,

	// Migration 2: backfill member counts from the membership table for rows
	// written before counts were maintained transactionally.
	`UPDATE tracts SET member_count = (
	     SELECT COUNT(*) FROM tract_members WHERE tract_members.tract_id = tracts.id
	 ) WHERE member_count = 0`,
}

// Migrate ensures the schema exists and runs the migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
