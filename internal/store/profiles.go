package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/forgeaistudio/frontera/internal/model"
)

const profileColumns = `id, email, username, first_name, last_name, avatar_url, location, bio, created_at, updated_at`

func scanProfile(row interface{ Scan(...any) error }) (*model.Profile, error) {
	p := &model.Profile{}
	err := row.Scan(&p.ID, &p.Email, &p.Username, &p.FirstName, &p.LastName,
		&p.AvatarURL, &p.Location, &p.Bio, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CreateProfile creates the public profile row for an account. Returns
// ErrUniqueViolation when the username is already taken.
func CreateProfile(ctx context.Context, db *sql.DB, accountID, email, username, firstName, lastName string) (*model.Profile, error) {
	_, err := db.ExecContext(ctx,
		`INSERT INTO profiles (id, email, username, first_name, last_name)
		 VALUES (?, ?, ?, ?, ?)`,
		accountID, email, username, firstName, lastName,
	)
	if isUniqueViolation(err) {
		return nil, ErrUniqueViolation
	}
	if err != nil {
		return nil, fmt.Errorf("creating profile: %w", err)
	}

	return GetProfile(ctx, db, accountID)
}

// GetProfile returns a profile by account ID.
func GetProfile(ctx context.Context, db *sql.DB, id string) (*model.Profile, error) {
	p, err := scanProfile(db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting profile: %w", err)
	}
	return p, nil
}

// GetProfileByUsername returns a profile by username.
func GetProfileByUsername(ctx context.Context, db *sql.DB, username string) (*model.Profile, error) {
	p, err := scanProfile(db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE username = ?`, username,
	))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting profile by username: %w", err)
	}
	return p, nil
}

// UpdateProfile applies a patch to a profile. Only non-nil fields are
// written.
func UpdateProfile(ctx context.Context, db *sql.DB, id string, patch model.ProfilePatch) (*model.Profile, error) {
	if patch.Empty() {
		return GetProfile(ctx, db, id)
	}

	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	var args []any
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if patch.FirstName != nil {
		add("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		add("last_name", *patch.LastName)
	}
	if patch.AvatarURL != nil {
		add("avatar_url", *patch.AvatarURL)
	}
	if patch.Location != nil {
		add("location", *patch.Location)
	}
	if patch.Bio != nil {
		add("bio", *patch.Bio)
	}
	args = append(args, id)

	result, err := db.ExecContext(ctx,
		`UPDATE profiles SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	return GetProfile(ctx, db, id)
}

// DeleteProfile removes a profile row.
func DeleteProfile(ctx context.Context, db *sql.DB, id string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting profile: %w", err)
	}
	return nil
}
