package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/forgeaistudio/frontera/internal/model"
)

const tractColumns = `id, user_id, name, description, tags, member_count, location, size, created_at, updated_at`

func scanTract(row interface{ Scan(...any) error }) (*model.Tract, error) {
	t := &model.Tract{}
	var tags string
	err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.Description, &tags,
		&t.MemberCount, &t.Location, &t.Size, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &t.Tags); err != nil {
		return nil, fmt.Errorf("decoding tract tags: %w", err)
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return t, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encoding tract tags: %w", err)
	}
	return string(data), nil
}

// CreateTract inserts a new tract and enrolls its creator as the owner
// member, all in one transaction so member_count stays consistent.
func CreateTract(ctx context.Context, db *sql.DB, userID string, tract model.Tract) (*model.Tract, error) {
	tags, err := encodeTags(tract.Tags)
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	id := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO tracts (id, user_id, name, description, tags, member_count, location, size)
		 VALUES (?, ?, ?, ?, ?, 1, ?, ?)`,
		id, userID, tract.Name, tract.Description, tags, tract.Location, tract.Size,
	)
	if err != nil {
		return nil, fmt.Errorf("creating tract: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO tract_members (id, tract_id, user_id, role) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), id, userID, model.TractRoleOwner,
	)
	if err != nil {
		return nil, fmt.Errorf("enrolling tract owner: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing tract: %w", err)
	}

	return GetTract(ctx, db, id)
}

// GetTract returns a tract by ID. Tracts are community-visible, so there is
// no owner scoping on reads.
func GetTract(ctx context.Context, db *sql.DB, id string) (*model.Tract, error) {
	t, err := scanTract(db.QueryRowContext(ctx,
		`SELECT `+tractColumns+` FROM tracts WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting tract: %w", err)
	}
	return t, nil
}

// ListTracts returns all tracts, newest first.
func ListTracts(ctx context.Context, db *sql.DB) ([]model.Tract, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+tractColumns+` FROM tracts ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing tracts: %w", err)
	}
	defer rows.Close()

	var tracts []model.Tract
	for rows.Next() {
		t, err := scanTract(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning tract: %w", err)
		}
		tracts = append(tracts, *t)
	}
	return tracts, rows.Err()
}

// UpdateTract applies a patch to a tract owned by the user. Returns
// ErrNotFound when the id does not resolve under that scope.
func UpdateTract(ctx context.Context, db *sql.DB, userID, id string, patch model.TractPatch) (*model.Tract, error) {
	if patch.Empty() {
		t, err := GetTract(ctx, db, id)
		if err != nil {
			return nil, err
		}
		if t.UserID != userID {
			return nil, ErrNotFound
		}
		return t, nil
	}

	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	var args []any
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Tags != nil {
		tags, err := encodeTags(*patch.Tags)
		if err != nil {
			return nil, err
		}
		add("tags", tags)
	}
	if patch.Location != nil {
		add("location", *patch.Location)
	}
	if patch.Size != nil {
		add("size", *patch.Size)
	}
	args = append(args, id, userID)

	result, err := db.ExecContext(ctx,
		`UPDATE tracts SET `+strings.Join(sets, ", ")+` WHERE id = ? AND user_id = ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("updating tract: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	return GetTract(ctx, db, id)
}

// DeleteTract removes a tract owned by the user; memberships cascade.
func DeleteTract(ctx context.Context, db *sql.DB, userID, id string) error {
	result, err := db.ExecContext(ctx,
		`DELETE FROM tracts WHERE id = ? AND user_id = ?`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("deleting tract: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddTractMember enrolls a user in a tract and bumps member_count in the
// same transaction. Joining twice returns ErrUniqueViolation.
func AddTractMember(ctx context.Context, db *sql.DB, tractID, userID, role string) (*model.TractMember, error) {
	if role == "" {
		role = model.TractRoleMember
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	id := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO tract_members (id, tract_id, user_id, role) VALUES (?, ?, ?, ?)`,
		id, tractID, userID, role,
	)
	if isUniqueViolation(err) {
		return nil, ErrUniqueViolation
	}
	if err != nil {
		return nil, fmt.Errorf("adding tract member: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE tracts SET member_count = member_count + 1 WHERE id = ?`, tractID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating member count: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing membership: %w", err)
	}

	return getTractMember(ctx, db, id)
}

// RemoveTractMember withdraws a user from a tract and decrements
// member_count in the same transaction.
func RemoveTractMember(ctx context.Context, db *sql.DB, tractID, userID string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM tract_members WHERE tract_id = ? AND user_id = ?`,
		tractID, userID,
	)
	if err != nil {
		return fmt.Errorf("removing tract member: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE tracts SET member_count = MAX(member_count - 1, 0) WHERE id = ?`, tractID,
	)
	if err != nil {
		return fmt.Errorf("updating member count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing membership removal: %w", err)
	}
	return nil
}

func getTractMember(ctx context.Context, db *sql.DB, id string) (*model.TractMember, error) {
	m := &model.TractMember{}
	err := db.QueryRowContext(ctx,
		`SELECT m.id, m.tract_id, m.user_id, m.role, m.created_at,
		        COALESCE(p.first_name, ''), COALESCE(p.last_name, ''),
		        COALESCE(p.username, ''), COALESCE(p.avatar_url, '')
		 FROM tract_members m
		 LEFT JOIN profiles p ON p.id = m.user_id
		 WHERE m.id = ?`, id,
	).Scan(&m.ID, &m.TractID, &m.UserID, &m.Role, &m.CreatedAt,
		&m.FirstName, &m.LastName, &m.Username, &m.AvatarURL)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting tract member: %w", err)
	}
	return m, nil
}

// ListTractMembers returns a tract's members with their profile fields
// joined in for display.
func ListTractMembers(ctx context.Context, db *sql.DB, tractID string) ([]model.TractMember, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT m.id, m.tract_id, m.user_id, m.role, m.created_at,
		        COALESCE(p.first_name, ''), COALESCE(p.last_name, ''),
		        COALESCE(p.username, ''), COALESCE(p.avatar_url, '')
		 FROM tract_members m
		 LEFT JOIN profiles p ON p.id = m.user_id
		 WHERE m.tract_id = ?
		 ORDER BY m.created_at`, tractID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing tract members: %w", err)
	}
	defer rows.Close()

	var members []model.TractMember
	for rows.Next() {
		var m model.TractMember
		if err := rows.Scan(&m.ID, &m.TractID, &m.UserID, &m.Role, &m.CreatedAt,
			&m.FirstName, &m.LastName, &m.Username, &m.AvatarURL); err != nil {
			return nil, fmt.Errorf("scanning tract member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// MaxOwnedTractMembers returns the largest member count among tracts the
// user owns (used by the preparedness score).
func MaxOwnedTractMembers(ctx context.Context, db *sql.DB, userID string) (int, error) {
	var max int
	err := db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(member_count), 0) FROM tracts WHERE user_id = ?`, userID,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("getting max tract members: %w", err)
	}
	return max, nil
}
