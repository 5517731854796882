package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/forgeaistudio/frontera/internal/model"
)

const resourceColumns = `id, user_id, title, type, description, author, category, url, rating, bookmarked, content, created_at, updated_at`

func scanResource(row interface{ Scan(...any) error }) (*model.Resource, error) {
	res := &model.Resource{}
	var userID sql.NullString
	err := row.Scan(&res.ID, &userID, &res.Title, &res.Type, &res.Description,
		&res.Author, &res.Category, &res.URL, &res.Rating, &res.Bookmarked,
		&res.Content, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		s := userID.String
		res.UserID = &s
	}
	return res, nil
}

// CreateResource inserts a new resource stamped with the owning user.
func CreateResource(ctx context.Context, db *sql.DB, userID string, res model.Resource) (*model.Resource, error) {
	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO resources (id, user_id, title, type, description, author, category, url, rating, bookmarked, content)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, userID, res.Title, res.Type, res.Description, res.Author,
		res.Category, res.URL, res.Rating, res.Bookmarked, res.Content,
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	return GetResource(ctx, db, userID, id)
}

// GetResource returns a single resource visible to the user: either their
// own or a shared row with no owner.
func GetResource(ctx context.Context, db *sql.DB, userID, id string) (*model.Resource, error) {
	res, err := scanResource(db.QueryRowContext(ctx,
		`SELECT `+resourceColumns+` FROM resources
		 WHERE id = ? AND (user_id = ? OR user_id IS NULL)`, id, userID,
	))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting resource: %w", err)
	}
	return res, nil
}

// ListResources returns the user's resources plus shared rows, newest first.
func ListResources(ctx context.Context, db *sql.DB, userID string) ([]model.Resource, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+resourceColumns+` FROM resources
		 WHERE user_id = ? OR user_id IS NULL
		 ORDER BY created_at DESC, id DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing resources: %w", err)
	}
	defer rows.Close()

	var resources []model.Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning resource: %w", err)
		}
		resources = append(resources, *res)
	}
	return resources, rows.Err()
}

// UpdateResource applies a patch within the user's visible scope. Returns
// ErrNotFound when the id does not resolve for this user.
func UpdateResource(ctx context.Context, db *sql.DB, userID, id string, patch model.ResourcePatch) (*model.Resource, error) {
	if patch.Empty() {
		return GetResource(ctx, db, userID, id)
	}

	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	var args []any
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Type != nil {
		add("type", *patch.Type)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Author != nil {
		add("author", *patch.Author)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.URL != nil {
		add("url", *patch.URL)
	}
	if patch.Rating != nil {
		add("rating", *patch.Rating)
	}
	if patch.Content != nil {
		add("content", *patch.Content)
	}
	args = append(args, id, userID)

	result, err := db.ExecContext(ctx,
		`UPDATE resources SET `+strings.Join(sets, ", ")+`
		 WHERE id = ? AND (user_id = ? OR user_id IS NULL)`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("updating resource: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	return GetResource(ctx, db, userID, id)
}

// DeleteResource removes a resource owned by the user. Shared rows cannot
// be deleted through this path.
func DeleteResource(ctx context.Context, db *sql.DB, userID, id string) error {
	result, err := db.ExecContext(ctx,
		`DELETE FROM resources WHERE id = ? AND user_id = ?`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("deleting resource: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleResourceBookmark sets bookmarked to the negation of the value the
// caller last observed. There is no atomic server-side flip: concurrent
// toggles race and the last write wins.
func ToggleResourceBookmark(ctx context.Context, db *sql.DB, userID, id string, currentValue bool) (*model.Resource, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE resources SET bookmarked = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND (user_id = ? OR user_id IS NULL)`,
		!currentValue, id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("toggling resource bookmark: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	return GetResource(ctx, db, userID, id)
}

// CountBookmarkedResources returns how many visible resources the user has
// bookmarked, and how many of those in the given category exist and are
// bookmarked (used by the preparedness score).
func CountBookmarkedResources(ctx context.Context, db *sql.DB, userID, category string) (bookmarked, categoryTotal, categoryBookmarked int, err error) {
	err = db.QueryRowContext(ctx,
		`SELECT
		     COUNT(CASE WHEN bookmarked THEN 1 END),
		     COUNT(CASE WHEN category = ? THEN 1 END),
		     COUNT(CASE WHEN category = ? AND bookmarked THEN 1 END)
		 FROM resources WHERE user_id = ? OR user_id IS NULL`,
		category, category, userID,
	).Scan(&bookmarked, &categoryTotal, &categoryBookmarked)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("counting bookmarked resources: %w", err)
	}
	return bookmarked, categoryTotal, categoryBookmarked, nil
}
