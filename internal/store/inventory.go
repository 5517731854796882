package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/forgeaistudio/frontera/internal/model"
)

const inventoryColumns = `id, user_id, name, category, quantity, unit, location, expiry_date, description, status, created_at, updated_at`

func scanInventoryItem(row interface{ Scan(...any) error }) (*model.InventoryItem, error) {
	item := &model.InventoryItem{}
	var expiry sql.NullTime
	err := row.Scan(&item.ID, &item.UserID, &item.Name, &item.Category,
		&item.Quantity, &item.Unit, &item.Location, &expiry,
		&item.Description, &item.Status, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if expiry.Valid {
		t := expiry.Time
		item.ExpiryDate = &t
	}
	return item, nil
}

// CreateInventoryItem inserts a new item stamped with the owning user.
func CreateInventoryItem(ctx context.Context, db *sql.DB, userID string, item model.InventoryItem) (*model.InventoryItem, error) {
	id := uuid.NewString()
	status := item.Status
	if status == "" {
		status = model.ItemStatusActive
	}

	var expiry any
	if item.ExpiryDate != nil {
		expiry = *item.ExpiryDate
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO inventory (id, user_id, name, category, quantity, unit, location, expiry_date, description, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, userID, item.Name, item.Category, item.Quantity, item.Unit,
		item.Location, expiry, item.Description, status,
	)
	if err != nil {
		return nil, fmt.Errorf("creating inventory item: %w", err)
	}

	return GetInventoryItem(ctx, db, userID, id)
}

// GetInventoryItem returns a single item, scoped to its owner.
func GetInventoryItem(ctx context.Context, db *sql.DB, userID, id string) (*model.InventoryItem, error) {
	item, err := scanInventoryItem(db.QueryRowContext(ctx,
		`SELECT `+inventoryColumns+` FROM inventory WHERE id = ? AND user_id = ?`,
		id, userID,
	))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting inventory item: %w", err)
	}
	return item, nil
}

// ListInventory returns all items owned by a user, newest first.
func ListInventory(ctx context.Context, db *sql.DB, userID string) ([]model.InventoryItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+inventoryColumns+` FROM inventory
		 WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing inventory: %w", err)
	}
	defer rows.Close()

	var items []model.InventoryItem
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning inventory item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateInventoryItem applies a patch to an item within the owner's scope.
// Returns ErrNotFound when the id does not resolve for this user.
func UpdateInventoryItem(ctx context.Context, db *sql.DB, userID, id string, patch model.InventoryPatch) (*model.InventoryItem, error) {
	if patch.Empty() {
		return GetInventoryItem(ctx, db, userID, id)
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
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Quantity != nil {
		add("quantity", *patch.Quantity)
	}
	if patch.Unit != nil {
		add("unit", *patch.Unit)
	}
	if patch.Location != nil {
		add("location", *patch.Location)
	}
	if patch.ClearExpiry {
		sets = append(sets, "expiry_date = NULL")
	} else if patch.ExpiryDate != nil {
		add("expiry_date", *patch.ExpiryDate)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	args = append(args, id, userID)

	result, err := db.ExecContext(ctx,
		`UPDATE inventory SET `+strings.Join(sets, ", ")+` WHERE id = ? AND user_id = ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("updating inventory item: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	return GetInventoryItem(ctx, db, userID, id)
}

// DeleteInventoryItem removes an item within the owner's scope. Deleting an
// already-deleted id returns ErrNotFound.
func DeleteInventoryItem(ctx context.Context, db *sql.DB, userID, id string) error {
	result, err := db.ExecContext(ctx,
		`DELETE FROM inventory WHERE id = ? AND user_id = ?`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("deleting inventory item: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountInventory returns the number of items a user owns.
func CountInventory(ctx context.Context, db *sql.DB, userID string) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM inventory WHERE user_id = ?`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting inventory: %w", err)
	}
	return count, nil
}

// ListExpiringInventory returns a user's items whose expiry date falls
// within the window starting at now, soonest first.
func ListExpiringInventory(ctx context.Context, db *sql.DB, userID string, now time.Time, window time.Duration) ([]model.InventoryItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+inventoryColumns+` FROM inventory
		 WHERE user_id = ? AND expiry_date IS NOT NULL AND expiry_date >= ? AND expiry_date <= ?
		 ORDER BY expiry_date`,
		userID, now, now.Add(window),
	)
	if err != nil {
		return nil, fmt.Errorf("listing expiring inventory: %w", err)
	}
	defer rows.Close()

	var items []model.InventoryItem
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning inventory item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}
