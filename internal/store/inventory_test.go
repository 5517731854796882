package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/forgeaistudio/frontera/internal/model"
)

func TestCreateInventoryItemDefaults(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	userID := newTestUser(t, database, "inv@example.com")

	item, err := CreateInventoryItem(ctx, database, userID, model.InventoryItem{
		Name: "Bottled Water", Category: "Water", Quantity: 24, Unit: "bottles",
	})
	if err != nil {
		t.Fatalf("CreateInventoryItem: %v", err)
	}
	if item.Status != model.ItemStatusActive {
		t.Errorf("expected default status active, got %q", item.Status)
	}
	if item.UserID != userID {
		t.Errorf("expected item stamped with owner, got %q", item.UserID)
	}
	if item.ExpiryDate != nil {
		t.Error("expected nil expiry date")
	}
}

func TestGetInventoryItemScopedToOwner(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	alice := newTestUser(t, database, "alice@example.com")
	bob := newTestUser(t, database, "bob@example.com")

	item, _ := CreateInventoryItem(ctx, database, alice, model.InventoryItem{Name: "Radio"})

	if _, err := GetInventoryItem(ctx, database, bob, item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign item, got %v", err)
	}
	got, err := GetInventoryItem(ctx, database, alice, item.ID)
	if err != nil {
		t.Fatalf("GetInventoryItem: %v", err)
	}
	if got.Name != "Radio" {
		t.Errorf("expected Radio, got %q", got.Name)
	}
}

func TestListInventoryNewestFirst(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	userID := newTestUser(t, database, "order@example.com")

	oldest, _ := CreateInventoryItem(ctx, database, userID, model.InventoryItem{Name: "Oldest"})
	middle, _ := CreateInventoryItem(ctx, database, userID, model.InventoryItem{Name: "Middle"})
	newest, _ := CreateInventoryItem(ctx, database, userID, model.InventoryItem{Name: "Newest"})
	backdate(t, database, "inventory", oldest.ID, 30)
	backdate(t, database, "inventory", middle.ID, 20)
	backdate(t, database, "inventory", newest.ID, 10)

	items, err := ListInventory(ctx, database, userID)
	if err != nil {
		t.Fatalf("ListInventory: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].Name != "Newest" || items[2].Name != "Oldest" {
		t.Errorf("expected newest first, got %s .. %s", items[0].Name, items[2].Name)
	}
}

func TestUpdateInventoryItemPatch(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	userID := newTestUser(t, database, "upd@example.com")

	expiry := time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC)
	item, _ := CreateInventoryItem(ctx, database, userID, model.InventoryItem{
		Name: "Canned Beans", Quantity: 10, ExpiryDate: &expiry,
	})

	quantity := 5
	status := model.ItemStatusUsed
	updated, err := UpdateInventoryItem(ctx, database, userID, item.ID, model.InventoryPatch{
		Quantity: &quantity, Status: &status,
	})
	if err != nil {
		t.Fatalf("UpdateInventoryItem: %v", err)
	}
	if updated.Quantity != 5 || updated.Status != model.ItemStatusUsed {
		t.Errorf("unexpected item %+v", updated)
	}
	if updated.Name != "Canned Beans" {
		t.Errorf("expected name preserved, got %q", updated.Name)
	}
	if updated.ExpiryDate == nil {
		t.Error("expected expiry preserved")
	}

	// ClearExpiry removes the date.
	cleared, err := UpdateInventoryItem(ctx, database, userID, item.ID, model.InventoryPatch{ClearExpiry: true})
	if err != nil {
		t.Fatalf("UpdateInventoryItem clear expiry: %v", err)
	}
	if cleared.ExpiryDate != nil {
		t.Errorf("expected expiry cleared, got %v", cleared.ExpiryDate)
	}

	if _, err := UpdateInventoryItem(ctx, database, userID, "missing", model.InventoryPatch{Quantity: &quantity}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteInventoryItem(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	userID := newTestUser(t, database, "del@example.com")

	item, _ := CreateInventoryItem(ctx, database, userID, model.InventoryItem{Name: "Tent"})
	if err := DeleteInventoryItem(ctx, database, userID, item.ID); err != nil {
		t.Fatalf("DeleteInventoryItem: %v", err)
	}
	if err := DeleteInventoryItem(ctx, database, userID, item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for double delete, got %v", err)
	}
}

func TestCountInventory(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	userID := newTestUser(t, database, "count@example.com")
	other := newTestUser(t, database, "other@example.com")

	CreateInventoryItem(ctx, database, userID, model.InventoryItem{Name: "A"})
	CreateInventoryItem(ctx, database, userID, model.InventoryItem{Name: "B"})
	CreateInventoryItem(ctx, database, other, model.InventoryItem{Name: "C"})

	n, err := CountInventory(ctx, database, userID)
	if err != nil {
		t.Fatalf("CountInventory: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 items, got %d", n)
	}
}

func TestListExpiringInventory(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	userID := newTestUser(t, database, "exp@example.com")
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	soon := now.Add(10 * 24 * time.Hour)
	far := now.Add(90 * 24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	CreateInventoryItem(ctx, database, userID, model.InventoryItem{Name: "Soon", ExpiryDate: &soon})
	CreateInventoryItem(ctx, database, userID, model.InventoryItem{Name: "Far", ExpiryDate: &far})
	CreateInventoryItem(ctx, database, userID, model.InventoryItem{Name: "Past", ExpiryDate: &past})
	CreateInventoryItem(ctx, database, userID, model.InventoryItem{Name: "NoExpiry"})

	items, err := ListExpiringInventory(ctx, database, userID, now, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("ListExpiringInventory: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Soon" {
		t.Errorf("expected only the item expiring within the window, got %+v", items)
	}
}
