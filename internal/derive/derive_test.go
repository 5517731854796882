package derive

import (
	"testing"
	"time"

	"github.com/forgeaistudio/frontera/internal/model"
)

func TestMatchesSearch(t *testing.T) {
	tests := []struct {
		search string
		fields []string
		want   bool
	}{
		{"", []string{"Water Bottles"}, true},
		{"water", []string{"Water Bottles"}, true},
		{"BOTTLE", []string{"Water Bottles"}, true},
		{"pantry", []string{"Water Bottles", "Pantry"}, true},
		{"beans", []string{"Water Bottles", "Pantry"}, false},
		{"water bottles", []string{"Water Bottles"}, true},
	}
	for _, tt := range tests {
		if got := MatchesSearch(tt.search, tt.fields...); got != tt.want {
			t.Errorf("MatchesSearch(%q, %v) = %v, want %v", tt.search, tt.fields, got, tt.want)
		}
	}
}

func TestMatchesCategory(t *testing.T) {
	if !MatchesCategory("Water", "all") {
		t.Error("filter 'all' should match every category")
	}
	if !MatchesCategory("Water", "All") {
		t.Error("filter 'All' should be case-insensitive")
	}
	if !MatchesCategory("Water", "") {
		t.Error("empty filter should match every category")
	}
	if !MatchesCategory("Water", "Water") {
		t.Error("exact category should match")
	}
	if MatchesCategory("Water", "Food") {
		t.Error("different category should not match")
	}
}

func testItems() []model.InventoryItem {
	return []model.InventoryItem{
		{ID: "1", Name: "Water Bottles", Category: "Water", Location: "Pantry"},
		{ID: "2", Name: "Canned Beans", Category: "Food", Location: "Basement"},
		{ID: "3", Name: "First Aid Kit", Category: "Medical", Location: "Emergency Bag"},
	}
}

func TestFilterInventoryBySearch(t *testing.T) {
	got := FilterInventory(testItems(), InventoryFilter{Search: "water"})
	if len(got) != 1 || got[0].ID != "1" {
		t.Errorf("expected only item 1, got %v", got)
	}

	// Secondary field (location) is searched too.
	got = FilterInventory(testItems(), InventoryFilter{Search: "basement"})
	if len(got) != 1 || got[0].ID != "2" {
		t.Errorf("expected only item 2, got %v", got)
	}
}

func TestFilterInventoryCategoryAllIsNoOp(t *testing.T) {
	all := FilterInventory(testItems(), InventoryFilter{Category: "all"})
	if len(all) != 3 {
		t.Errorf("expected all 3 items for category 'all', got %d", len(all))
	}
}

func TestFilterInventoryBothPredicates(t *testing.T) {
	// Search "an" matches items 1 (location Pantry) and 2 (name Canned
	// Beans); category narrows to Food.
	got := FilterInventory(testItems(), InventoryFilter{Search: "an", Category: "Food"})
	if len(got) != 1 || got[0].ID != "2" {
		t.Errorf("expected only item 2, got %v", got)
	}
}

func TestFilterInventoryPreservesOrder(t *testing.T) {
	got := FilterInventory(testItems(), InventoryFilter{Category: "all"})
	for i, want := range []string{"1", "2", "3"} {
		if got[i].ID != want {
			t.Fatalf("order changed: expected %s at %d, got %s", want, i, got[i].ID)
		}
	}
}

func TestFilterInventoryIdempotent(t *testing.T) {
	f := InventoryFilter{Search: "a", Category: "all"}
	once := FilterInventory(testItems(), f)
	twice := FilterInventory(once, f)
	if len(once) != len(twice) {
		t.Fatalf("filter not idempotent: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Errorf("filter not idempotent at %d: %s vs %s", i, once[i].ID, twice[i].ID)
		}
	}
}

func TestFilterInventoryEmptyResult(t *testing.T) {
	got := FilterInventory(testItems(), InventoryFilter{Search: "no such item"})
	if len(got) != 0 {
		t.Errorf("expected empty derived list, got %d items", len(got))
	}
	// Empty is a valid display state, not an error; the slice must be
	// non-nil so it encodes as [].
	if got == nil {
		t.Error("expected non-nil empty slice")
	}
}

func TestFilterResources(t *testing.T) {
	resources := []model.Resource{
		{ID: "1", Title: "Emergency Water Purification", Type: "Guide", Category: "Water", Author: "Sarah Wilson", Bookmarked: true},
		{ID: "2", Title: "72-Hour Kit", Type: "Checklist", Category: "Preparedness", Author: "John Martinez"},
		{ID: "3", Title: "Wound Care", Type: "Tutorial", Category: "Medical", Author: "Dr. Lisa Kim", Bookmarked: true},
	}

	got := FilterResources(resources, ResourceFilter{Search: "wilson"})
	if len(got) != 1 || got[0].ID != "1" {
		t.Errorf("author search: expected resource 1, got %v", got)
	}

	got = FilterResources(resources, ResourceFilter{Type: "Checklist"})
	if len(got) != 1 || got[0].ID != "2" {
		t.Errorf("type filter: expected resource 2, got %v", got)
	}

	got = FilterResources(resources, ResourceFilter{Bookmarked: true})
	if len(got) != 2 {
		t.Errorf("bookmarked filter: expected 2 resources, got %d", len(got))
	}

	got = FilterResources(resources, ResourceFilter{Type: "all", Category: "all"})
	if len(got) != 3 {
		t.Errorf("'all' filters: expected 3 resources, got %d", len(got))
	}
}

func TestFilterTractsSearchesTags(t *testing.T) {
	tracts := []model.Tract{
		{ID: "1", Name: "Downtown Preppers", Tags: []string{"Urban", "Beginner-Friendly"}},
		{ID: "2", Name: "Well Diggers", Description: "Water sourcing", Tags: []string{"Water", "Technical"}},
	}

	got := FilterTracts(tracts, "urban")
	if len(got) != 1 || got[0].ID != "1" {
		t.Errorf("tag search: expected tract 1, got %v", got)
	}

	got = FilterTracts(tracts, "sourcing")
	if len(got) != 1 || got[0].ID != "2" {
		t.Errorf("description search: expected tract 2, got %v", got)
	}

	got = FilterTracts(tracts, "")
	if len(got) != 2 {
		t.Errorf("empty search: expected 2 tracts, got %d", len(got))
	}
}

func TestExpiringSoon(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	in10 := now.AddDate(0, 0, 10)
	in60 := now.AddDate(0, 0, 60)
	past := now.AddDate(0, 0, -1)

	if !ExpiringSoon(&in10, now) {
		t.Error("10 days out should count as expiring soon")
	}
	if ExpiringSoon(&in60, now) {
		t.Error("60 days out should not count as expiring soon")
	}
	if ExpiringSoon(&past, now) {
		t.Error("already-expired should not count as expiring soon")
	}
	if ExpiringSoon(nil, now) {
		t.Error("nil expiry should not count as expiring soon")
	}
}
