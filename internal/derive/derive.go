// Package derive holds the pure list view-model logic shared by the
// inventory, resources, and tracts list endpoints: search and category
// predicates, derived-list filtering, expiry badges, and master-detail
// selection. Everything here is a pure function of its inputs so the same
// filter applied twice always yields the same derived list.
package derive

import (
	"strings"
	"time"

	"github.com/forgeaistudio/frontera/internal/model"
)

// FilterAll is the category/type filter value that matches every record.
const FilterAll = "all"

// MatchesSearch reports whether search is a case-insensitive substring of
// any of the designated text fields. An empty search matches everything.
func MatchesSearch(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	search = strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

// MatchesCategory reports whether a record's category (or type) passes the
// filter. The filter "all" (any case) or an empty filter is a no-op.
func MatchesCategory(value, filter string) bool {
	if filter == "" || strings.EqualFold(filter, FilterAll) {
		return true
	}
	return value == filter
}

// InventoryFilter holds the active filter inputs for an inventory list.
type InventoryFilter struct {
	Search   string
	Category string
	Location string
}

// FilterInventory derives the displayed subset of items. Source order is
// preserved; filtering never re-sorts.
func FilterInventory(items []model.InventoryItem, f InventoryFilter) []model.InventoryItem {
	out := make([]model.InventoryItem, 0, len(items))
	for _, item := range items {
		if !MatchesSearch(f.Search, item.Name, item.Location) {
			continue
		}
		if !MatchesCategory(item.Category, f.Category) {
			continue
		}
		if !MatchesCategory(item.Location, f.Location) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// ResourceFilter holds the active filter inputs for a resource list.
type ResourceFilter struct {
	Search     string
	Type       string
	Category   string
	Bookmarked bool
}

// FilterResources derives the displayed subset of resources, preserving
// source order.
func FilterResources(resources []model.Resource, f ResourceFilter) []model.Resource {
	out := make([]model.Resource, 0, len(resources))
	for _, res := range resources {
		if !MatchesSearch(f.Search, res.Title, res.Description, res.Author) {
			continue
		}
		if !MatchesCategory(res.Type, f.Type) {
			continue
		}
		if !MatchesCategory(res.Category, f.Category) {
			continue
		}
		if f.Bookmarked && !res.Bookmarked {
			continue
		}
		out = append(out, res)
	}
	return out
}

// FilterTracts derives the displayed subset of tracts. Search covers name,
// description, and tags.
func FilterTracts(tracts []model.Tract, search string) []model.Tract {
	out := make([]model.Tract, 0, len(tracts))
	for _, t := range tracts {
		fields := append([]string{t.Name, t.Description}, t.Tags...)
		if !MatchesSearch(search, fields...) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// ExpiryWindow is how far ahead an item counts as expiring soon.
const ExpiryWindow = 30 * 24 * time.Hour

// ExpiringSoon reports whether an expiry date falls within the window
// starting at now. A nil expiry or an already-past date never matches.
func ExpiringSoon(expiry *time.Time, now time.Time) bool {
	if expiry == nil {
		return false
	}
	if expiry.Before(now) {
		return false
	}
	return !expiry.After(now.Add(ExpiryWindow))
}
