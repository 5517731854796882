package model

import "time"

// InventoryItem is a single supply entry owned by a user.
type InventoryItem struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Quantity    int        `json:"quantity"`
	Unit        string     `json:"unit"`
	Location    string     `json:"location"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Item statuses.
const (
	ItemStatusActive  = "active"
	ItemStatusUsed    = "used"
	ItemStatusExpired = "expired"
)

// InventoryCategories are the fixed category suggestions offered by the
// forms. Free-form values are also accepted.
var InventoryCategories = []string{
	"Water", "Food", "Medical", "Tools", "Clothing", "Communication",
}

// InventoryPatch lists the optionally-settable inventory fields. Nil means
// "leave unchanged"; ClearExpiry removes the stored expiry date.
type InventoryPatch struct {
	Name        *string    `json:"name"`
	Category    *string    `json:"category"`
	Quantity    *int       `json:"quantity"`
	Unit        *string    `json:"unit"`
	Location    *string    `json:"location"`
	ExpiryDate  *time.Time `json:"expiry_date"`
	ClearExpiry bool       `json:"clear_expiry"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
}

// Empty reports whether the patch would change nothing.
func (p InventoryPatch) Empty() bool {
	return p.Name == nil && p.Category == nil && p.Quantity == nil &&
		p.Unit == nil && p.Location == nil && p.ExpiryDate == nil &&
		!p.ClearExpiry && p.Description == nil && p.Status == nil
}
