package model

import "time"

// Resource is a library entry. UserID is nil for shared resources that are
// visible to everyone.
type Resource struct {
	ID          string    `json:"id"`
	UserID      *string   `json:"user_id,omitempty"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Author      string    `json:"author"`
	Category    string    `json:"category"`
	URL         string    `json:"url,omitempty"`
	Rating      float64   `json:"rating"`
	Bookmarked  bool      `json:"bookmarked"`
	Content     string    `json:"content,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ResourceTypes are the fixed type suggestions offered by the forms.
var ResourceTypes = []string{
	"Guide", "Checklist", "Tutorial", "Template", "Reference",
}

// ResourcePatch lists the optionally-settable resource fields. Nil means
// "leave unchanged". Bookmarked is intentionally absent: the bookmark flag
// only toggles through its dedicated operation.
type ResourcePatch struct {
	Title       *string  `json:"title"`
	Type        *string  `json:"type"`
	Description *string  `json:"description"`
	Author      *string  `json:"author"`
	Category    *string  `json:"category"`
	URL         *string  `json:"url"`
	Rating      *float64 `json:"rating"`
	Content     *string  `json:"content"`
}

// Empty reports whether the patch would change nothing.
func (p ResourcePatch) Empty() bool {
	return p.Title == nil && p.Type == nil && p.Description == nil &&
		p.Author == nil && p.Category == nil && p.URL == nil &&
		p.Rating == nil && p.Content == nil
}
