package model

import "time"

// Tract is a community discussion group.
type Tract struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	MemberCount int       `json:"member_count"`
	Location    string    `json:"location"`
	Size        string    `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TractMember links an account to a tract. The profile fields are joined in
// for display; the membership row itself only stores the user id and role.
type TractMember struct {
	ID        string    `json:"id"`
	TractID   string    `json:"tract_id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`

	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Tract member roles.
const (
	TractRoleOwner     = "owner"
	TractRoleModerator = "moderator"
	TractRoleMember    = "member"
)

// TractPatch lists the optionally-settable tract fields. Nil means "leave
// unchanged"; a non-nil Tags replaces the whole list.
type TractPatch struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags"`
	Location    *string   `json:"location"`
	Size        *string   `json:"size"`
}

// Empty reports whether the patch would change nothing.
func (p TractPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Tags == nil &&
		p.Location == nil && p.Size == nil
}
