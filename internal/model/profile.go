package model

import "time"

// Account is an authentication identity. Profile data lives in a separate
// row so the public-facing fields can be provisioned and mutated without
// touching credentials.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is the public identity row for an account. Its ID always equals
// the account ID.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	AvatarURL string    `json:"avatar_url"`
	Location  string    `json:"location"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfilePatch lists the optionally-settable profile fields. Nil means
// "leave unchanged".
type ProfilePatch struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	AvatarURL *string `json:"avatar_url"`
	Location  *string `json:"location"`
	Bio       *string `json:"bio"`
}

// Empty reports whether the patch would change nothing.
func (p ProfilePatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.AvatarURL == nil &&
		p.Location == nil && p.Bio == nil
}
