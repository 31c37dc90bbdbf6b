package domain

import "time"

// User is the profile of an authenticated account as reported by the API.
// The server copy is always canonical; the client never merges partial
// updates locally.
type User struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Bio       string    `json:"bio,omitempty"`
	IsAdmin   bool      `json:"is_admin,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	LastLogin time.Time `json:"last_login,omitzero"`
}

// ProfileUpdate carries the fields of a partial profile update. Nil fields
// are left untouched by the server.
type ProfileUpdate struct {
	Name *string `json:"name,omitempty"`
	Bio  *string `json:"bio,omitempty"`
}
