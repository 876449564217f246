package entity

import (
	"time"
)

// User is the aggregate root for the identity domain.
// Passwords are stored as bcrypt hashes in Password field.
// Friend and pending-request sets live in their own tables and are
// loaded through RelationshipRepository, never embedded here.
type User struct {
	ID        string
	Email     string
	Password  string
	Name      string
	Age       int
	ImageRef  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserSummary is the public display shape of a user
type UserSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageRef string `json:"image_ref,omitempty"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, ImageRef: u.ImageRef}
}
