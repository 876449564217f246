package entity

import "time"

type Comment struct {
	ID        string
	Content   string
	AuthorID  string
	PostID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
