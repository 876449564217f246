package entity

import "time"

type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

func (k ReactionKind) Valid() bool {
	return k == ReactionLike || k == ReactionDislike
}

// Post is a plain post when GroupID is empty and a group post otherwise.
// Likes and Dislikes are disjoint: a user holds at most one reaction per post.
type Post struct {
	ID        string
	Content   string
	ImageRef  string
	AuthorID  string
	GroupID   string
	Likes     []string
	Dislikes  []string
	Comments  []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *Post) InGroup() bool { return p.GroupID != "" }
