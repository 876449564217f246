package handlers

import (
	"time"

	"github.com/oksasatya/go-ddd-social/internal/domain/entity"
)

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	ImageRef  string    `json:"image_ref,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUser(u *entity.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Age:       u.Age,
		ImageRef:  u.ImageRef,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type groupResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageRef    string    `json:"image_ref,omitempty"`
	AdminID     string    `json:"admin_id"`
	Members     []string  `json:"members"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toGroup(g *entity.Group) groupResponse {
	members := g.Members
	if members == nil {
		members = []string{}
	}
	return groupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		ImageRef:    g.ImageRef,
		AdminID:     g.AdminID,
		Members:     members,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func toGroups(gs []*entity.Group) []groupResponse {
	out := make([]groupResponse, 0, len(gs))
	for _, g := range gs {
		out = append(out, toGroup(g))
	}
	return out
}

type postResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	ImageRef  string    `json:"image_ref,omitempty"`
	AuthorID  string    `json:"author_id"`
	GroupID   string    `json:"group_id,omitempty"`
	Likes     []string  `json:"likes"`
	Dislikes  []string  `json:"dislikes"`
	Comments  []string  `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func toPost(p *entity.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		Content:   p.Content,
		ImageRef:  p.ImageRef,
		AuthorID:  p.AuthorID,
		GroupID:   p.GroupID,
		Likes:     nonNil(p.Likes),
		Dislikes:  nonNil(p.Dislikes),
		Comments:  nonNil(p.Comments),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toPosts(ps []*entity.Post) []postResponse {
	out := make([]postResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, toPost(p))
	}
	return out
}

type commentResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"author_id"`
	PostID    string    `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toComment(c *entity.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		Content:   c.Content,
		AuthorID:  c.AuthorID,
		PostID:    c.PostID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toComments(cs []*entity.Comment) []commentResponse {
	out := make([]commentResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, toComment(c))
	}
	return out
}
