package entity

import "time"

// Group is a named set of members administered by its creator.
// AdminID is not part of Members; use CanContribute for posting rights.
type Group struct {
	ID          string
	Name        string
	Description string
	ImageRef    string
	AdminID     string
	Members     []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (g *Group) IsMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}

func (g *Group) IsAdmin(userID string) bool {
	return g.AdminID == userID
}

// CanContribute reports whether userID may read and write group content
func (g *Group) CanContribute(userID string) bool {
	return g.IsAdmin(userID) || g.IsMember(userID)
}

// GroupPatch carries a partial update; nil fields are left untouched
type GroupPatch struct {
	Name        *string
	Description *string
	ImageRef    *string
}

func (p GroupPatch) Apply(g *Group) {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.ImageRef != nil {
		g.ImageRef = *p.ImageRef
	}
}
