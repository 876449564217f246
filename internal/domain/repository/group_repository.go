package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-social/internal/domain/entity"
)

type GroupRepository interface {
	Create(ctx context.Context, g *entity.Group) error
	// GetByID returns the group with its member set loaded
	GetByID(ctx context.Context, id string) (*entity.Group, error)
	Update(ctx context.Context, g *entity.Group) error
	// AddMember reports false when userID is already a member
	AddMember(ctx context.Context, groupID, userID string) (bool, error)
	// RemoveMember reports false when userID was not a member
	RemoveMember(ctx context.Context, groupID, userID string) (bool, error)
	// ListForUser returns groups where userID is a member or the admin
	ListForUser(ctx context.Context, userID string) ([]*entity.Group, error)
	ListMembers(ctx context.Context, groupID string) ([]*entity.User, error)
}
