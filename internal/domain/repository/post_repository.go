package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-social/internal/domain/entity"
)

type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	// GetByID returns the post with likes, dislikes and comment ids loaded
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	Delete(ctx context.Context, id string) error
	// ListFeed returns non-group posts written by any of authorIDs, newest first
	ListFeed(ctx context.Context, authorIDs []string, limit int) ([]*entity.Post, error)
	ListByGroup(ctx context.Context, groupID string, limit int) ([]*entity.Post, error)
	// SetReaction records kind for userID, replacing any opposite reaction
	SetReaction(ctx context.Context, postID, userID string, kind entity.ReactionKind) error
	// ClearReaction removes the reaction of kind; absent is not an error
	ClearReaction(ctx context.Context, postID, userID string, kind entity.ReactionKind) error
}
