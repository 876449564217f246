package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-social/internal/domain/entity"
)

type CommentRepository interface {
	// Create appends the comment to its post's comment sequence
	Create(ctx context.Context, c *entity.Comment) error
	GetByID(ctx context.Context, id string) (*entity.Comment, error)
	UpdateContent(ctx context.Context, id, content string) (*entity.Comment, error)
	// Delete removes the comment and its entry in the post's comment sequence together
	Delete(ctx context.Context, id string) error
	ListByPost(ctx context.Context, postID string) ([]*entity.Comment, error)
}
