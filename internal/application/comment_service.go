package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-social/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-social/internal/domain/repository"
)

type CommentService struct {
	Comments repo.CommentRepository
	Posts    repo.PostRepository
	Groups   repo.GroupRepository
	Logger   *logrus.Logger
}

func NewCommentService(comments repo.CommentRepository, posts repo.PostRepository, groups repo.GroupRepository, logger *logrus.Logger) *CommentService {
	return &CommentService{Comments: comments, Posts: posts, Groups: groups, Logger: logger}
}

// CreateComment appends a comment to postID. Comments on group posts are
// limited to members and the admin.
func (s *CommentService) CreateComment(ctx context.Context, postID, authorID, content string) (*entity.Comment, error) {
	p, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, notFound(err, "post")
	}
	if err := groupAccess(ctx, s.Groups, p, authorID); err != nil {
		return nil, err
	}
	c := &entity.Comment{Content: content, AuthorID: authorID, PostID: postID}
	if err := s.Comments.Create(ctx, c); err != nil {
		return nil, notFound(err, "post")
	}
	return c, nil
}

// ListComments follows the visibility of the post it belongs to
func (s *CommentService) ListComments(ctx context.Context, postID, requesterID string) ([]*entity.Comment, error) {
	p, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, notFound(err, "post")
	}
	if err := groupAccess(ctx, s.Groups, p, requesterID); err != nil {
		return nil, err
	}
	return s.Comments.ListByPost(ctx, postID)
}

// UpdateComment changes the content of a comment written by requesterID
func (s *CommentService) UpdateComment(ctx context.Context, commentID, requesterID, content string) (*entity.Comment, error) {
	if err := s.authorize(ctx, commentID, requesterID); err != nil {
		return nil, err
	}
	c, err := s.Comments.UpdateContent(ctx, commentID, content)
	if err != nil {
		return nil, notFound(err, "comment")
	}
	return c, nil
}

// DeleteComment removes a comment written by requesterID along with its
// entry in the post's comment sequence.
func (s *CommentService) DeleteComment(ctx context.Context, commentID, requesterID string) error {
	if err := s.authorize(ctx, commentID, requesterID); err != nil {
		return err
	}
	return notFound(s.Comments.Delete(ctx, commentID), "comment")
}

func (s *CommentService) authorize(ctx context.Context, commentID, requesterID string) error {
	c, err := s.Comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound(err, "comment")
		}
		return err
	}
	if c.AuthorID != requesterID {
		return ErrForbidden
	}
	return nil
}
