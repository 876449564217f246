package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-social/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-social/internal/domain/repository"
)

const defaultListLimit = 50

// PostService handles posts and group posts and their reactions.
type PostService struct {
	Posts     repo.PostRepository
	Groups    repo.GroupRepository
	Relations repo.RelationshipRepository
	Assets    AssetStore
	Logger    *logrus.Logger
}

func NewPostService(posts repo.PostRepository, groups repo.GroupRepository, relations repo.RelationshipRepository, assets AssetStore, logger *logrus.Logger) *PostService {
	return &PostService{Posts: posts, Groups: groups, Relations: relations, Assets: assets, Logger: logger}
}

type CreatePostInput struct {
	Content  string
	ImageRef string
	Image    *ImageUpload
}

func (s *PostService) CreatePost(ctx context.Context, authorID string, in CreatePostInput) (*entity.Post, error) {
	return s.create(ctx, authorID, "", in)
}

// CreateGroupPost requires the author to be a member (or the admin) of the group.
func (s *PostService) CreateGroupPost(ctx context.Context, groupID, authorID string, in CreatePostInput) (*entity.Post, error) {
	g, err := s.Groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, notFound(err, "group")
	}
	if !g.CanContribute(authorID) {
		return nil, ErrForbidden
	}
	return s.create(ctx, authorID, groupID, in)
}

func (s *PostService) create(ctx context.Context, authorID, groupID string, in CreatePostInput) (*entity.Post, error) {
	ref := in.ImageRef
	if in.Image != nil {
		var err error
		ref, err = storeImage(ctx, s.Assets, "posts/"+authorID, in.Image.ContentType, in.Image.Reader)
		if err != nil {
			return nil, err
		}
	}
	p := &entity.Post{
		Content:  in.Content,
		ImageRef: ref,
		AuthorID: authorID,
		GroupID:  groupID,
		Likes:    []string{},
		Dislikes: []string{},
		Comments: []string{},
	}
	if err := s.Posts.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetPost returns a post. Group posts are visible to members and the admin only.
func (s *PostService) GetPost(ctx context.Context, postID, requesterID string) (*entity.Post, error) {
	p, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, notFound(err, "post")
	}
	if err := groupAccess(ctx, s.Groups, p, requesterID); err != nil {
		return nil, err
	}
	return p, nil
}

// groupAccess gates group posts on membership or admin rights; plain posts pass
func groupAccess(ctx context.Context, groups repo.GroupRepository, p *entity.Post, userID string) error {
	if !p.InGroup() {
		return nil
	}
	g, err := groups.GetByID(ctx, p.GroupID)
	if err != nil {
		return notFound(err, "group")
	}
	if !g.CanContribute(userID) {
		return ErrForbidden
	}
	return nil
}

// DeletePost removes a post written by requesterID
func (s *PostService) DeletePost(ctx context.Context, postID, requesterID string) error {
	p, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		return notFound(err, "post")
	}
	if p.AuthorID != requesterID {
		return ErrForbidden
	}
	return notFound(s.Posts.Delete(ctx, postID), "post")
}

// ListFeed returns the user's own and their friends' non-group posts, newest first
func (s *PostService) ListFeed(ctx context.Context, userID string) ([]*entity.Post, error) {
	friends, err := s.Relations.ListFriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	authors := append([]string{userID}, friends...)
	return s.Posts.ListFeed(ctx, authors, defaultListLimit)
}

// ListGroupPosts is visible to members and the admin only
func (s *PostService) ListGroupPosts(ctx context.Context, groupID, userID string) ([]*entity.Post, error) {
	g, err := s.Groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, notFound(err, "group")
	}
	if !g.CanContribute(userID) {
		return nil, ErrForbidden
	}
	return s.Posts.ListByGroup(ctx, groupID, defaultListLimit)
}

func (s *PostService) Like(ctx context.Context, postID, userID string) (*entity.Post, error) {
	return s.react(ctx, postID, userID, entity.ReactionLike, true)
}

func (s *PostService) Dislike(ctx context.Context, postID, userID string) (*entity.Post, error) {
	return s.react(ctx, postID, userID, entity.ReactionDislike, true)
}

func (s *PostService) Unlike(ctx context.Context, postID, userID string) (*entity.Post, error) {
	return s.react(ctx, postID, userID, entity.ReactionLike, false)
}

func (s *PostService) Undislike(ctx context.Context, postID, userID string) (*entity.Post, error) {
	return s.react(ctx, postID, userID, entity.ReactionDislike, false)
}

// react is an idempotent set-add (set=true) or set-remove on the post's
// reaction sets. Likes and dislikes are mutually exclusive.
func (s *PostService) react(ctx context.Context, postID, userID string, kind entity.ReactionKind, set bool) (*entity.Post, error) {
	p, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, notFound(err, "post")
	}
	if err := groupAccess(ctx, s.Groups, p, userID); err != nil {
		return nil, err
	}
	if set {
		err = s.Posts.SetReaction(ctx, postID, userID, kind)
	} else {
		err = s.Posts.ClearReaction(ctx, postID, userID, kind)
	}
	if err != nil {
		return nil, notFound(err, "post")
	}
	p, err = s.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, notFound(err, "post")
	}
	return p, nil
}
