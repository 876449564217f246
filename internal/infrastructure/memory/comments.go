package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-social/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social/internal/domain/repository"
)

type CommentRepository struct {
	s *Store
}

func (r *CommentRepository) Create(_ context.Context, c *entity.Comment) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[c.PostID]; !ok {
		return repository.ErrNotFound
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := s.now()
	c.CreatedAt, c.UpdatedAt = now, now
	cp := *c
	s.comments[c.ID] = &cp
	s.cmtSeq[c.ID] = s.nextSeq()
	return nil
}

func (r *CommentRepository) GetByID(_ context.Context, id string) (*entity.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *CommentRepository) UpdateContent(_ context.Context, id, content string) (*entity.Comment, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c.Content = content
	c.UpdatedAt = s.now()
	cp := *c
	return &cp, nil
}

func (r *CommentRepository) Delete(_ context.Context, id string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.comments, id)
	delete(s.cmtSeq, id)
	return nil
}

func (r *CommentRepository) ListByPost(_ context.Context, postID string) ([]*entity.Comment, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.commentIDsLocked(postID)
	out := make([]*entity.Comment, 0, len(ids))
	for _, id := range ids {
		cp := *s.comments[id]
		out = append(out, &cp)
	}
	return out, nil
}

// commentIDsLocked returns the post's comment sequence in creation order
func (s *Store) commentIDsLocked(postID string) []string {
	ids := []string{}
	for id, c := range s.comments {
		if c.PostID == postID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return s.cmtSeq[ids[i]] < s.cmtSeq[ids[j]] })
	return ids
}
