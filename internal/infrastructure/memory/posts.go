package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-social/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social/internal/domain/repository"
)

type PostRepository struct {
	s *Store
}

func (r *PostRepository) Create(_ context.Context, p *entity.Post) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[p.AuthorID]; !ok {
		return repository.ErrNotFound
	}
	if p.GroupID != "" {
		if _, ok := s.groups[p.GroupID]; !ok {
			return repository.ErrNotFound
		}
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := s.now()
	p.CreatedAt, p.UpdatedAt = now, now
	p.Likes, p.Dislikes, p.Comments = []string{}, []string{}, []string{}
	s.posts[p.ID] = &postRecord{
		post:      *p,
		seq:       s.nextSeq(),
		reactions: map[string]entity.ReactionKind{},
		reactSeq:  map[string]int64{},
	}
	return nil
}

func (r *PostRepository) GetByID(_ context.Context, id string) (*entity.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.s.materialize(rec), nil
}

func (r *PostRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[id]; !ok {
		return repository.ErrNotFound
	}
	r.s.deletePostLocked(id)
	return nil
}

func (r *PostRepository) ListFeed(_ context.Context, authorIDs []string, limit int) ([]*entity.Post, error) {
	authors := make(map[string]bool, len(authorIDs))
	for _, id := range authorIDs {
		authors[id] = true
	}
	return r.list(limit, func(p *entity.Post) bool { return p.GroupID == "" && authors[p.AuthorID] }), nil
}

func (r *PostRepository) ListByGroup(_ context.Context, groupID string, limit int) ([]*entity.Post, error) {
	return r.list(limit, func(p *entity.Post) bool { return p.GroupID == groupID }), nil
}

// list returns matching posts newest first
func (r *PostRepository) list(limit int, match func(*entity.Post) bool) []*entity.Post {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := make([]*postRecord, 0)
	for _, rec := range s.posts {
		if match(&rec.post) {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq > recs[j].seq })
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	out := make([]*entity.Post, 0, len(recs))
	for _, rec := range recs {
		out = append(out, s.materialize(rec))
	}
	return out
}

func (r *PostRepository) SetReaction(_ context.Context, postID, userID string, kind entity.ReactionKind) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.posts[postID]
	if !ok {
		return repository.ErrNotFound
	}
	if _, ok := s.users[userID]; !ok {
		return repository.ErrNotFound
	}
	if cur, ok := rec.reactions[userID]; ok && cur == kind {
		return nil
	}
	rec.reactions[userID] = kind
	rec.reactSeq[userID] = s.nextSeq()
	return nil
}

func (r *PostRepository) ClearReaction(_ context.Context, postID, userID string, kind entity.ReactionKind) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.posts[postID]
	if !ok {
		return repository.ErrNotFound
	}
	if rec.reactions[userID] == kind {
		delete(rec.reactions, userID)
		delete(rec.reactSeq, userID)
	}
	return nil
}

// materialize copies a post record with its derived sets filled in
func (s *Store) materialize(rec *postRecord) *entity.Post {
	p := rec.post
	p.Likes, p.Dislikes = []string{}, []string{}
	for _, uid := range sortedKeys(rec.reactSeq) {
		if rec.reactions[uid] == entity.ReactionLike {
			p.Likes = append(p.Likes, uid)
		} else {
			p.Dislikes = append(p.Dislikes, uid)
		}
	}
	p.Comments = s.commentIDsLocked(p.ID)
	return &p
}

func (s *Store) deletePostLocked(id string) {
	delete(s.posts, id)
	for cid, c := range s.comments {
		if c.PostID == id {
			delete(s.comments, cid)
			delete(s.cmtSeq, cid)
		}
	}
}
