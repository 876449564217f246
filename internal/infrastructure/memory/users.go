package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-social/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social/internal/domain/repository"
)

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[u.Email]; taken {
		return repository.ErrConflict
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := s.now()
	u.CreatedAt, u.UpdatedAt = now, now
	s.users[u.ID] = cloneUser(u)
	s.userSeq[u.ID] = s.nextSeq()
	s.byEmail[u.Email] = u.ID
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	id, ok := r.s.byEmail[email]
	r.s.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) GetByIDs(_ context.Context, ids []string) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.usersByIDs(ids), nil
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if cur.Email != u.Email {
		if _, taken := s.byEmail[u.Email]; taken {
			return repository.ErrConflict
		}
		delete(s.byEmail, cur.Email)
		s.byEmail[u.Email] = u.ID
	}
	u.UpdatedAt = s.now()
	s.users[u.ID] = cloneUser(u)
	return nil
}

// Delete removes the user and everything that references it, like the
// ON DELETE CASCADE foreign keys of the SQL schema.
func (r *UserRepository) Delete(_ context.Context, id string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(s.users, id)
	delete(s.userSeq, id)
	delete(s.byEmail, u.Email)
	delete(s.sessions, id)

	for _, set := range []map[string]map[string]int64{s.friends, s.pending} {
		delete(set, id)
		for _, inner := range set {
			delete(inner, id)
		}
	}
	for gid, g := range s.groups {
		if g.AdminID == id {
			s.deleteGroupLocked(gid)
			continue
		}
		g.Members = without(g.Members, id)
	}
	for pid, p := range s.posts {
		if p.post.AuthorID == id {
			s.deletePostLocked(pid)
			continue
		}
		delete(p.reactions, id)
		delete(p.reactSeq, id)
	}
	for cid, c := range s.comments {
		if c.AuthorID == id {
			delete(s.comments, cid)
			delete(s.cmtSeq, cid)
		}
	}
	return nil
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
