package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-social/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social/internal/domain/repository"
)

type GroupRepository struct {
	s *Store
}

func (r *GroupRepository) Create(_ context.Context, g *entity.Group) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[g.AdminID]; !ok {
		return repository.ErrNotFound
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.Members == nil {
		g.Members = []string{}
	}
	now := s.now()
	g.CreatedAt, g.UpdatedAt = now, now
	s.groups[g.ID] = cloneGroup(g)
	s.groupSeq[g.ID] = s.nextSeq()
	return nil
}

func (r *GroupRepository) GetByID(_ context.Context, id string) (*entity.Group, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	g, ok := r.s.groups[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneGroup(g), nil
}

// Update writes the descriptive fields only; membership changes go through AddMember/RemoveMember
func (r *GroupRepository) Update(_ context.Context, g *entity.Group) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.groups[g.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.Name = g.Name
	cur.Description = g.Description
	cur.ImageRef = g.ImageRef
	cur.UpdatedAt = s.now()
	g.UpdatedAt = cur.UpdatedAt
	return nil
}

func (r *GroupRepository) AddMember(_ context.Context, groupID, userID string) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[groupID]
	if !ok {
		return false, repository.ErrNotFound
	}
	if _, ok := s.users[userID]; !ok {
		return false, repository.ErrNotFound
	}
	if g.IsMember(userID) {
		return false, nil
	}
	g.Members = append(g.Members, userID)
	return true, nil
}

func (r *GroupRepository) RemoveMember(_ context.Context, groupID, userID string) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[groupID]
	if !ok {
		return false, repository.ErrNotFound
	}
	if !g.IsMember(userID) {
		return false, nil
	}
	g.Members = without(g.Members, userID)
	return true, nil
}

func (r *GroupRepository) ListForUser(_ context.Context, userID string) ([]*entity.Group, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*entity.Group{}
	for _, g := range s.groups {
		if g.CanContribute(userID) {
			out = append(out, cloneGroup(g))
		}
	}
	sort.Slice(out, func(i, j int) bool { return s.groupSeq[out[i].ID] < s.groupSeq[out[j].ID] })
	return out, nil
}

func (r *GroupRepository) ListMembers(_ context.Context, groupID string) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	g, ok := r.s.groups[groupID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.s.usersByIDs(g.Members), nil
}

func (s *Store) deleteGroupLocked(id string) {
	delete(s.groups, id)
	delete(s.groupSeq, id)
	for pid, p := range s.posts {
		if p.post.GroupID == id {
			s.deletePostLocked(pid)
		}
	}
}
