package memory

import (
	"context"
	"sort"

	"github.com/oksasatya/go-ddd-social/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social/internal/domain/repository"
)

type RelationshipRepository struct {
	s *Store
}

func (r *RelationshipRepository) AddPendingRequest(_ context.Context, recipientID, senderID string) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[recipientID]; !ok {
		return false, repository.ErrNotFound
	}
	if _, ok := s.users[senderID]; !ok {
		return false, repository.ErrNotFound
	}
	if has(s.friends, senderID, recipientID) || has(s.pending, recipientID, senderID) || has(s.pending, senderID, recipientID) {
		return false, nil
	}
	link(s.pending, recipientID, senderID, s.nextSeq())
	return true, nil
}

func (r *RelationshipRepository) AcceptRequest(_ context.Context, userID, friendID string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if !has(s.pending, userID, friendID) {
		return repository.ErrNotFound
	}
	delete(s.pending[userID], friendID)
	seq := s.nextSeq()
	link(s.friends, userID, friendID, seq)
	link(s.friends, friendID, userID, seq)
	return nil
}

func (r *RelationshipRepository) RemovePendingRequest(_ context.Context, recipientID, senderID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.pending[recipientID], senderID)
	return nil
}

func (r *RelationshipRepository) RemoveFriendship(_ context.Context, userID, friendID string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if !has(s.friends, userID, friendID) {
		return repository.ErrNotFound
	}
	delete(s.friends[userID], friendID)
	delete(s.friends[friendID], userID)
	return nil
}

func (r *RelationshipRepository) AreFriends(_ context.Context, userID, otherID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return has(r.s.friends, userID, otherID), nil
}

func (r *RelationshipRepository) HasPendingRequest(_ context.Context, recipientID, senderID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return has(r.s.pending, recipientID, senderID), nil
}

func (r *RelationshipRepository) ListFriendIDs(_ context.Context, userID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sortedKeys(r.s.friends[userID]), nil
}

func (r *RelationshipRepository) ListPendingRequesters(_ context.Context, userID string) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.usersByIDs(sortedKeys(r.s.pending[userID])), nil
}

func (r *RelationshipRepository) ListFriends(_ context.Context, userID string) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.usersByIDs(sortedKeys(r.s.friends[userID])), nil
}

func (r *RelationshipRepository) SuggestFor(_ context.Context, userID string) ([]*entity.User, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.users))
	for id := range s.users {
		if id == userID || has(s.friends, userID, id) || has(s.pending, userID, id) || has(s.pending, id, userID) {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return s.userSeq[ids[i]] < s.userSeq[ids[j]] })
	return s.usersByIDs(ids), nil
}
