package memory

import (
	"context"
	"time"

	"github.com/oksasatya/go-ddd-social/internal/domain/repository"
)

type SessionRepository struct {
	s *Store
}

func (r *SessionRepository) Save(_ context.Context, sess repository.Session, ttl time.Duration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sessions[sess.UserID] = sessionRecord{session: sess, expiresAt: r.s.now().Add(ttl)}
	return nil
}

func (r *SessionRepository) Get(_ context.Context, userID string) (*repository.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.sessions[userID]
	if !ok || !r.s.now().Before(rec.expiresAt) {
		return nil, repository.ErrNotFound
	}
	sess := rec.session
	return &sess, nil
}

func (r *SessionRepository) Rotate(_ context.Context, userID, sessionID string, ttl time.Duration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.sessions[userID]
	if !ok {
		return repository.ErrNotFound
	}
	rec.session.SessionID = sessionID
	rec.expiresAt = r.s.now().Add(ttl)
	r.s.sessions[userID] = rec
	return nil
}

func (r *SessionRepository) Delete(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.sessions, userID)
	return nil
}
