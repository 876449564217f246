// Package redis stores login sessions as Redis hashes keyed by user id.
package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-social/internal/domain/repository"
)

type SessionStore struct {
	rdb *goredis.Client
}

func NewSessionStore(rdb *goredis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string { return time.Now().UTC().Format(time.RFC3339) }

func sessionFields(s repository.Session) map[string]any {
	return map[string]any{
		"user_id":    s.UserID,
		"sid":        s.SessionID,
		"email":      s.Email,
		"name":       s.Name,
		"logged_in":  true,
		"created_at": s.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func parseSession(userID string, data map[string]string) (*repository.Session, error) {
	if len(data) == 0 || data["sid"] == "" {
		return nil, repository.ErrNotFound
	}
	s := &repository.Session{
		UserID:    userID,
		SessionID: data["sid"],
		Email:     data["email"],
		Name:      data["name"],
	}
	if t, err := time.Parse(time.RFC3339, data["created_at"]); err == nil {
		s.CreatedAt = t
	}
	return s, nil
}

func (s *SessionStore) Save(ctx context.Context, sess repository.Session, ttl time.Duration) error {
	key := sessionKey(sess.UserID)
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, sessionFields(sess))
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *SessionStore) Get(ctx context.Context, userID string) (*repository.Session, error) {
	data, err := s.rdb.HGetAll(ctx, sessionKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	return parseSession(userID, data)
}

func (s *SessionStore) Rotate(ctx context.Context, userID, sessionID string, ttl time.Duration) error {
	key := sessionKey(userID)
	n, err := s.rdb.Exists(ctx, key).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		"sid":        sessionID,
		"updated_at": nowRFC3339(),
	})
	pipe.Expire(ctx, key, ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *SessionStore) Delete(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, sessionKey(userID)).Err()
}

var _ repository.SessionRepository = (*SessionStore)(nil)
