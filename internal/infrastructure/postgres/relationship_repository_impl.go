package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-ddd-social/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social/internal/domain/repository"
)

type RelationshipRepository struct {
	pool *pgxpool.Pool
}

func NewRelationshipRepository(pool *pgxpool.Pool) *RelationshipRepository {
	return &RelationshipRepository{pool: pool}
}

func (r *RelationshipRepository) AddPendingRequest(ctx context.Context, recipientID, senderID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO friend_requests (recipient_id, sender_id)
		SELECT $1, $2
		WHERE NOT EXISTS (SELECT 1 FROM friendships WHERE user_id = $2 AND friend_id = $1)
		  AND NOT EXISTS (SELECT 1 FROM friend_requests WHERE recipient_id = $2 AND sender_id = $1)
		ON CONFLICT DO NOTHING
	`, recipientID, senderID)
	if err != nil {
		return false, mapErr(err)
	}
	return tag.RowsAffected() == 1, nil
}

// AcceptRequest consumes the pending row and writes both friendship rows in
// one transaction; a concurrent accept finds no row to delete.
func (r *RelationshipRepository) AcceptRequest(ctx context.Context, userID, friendID string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var sender string
		err := tx.QueryRow(ctx, `
			DELETE FROM friend_requests
			WHERE recipient_id = $1 AND sender_id = $2
			RETURNING sender_id
		`, userID, friendID).Scan(&sender)
		if err != nil {
			return mapErr(err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO friendships (user_id, friend_id)
			VALUES ($1, $2), ($2, $1)
			ON CONFLICT DO NOTHING
		`, userID, friendID)
		return mapErr(err)
	})
}

func (r *RelationshipRepository) RemovePendingRequest(ctx context.Context, recipientID, senderID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM friend_requests WHERE recipient_id = $1 AND sender_id = $2`, recipientID, senderID)
	if err = mapErr(err); errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}

func (r *RelationshipRepository) RemoveFriendship(ctx context.Context, userID, friendID string) error {
	return notFoundIfNone(r.pool.Exec(ctx, `
		DELETE FROM friendships
		WHERE (user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1)
	`, userID, friendID))
}

func (r *RelationshipRepository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var ok bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&ok); err != nil {
		if err = mapErr(err); errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

func (r *RelationshipRepository) AreFriends(ctx context.Context, userID, otherID string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM friendships WHERE user_id = $1 AND friend_id = $2)`, userID, otherID)
}

func (r *RelationshipRepository) HasPendingRequest(ctx context.Context, recipientID, senderID string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM friend_requests WHERE recipient_id = $1 AND sender_id = $2)`, recipientID, senderID)
}

func (r *RelationshipRepository) ListFriendIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT friend_id::text FROM friendships WHERE user_id = $1 ORDER BY created_at, friend_id
	`, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, mapErr(err)
	}
	return ids, nil
}

func (r *RelationshipRepository) ListPendingRequesters(ctx context.Context, userID string) ([]*entity.User, error) {
	return collectUsers(r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM friend_requests fr
		JOIN users u ON u.id = fr.sender_id
		WHERE fr.recipient_id = $1
		ORDER BY fr.created_at, u.id
	`, userID))
}

func (r *RelationshipRepository) ListFriends(ctx context.Context, userID string) ([]*entity.User, error) {
	return collectUsers(r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM friendships f
		JOIN users u ON u.id = f.friend_id
		WHERE f.user_id = $1
		ORDER BY f.created_at, u.id
	`, userID))
}

func (r *RelationshipRepository) SuggestFor(ctx context.Context, userID string) ([]*entity.User, error) {
	return collectUsers(r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users u
		WHERE u.id <> $1
		  AND NOT EXISTS (SELECT 1 FROM friendships f WHERE f.user_id = $1 AND f.friend_id = u.id)
		  AND NOT EXISTS (
		      SELECT 1 FROM friend_requests fr
		      WHERE (fr.recipient_id = $1 AND fr.sender_id = u.id)
		         OR (fr.recipient_id = u.id AND fr.sender_id = $1)
		  )
		ORDER BY u.created_at, u.id
	`, userID))
}

var _ repository.RelationshipRepository = (*RelationshipRepository)(nil)
