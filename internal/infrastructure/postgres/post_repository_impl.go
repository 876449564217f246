package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-ddd-social/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social/internal/domain/repository"
)

const postSelect = `
	SELECT p.id, p.content, p.image_ref, p.author_id, COALESCE(p.group_id::text, ''), p.created_at, p.updated_at,
	       ARRAY(SELECT r.user_id::text FROM post_reactions r WHERE r.post_id = p.id AND r.kind = 'like' ORDER BY r.created_at, r.user_id),
	       ARRAY(SELECT r.user_id::text FROM post_reactions r WHERE r.post_id = p.id AND r.kind = 'dislike' ORDER BY r.created_at, r.user_id),
	       ARRAY(SELECT c.id::text FROM comments c WHERE c.post_id = p.id ORDER BY c.created_at, c.id)
	FROM posts p`

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

func scanPost(row pgx.Row) (*entity.Post, error) {
	p := &entity.Post{}
	err := row.Scan(&p.ID, &p.Content, &p.ImageRef, &p.AuthorID, &p.GroupID, &p.CreatedAt, &p.UpdatedAt,
		&p.Likes, &p.Dislikes, &p.Comments)
	if err != nil {
		return nil, mapErr(err)
	}
	for _, s := range []*[]string{&p.Likes, &p.Dislikes, &p.Comments} {
		if *s == nil {
			*s = []string{}
		}
	}
	return p, nil
}

func (r *PostRepository) collect(rows pgx.Rows, err error) ([]*entity.Post, error) {
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	out := make([]*entity.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, mapErr(rows.Err())
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO posts (content, image_ref, author_id, group_id)
		VALUES ($1, $2, $3, NULLIF($4, '')::uuid)
		RETURNING id, created_at, updated_at
	`, p.Content, p.ImageRef, p.AuthorID, p.GroupID)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return mapErr(err)
	}
	p.Likes, p.Dislikes, p.Comments = []string{}, []string{}, []string{}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	return scanPost(r.pool.QueryRow(ctx, postSelect+` WHERE p.id = $1`, id))
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	return notFoundIfNone(r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id))
}

func (r *PostRepository) ListFeed(ctx context.Context, authorIDs []string, limit int) ([]*entity.Post, error) {
	if len(authorIDs) == 0 {
		return []*entity.Post{}, nil
	}
	return r.collect(r.pool.Query(ctx, postSelect+`
		WHERE p.group_id IS NULL AND p.author_id = ANY($1::uuid[])
		ORDER BY p.created_at DESC, p.id
		LIMIT $2
	`, authorIDs, limit))
}

func (r *PostRepository) ListByGroup(ctx context.Context, groupID string, limit int) ([]*entity.Post, error) {
	return r.collect(r.pool.Query(ctx, postSelect+`
		WHERE p.group_id = $1
		ORDER BY p.created_at DESC, p.id
		LIMIT $2
	`, groupID, limit))
}

// SetReaction upserts on the (post, user) key, so switching kind replaces the old row.
func (r *PostRepository) SetReaction(ctx context.Context, postID, userID string, kind entity.ReactionKind) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO post_reactions (post_id, user_id, kind)
		VALUES ($1, $2, $3)
		ON CONFLICT (post_id, user_id) DO UPDATE
		SET kind = EXCLUDED.kind, created_at = now()
		WHERE post_reactions.kind <> EXCLUDED.kind
	`, postID, userID, string(kind))
	return mapErr(err)
}

func (r *PostRepository) ClearReaction(ctx context.Context, postID, userID string, kind entity.ReactionKind) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM post_reactions WHERE post_id = $1 AND user_id = $2 AND kind = $3
	`, postID, userID, string(kind))
	return mapErr(err)
}

var _ repository.PostRepository = (*PostRepository)(nil)
