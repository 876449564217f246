package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-ddd-social/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social/internal/domain/repository"
)

const commentColumns = `id, content, author_id, post_id, created_at, updated_at`

type CommentRepository struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

func scanComment(row pgx.Row) (*entity.Comment, error) {
	c := &entity.Comment{}
	if err := row.Scan(&c.ID, &c.Content, &c.AuthorID, &c.PostID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return c, nil
}

// Create inserts the comment; the post's comment sequence is derived from
// comments.post_id, so there is no second row to keep in sync.
func (r *CommentRepository) Create(ctx context.Context, c *entity.Comment) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO comments (content, author_id, post_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, c.Content, c.AuthorID, c.PostID)
	return mapErr(row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt))
}

func (r *CommentRepository) GetByID(ctx context.Context, id string) (*entity.Comment, error) {
	return scanComment(r.pool.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
}

func (r *CommentRepository) UpdateContent(ctx context.Context, id, content string) (*entity.Comment, error) {
	return scanComment(r.pool.QueryRow(ctx, `
		UPDATE comments SET content = $1, updated_at = now()
		WHERE id = $2
		RETURNING `+commentColumns, content, id))
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	return notFoundIfNone(r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id))
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID string) ([]*entity.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+commentColumns+` FROM comments WHERE post_id = $1 ORDER BY created_at, id
	`, postID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	out := make([]*entity.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, mapErr(rows.Err())
}

var _ repository.CommentRepository = (*CommentRepository)(nil)
