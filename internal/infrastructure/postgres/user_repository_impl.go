package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-ddd-social/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social/internal/domain/repository"
)

const userColumns = `u.id, u.email, u.password_hash, u.name, u.age, u.image_ref, u.created_at, u.updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Name, &u.Age, &u.ImageRef, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func collectUsers(rows pgx.Rows, err error) ([]*entity.User, error) {
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	out := make([]*entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, mapErr(rows.Err())
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name, age, image_ref)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Password, u.Name, u.Age, u.ImageRef)

	return mapErr(row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users u WHERE u.email = $1`, email))
}

func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.User, error) {
	if len(ids) == 0 {
		return []*entity.User{}, nil
	}
	return collectUsers(r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users u
		WHERE u.id = ANY($1::uuid[])
		ORDER BY u.created_at, u.id
	`, ids))
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET email = $1, password_hash = $2, name = $3, age = $4, image_ref = $5, updated_at = now()
		WHERE id = $6
		RETURNING updated_at
	`, u.Email, u.Password, u.Name, u.Age, u.ImageRef, u.ID)

	return mapErr(row.Scan(&u.UpdatedAt))
}

// Delete removes the user; foreign keys cascade to every relationship row.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return notFoundIfNone(r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id))
}

var _ repository.UserRepository = (*UserRepository)(nil)
