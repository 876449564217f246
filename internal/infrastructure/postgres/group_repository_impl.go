package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-ddd-social/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social/internal/domain/repository"
)

const groupSelect = `
	SELECT g.id, g.name, g.description, g.image_ref, g.admin_id, g.created_at, g.updated_at,
	       ARRAY(SELECT m.user_id::text FROM group_members m WHERE m.group_id = g.id ORDER BY m.joined_at, m.user_id)
	FROM groups g`

type GroupRepository struct {
	pool *pgxpool.Pool
}

func NewGroupRepository(pool *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{pool: pool}
}

func scanGroup(row pgx.Row) (*entity.Group, error) {
	g := &entity.Group{}
	if err := row.Scan(&g.ID, &g.Name, &g.Description, &g.ImageRef, &g.AdminID, &g.CreatedAt, &g.UpdatedAt, &g.Members); err != nil {
		return nil, mapErr(err)
	}
	if g.Members == nil {
		g.Members = []string{}
	}
	return g, nil
}

func (r *GroupRepository) Create(ctx context.Context, g *entity.Group) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO groups (name, description, image_ref, admin_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, g.Name, g.Description, g.ImageRef, g.AdminID)
	if err := row.Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return mapErr(err)
	}
	g.Members = []string{}
	return nil
}

func (r *GroupRepository) GetByID(ctx context.Context, id string) (*entity.Group, error) {
	return scanGroup(r.pool.QueryRow(ctx, groupSelect+` WHERE g.id = $1`, id))
}

func (r *GroupRepository) Update(ctx context.Context, g *entity.Group) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE groups
		SET name = $1, description = $2, image_ref = $3, updated_at = now()
		WHERE id = $4
		RETURNING updated_at
	`, g.Name, g.Description, g.ImageRef, g.ID)
	return mapErr(row.Scan(&g.UpdatedAt))
}

func (r *GroupRepository) AddMember(ctx context.Context, groupID, userID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO group_members (group_id, user_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, groupID, userID)
	if err != nil {
		return false, mapErr(err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *GroupRepository) RemoveMember(ctx context.Context, groupID, userID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`, groupID, userID)
	if err != nil {
		return false, mapErr(err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *GroupRepository) ListForUser(ctx context.Context, userID string) ([]*entity.Group, error) {
	rows, err := r.pool.Query(ctx, groupSelect+`
		WHERE g.admin_id = $1
		   OR EXISTS (SELECT 1 FROM group_members m WHERE m.group_id = g.id AND m.user_id = $1)
		ORDER BY g.created_at, g.id
	`, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	out := make([]*entity.Group, 0)
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, mapErr(rows.Err())
}

func (r *GroupRepository) ListMembers(ctx context.Context, groupID string) ([]*entity.User, error) {
	return collectUsers(r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM group_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.group_id = $1
		ORDER BY m.joined_at, u.id
	`, groupID))
}

var _ repository.GroupRepository = (*GroupRepository)(nil)
