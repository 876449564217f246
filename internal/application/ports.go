package application

import (
	"context"
	"io"

	"github.com/oksasatya/go-ddd-social/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social/pkg/mailer"
)

// AssetStore resolves opaque image references to bytes.
// Get returns repository.ErrNotFound for unknown references.
type AssetStore interface {
	Put(ctx context.Context, prefix, ext, contentType string, r io.Reader) (string, error)
	Get(ctx context.Context, ref string) ([]byte, string, error)
}

// SearchIndex keeps a searchable copy of users and groups
type SearchIndex interface {
	IndexUser(ctx context.Context, u *entity.User) error
	DeleteUser(ctx context.Context, id string) error
	IndexGroup(ctx context.Context, g *entity.Group) error
	SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error)
	SearchGroups(ctx context.Context, q string, size int) ([]map[string]any, error)
}

// Notifier enqueues email jobs for asynchronous delivery
type Notifier interface {
	Notify(ctx context.Context, job mailer.EmailJob) error
}
