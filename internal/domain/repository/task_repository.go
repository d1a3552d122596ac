package repository

import (
	"context"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
)

// Sortable task columns.
const (
	SortCreatedAt   = "created_at"
	SortUpdatedAt   = "updated_at"
	SortDescription = "description"
	SortCompleted   = "completed"
)

// TaskFilter narrows a task listing. Owner is always required.
type TaskFilter struct {
	Owner     string
	Completed *bool
	Query     string // case-insensitive substring on description
	Limit     int    // 0 means no limit
	Skip      int
	SortField string // one of the Sort* constants, empty keeps creation order
	SortDesc  bool
}

// TaskRepository persists tasks. Every single-record operation is scoped by owner;
// a task owned by someone else is reported as errs.ErrNotFound.
type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) error
	GetByID(ctx context.Context, id, owner string) (*entity.Task, error)
	List(ctx context.Context, f TaskFilter) ([]*entity.Task, error)
	ListByIDs(ctx context.Context, owner string, ids []string) ([]*entity.Task, error)
	Update(ctx context.Context, t *entity.Task) error
	Delete(ctx context.Context, id, owner string) (*entity.Task, error)
	DeleteByOwner(ctx context.Context, owner string) (int64, error)
}

// TaskSearchIndex mirrors tasks into a full-text index.
type TaskSearchIndex interface {
	Index(ctx context.Context, t *entity.Task) error
	Delete(ctx context.Context, id string) error
	DeleteByOwner(ctx context.Context, owner string) error
	// Search returns matching task ids owned by owner, best match first.
	Search(ctx context.Context, owner, query string, size int) ([]string, error)
}

// Transactor runs fn inside a single database transaction. Repositories handed to
// fn are bound to that transaction; returning an error rolls everything back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, users UserRepository, tasks TaskRepository) error) error
}
