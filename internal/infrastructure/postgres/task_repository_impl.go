package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	"github.com/oksasatya/task-manager-api/internal/domain/errs"
	"github.com/oksasatya/task-manager-api/internal/domain/repository"
)

const taskColumns = `id, description, completed, owner_id, created_at, updated_at`

var sortColumns = map[string]string{
	repository.SortCreatedAt:   "created_at",
	repository.SortUpdatedAt:   "updated_at",
	repository.SortDescription: "description",
	repository.SortCompleted:   "completed",
}

type TaskRepository struct {
	db DBTX
}

func NewTaskRepository(db DBTX) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO tasks (id, description, completed, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, t.ID, t.Description, t.Completed, t.Owner)

	return mapError(row.Scan(&t.CreatedAt, &t.UpdatedAt))
}

func (r *TaskRepository) GetByID(ctx context.Context, id, owner string) (*entity.Task, error) {
	if !validID(id) || !validID(owner) {
		return nil, errs.ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND owner_id = $2`, id, owner)
	return scanTask(row)
}

func (r *TaskRepository) List(ctx context.Context, f repository.TaskFilter) ([]*entity.Task, error) {
	if !validID(f.Owner) {
		return []*entity.Task{}, nil
	}
	var sb strings.Builder
	args := []any{f.Owner}
	sb.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1`)

	if f.Completed != nil {
		args = append(args, *f.Completed)
		fmt.Fprintf(&sb, " AND completed = $%d", len(args))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, "%"+escapeLike(q)+"%")
		fmt.Fprintf(&sb, " AND description ILIKE $%d", len(args))
	}

	col, ok := sortColumns[f.SortField]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if ok && f.SortDesc {
		dir = "DESC"
	}
	fmt.Fprintf(&sb, " ORDER BY %s %s, id %s", col, dir, dir)

	if f.Limit > 0 {
		args = append(args, f.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if f.Skip > 0 {
		args = append(args, f.Skip)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, mapError(err)
	}
	return collectTasks(rows)
}

// ListByIDs returns the owner's tasks among ids, in the order of ids.
func (r *TaskRepository) ListByIDs(ctx context.Context, owner string, ids []string) ([]*entity.Task, error) {
	if len(ids) == 0 || !validID(owner) {
		return []*entity.Task{}, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE owner_id = $1 AND id::text = ANY($2::text[])`, owner, ids)
	if err != nil {
		return nil, mapError(err)
	}
	found, err := collectTasks(rows)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Task, len(found))
	for _, t := range found {
		byID[t.ID] = t
	}
	out := make([]*entity.Task, 0, len(found))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *TaskRepository) Update(ctx context.Context, t *entity.Task) error {
	if !validID(t.ID) || !validID(t.Owner) {
		return errs.ErrNotFound
	}
	row := r.db.QueryRow(ctx, `
		UPDATE tasks
		SET description = $1, completed = $2, updated_at = now()
		WHERE id = $3 AND owner_id = $4
		RETURNING updated_at
	`, t.Description, t.Completed, t.ID, t.Owner)

	return mapError(row.Scan(&t.UpdatedAt))
}

func (r *TaskRepository) Delete(ctx context.Context, id, owner string) (*entity.Task, error) {
	if !validID(id) || !validID(owner) {
		return nil, errs.ErrNotFound
	}
	row := r.db.QueryRow(ctx, `DELETE FROM tasks WHERE id = $1 AND owner_id = $2 RETURNING `+taskColumns, id, owner)
	return scanTask(row)
}

func (r *TaskRepository) DeleteByOwner(ctx context.Context, owner string) (int64, error) {
	if !validID(owner) {
		return 0, nil
	}
	res, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE owner_id = $1`, owner)
	if err != nil {
		return 0, mapError(err)
	}
	return res.RowsAffected(), nil
}

func scanTask(row pgx.Row) (*entity.Task, error) {
	t := &entity.Task{}
	if err := row.Scan(&t.ID, &t.Description, &t.Completed, &t.Owner, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	return t, nil
}

func collectTasks(rows pgx.Rows) ([]*entity.Task, error) {
	defer rows.Close()
	out := make([]*entity.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, mapError(rows.Err())
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
