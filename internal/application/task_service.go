package application

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	repo "github.com/oksasatya/task-manager-api/internal/domain/repository"
)

const (
	maxListLimit      = 100
	defaultSearchSize = 10
	maxSearchSize     = 50
)

type TaskService struct {
	Tasks  repo.TaskRepository
	Index  repo.TaskSearchIndex // optional
	Logger *logrus.Logger
}

func NewTaskService(tasks repo.TaskRepository, index repo.TaskSearchIndex, logger *logrus.Logger) *TaskService {
	return &TaskService{Tasks: tasks, Index: index, Logger: logger}
}

type CreateTaskInput struct {
	Description string
	Completed   bool
}

// Create stores a task owned by owner. Any owner supplied by the client is ignored upstream.
func (s *TaskService) Create(ctx context.Context, owner string, in CreateTaskInput) (*entity.Task, error) {
	t := &entity.Task{
		ID:          uuid.NewString(),
		Description: in.Description,
		Completed:   in.Completed,
		Owner:       owner,
	}
	t.Normalize()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.Tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	s.index(ctx, t)
	return t, nil
}

// ListQuery carries the raw query-string values of GET /tasks.
type ListQuery struct {
	Completed string
	Limit     string
	Skip      string
	SortBy    string
}

// Filter converts the query into a repository filter. Values that do not parse are ignored.
func (q ListQuery) Filter(owner string) repo.TaskFilter {
	f := repo.TaskFilter{Owner: owner}
	switch q.Completed {
	case "true":
		v := true
		f.Completed = &v
	case "false":
		v := false
		f.Completed = &v
	}
	if n, err := strconv.Atoi(q.Limit); err == nil && n > 0 {
		f.Limit = min(n, maxListLimit)
	}
	if n, err := strconv.Atoi(q.Skip); err == nil && n > 0 {
		f.Skip = n
	}
	if q.SortBy != "" {
		field, dir, _ := strings.Cut(q.SortBy, ":")
		f.SortField = sortFields[field]
		f.SortDesc = dir == "desc"
	}
	return f
}

var sortFields = map[string]string{
	"createdAt":   repo.SortCreatedAt,
	"created_at":  repo.SortCreatedAt,
	"updatedAt":   repo.SortUpdatedAt,
	"updated_at":  repo.SortUpdatedAt,
	"description": repo.SortDescription,
	"completed":   repo.SortCompleted,
}

func (s *TaskService) List(ctx context.Context, owner string, q ListQuery) ([]*entity.Task, error) {
	return s.Tasks.List(ctx, q.Filter(owner))
}

func (s *TaskService) Get(ctx context.Context, owner, id string) (*entity.Task, error) {
	return s.Tasks.GetByID(ctx, id, owner)
}

// Update applies a whitelisted partial update to one of owner's tasks.
func (s *TaskService) Update(ctx context.Context, owner, id string, body []byte) (*entity.Task, error) {
	p, err := DecodePatch(body, TaskUpdatableFields)
	if err != nil {
		return nil, err
	}
	t, err := s.Tasks.GetByID(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	if v, ok, err := p.String("description"); err != nil {
		return nil, err
	} else if ok {
		t.Description = v
	}
	if v, ok, err := p.Bool("completed"); err != nil {
		return nil, err
	} else if ok {
		t.Completed = v
	}

	t.Normalize()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.Tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	s.index(ctx, t)
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, owner, id string) (*entity.Task, error) {
	t, err := s.Tasks.Delete(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	if s.Index != nil {
		if err := s.Index.Delete(ctx, t.ID); err != nil {
			s.warn(err, t.ID, "es delete failed")
		}
	}
	return t, nil
}

// Search matches query against owner's task descriptions. It uses the search index
// when configured and falls back to a database substring match otherwise.
func (s *TaskService) Search(ctx context.Context, owner, query string, size int) ([]*entity.Task, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*entity.Task{}, nil
	}
	if size <= 0 || size > maxSearchSize {
		size = defaultSearchSize
	}
	if s.Index != nil {
		ids, err := s.Index.Search(ctx, owner, query, size)
		if err == nil {
			return s.Tasks.ListByIDs(ctx, owner, ids)
		}
		s.warn(err, "", "es search failed, falling back to database")
	}
	return s.Tasks.List(ctx, repo.TaskFilter{Owner: owner, Query: query, Limit: size})
}

func (s *TaskService) index(ctx context.Context, t *entity.Task) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, t); err != nil {
		s.warn(err, t.ID, "es index failed")
	}
}

func (s *TaskService) warn(err error, taskID, msg string) {
	if s.Logger == nil {
		return
	}
	entry := s.Logger.WithError(err)
	if taskID != "" {
		entry = entry.WithField("task_id", taskID)
	}
	entry.Warn(msg)
}
