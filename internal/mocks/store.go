// Package mocks provides in-memory implementations of the repository ports for tests.
package mocks

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	"github.com/oksasatya/task-manager-api/internal/domain/errs"
	"github.com/oksasatya/task-manager-api/internal/domain/repository"
)

// ErrReferenced mimics a foreign-key violation when a user with tasks is deleted directly.
var ErrReferenced = errors.New("user is still referenced by tasks")

// Store is a goroutine-safe in-memory database shared by UserRepo and TaskRepo.
type Store struct {
	mu      sync.Mutex
	users   map[string]entity.User
	avatars map[string][]byte
	tasks   map[string]entity.Task
	tick    time.Time

	// Fail, when set, is returned by every repository call. Simulates an unavailable store.
	Fail error
}

func NewStore() *Store {
	return &Store{
		users:   map[string]entity.User{},
		avatars: map[string][]byte{},
		tasks:   map[string]entity.Task{},
		tick:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }
func (s *Store) Tasks() *TaskRepo { return &TaskRepo{s: s} }

// now advances a fake clock so creation order is strict.
func (s *Store) now() time.Time {
	s.tick = s.tick.Add(time.Millisecond)
	return s.tick
}

// TaskCount returns how many tasks owner has, for assertions.
func (s *Store) TaskCount(owner string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if t.Owner == owner {
			n++
		}
	}
	return n
}

// WithinTx snapshots the store and restores it when fn fails.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, users repository.UserRepository, tasks repository.TaskRepository) error) error {
	s.mu.Lock()
	users := cloneMap(s.users)
	avatars := cloneMap(s.avatars)
	tasks := cloneMap(s.tasks)
	s.mu.Unlock()

	if err := fn(ctx, s.Users(), s.Tasks()); err != nil {
		s.mu.Lock()
		s.users, s.avatars, s.tasks = users, avatars, tasks
		s.mu.Unlock()
		return err
	}
	return nil
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// UserRepo implements repository.UserRepository over a Store.
type UserRepo struct{ s *Store }

func copyUser(u entity.User) *entity.User {
	u.Tokens = slices.Clone(u.Tokens)
	return &u
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	for _, other := range r.s.users {
		if other.Email == u.Email {
			return errs.ErrConflict
		}
	}
	now := r.s.now()
	u.CreatedAt, u.UpdatedAt = now, now
	stored := *copyUser(*u)
	stored.Tokens = nil
	r.s.users[u.ID] = stored
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return nil, r.s.Fail
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return copyUser(u), nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return nil, r.s.Fail
	}
	for _, u := range r.s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	cur, ok := r.s.users[u.ID]
	if !ok {
		return errs.ErrNotFound
	}
	for id, other := range r.s.users {
		if id != u.ID && other.Email == u.Email {
			return errs.ErrConflict
		}
	}
	cur.Name, cur.Email, cur.Age, cur.PasswordHash = u.Name, u.Email, u.Age, u.PasswordHash
	cur.UpdatedAt = r.s.now()
	u.UpdatedAt = cur.UpdatedAt
	r.s.users[u.ID] = cur
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	if _, ok := r.s.users[id]; !ok {
		return errs.ErrNotFound
	}
	for _, t := range r.s.tasks {
		if t.Owner == id {
			return ErrReferenced
		}
	}
	delete(r.s.users, id)
	delete(r.s.avatars, id)
	return nil
}

func (r *UserRepo) AddToken(_ context.Context, userID, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	u, ok := r.s.users[userID]
	if !ok {
		return errs.ErrNotFound
	}
	u.Tokens = append(slices.Clone(u.Tokens), token)
	r.s.users[userID] = u
	return nil
}

func (r *UserRepo) RemoveToken(_ context.Context, userID, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	u, ok := r.s.users[userID]
	if !ok {
		return nil
	}
	u.Tokens = slices.DeleteFunc(slices.Clone(u.Tokens), func(t string) bool { return t == token })
	r.s.users[userID] = u
	return nil
}

func (r *UserRepo) ClearTokens(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	if u, ok := r.s.users[userID]; ok {
		u.Tokens = nil
		r.s.users[userID] = u
	}
	return nil
}

func (r *UserRepo) SetAvatar(_ context.Context, userID string, png []byte) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	if _, ok := r.s.users[userID]; !ok {
		return errs.ErrNotFound
	}
	if png == nil {
		delete(r.s.avatars, userID)
		return nil
	}
	r.s.avatars[userID] = slices.Clone(png)
	return nil
}

func (r *UserRepo) GetAvatar(_ context.Context, userID string) ([]byte, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return nil, r.s.Fail
	}
	png, ok := r.s.avatars[userID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return slices.Clone(png), nil
}

// TaskRepo implements repository.TaskRepository over a Store.
type TaskRepo struct{ s *Store }

func (r *TaskRepo) Create(_ context.Context, t *entity.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	if _, ok := r.s.users[t.Owner]; !ok {
		return errs.ErrNotFound
	}
	now := r.s.now()
	t.CreatedAt, t.UpdatedAt = now, now
	r.s.tasks[t.ID] = *t
	return nil
}

func (r *TaskRepo) GetByID(_ context.Context, id, owner string) (*entity.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return nil, r.s.Fail
	}
	t, ok := r.s.tasks[id]
	if !ok || t.Owner != owner {
		return nil, errs.ErrNotFound
	}
	return &t, nil
}

func (r *TaskRepo) List(_ context.Context, f repository.TaskFilter) ([]*entity.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return nil, r.s.Fail
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]*entity.Task, 0)
	for _, t := range r.s.tasks {
		if t.Owner != f.Owner {
			continue
		}
		if f.Completed != nil && t.Completed != *f.Completed {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(t.Description), q) {
			continue
		}
		t := t
		out = append(out, &t)
	}

	desc := f.SortDesc && f.SortField != ""
	sort.SliceStable(out, func(i, j int) bool {
		c := compareTasks(out[i], out[j], f.SortField)
		if c == 0 {
			c = strings.Compare(out[i].ID, out[j].ID)
		}
		if desc {
			return c > 0
		}
		return c < 0
	})

	if f.Skip > 0 {
		if f.Skip >= len(out) {
			return []*entity.Task{}, nil
		}
		out = out[f.Skip:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func compareTasks(a, b *entity.Task, field string) int {
	switch field {
	case repository.SortUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case repository.SortDescription:
		return strings.Compare(a.Description, b.Description)
	case repository.SortCompleted:
		switch {
		case a.Completed == b.Completed:
			return 0
		case !a.Completed:
			return -1
		default:
			return 1
		}
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func (r *TaskRepo) ListByIDs(_ context.Context, owner string, ids []string) ([]*entity.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return nil, r.s.Fail
	}
	out := make([]*entity.Task, 0, len(ids))
	for _, id := range ids {
		if t, ok := r.s.tasks[id]; ok && t.Owner == owner {
			t := t
			out = append(out, &t)
		}
	}
	return out, nil
}

func (r *TaskRepo) Update(_ context.Context, t *entity.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	cur, ok := r.s.tasks[t.ID]
	if !ok || cur.Owner != t.Owner {
		return errs.ErrNotFound
	}
	cur.Description, cur.Completed = t.Description, t.Completed
	cur.UpdatedAt = r.s.now()
	t.UpdatedAt = cur.UpdatedAt
	r.s.tasks[t.ID] = cur
	return nil
}

func (r *TaskRepo) Delete(_ context.Context, id, owner string) (*entity.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return nil, r.s.Fail
	}
	t, ok := r.s.tasks[id]
	if !ok || t.Owner != owner {
		return nil, errs.ErrNotFound
	}
	delete(r.s.tasks, id)
	return &t, nil
}

func (r *TaskRepo) DeleteByOwner(_ context.Context, owner string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return 0, r.s.Fail
	}
	var n int64
	for id, t := range r.s.tasks {
		if t.Owner == owner {
			delete(r.s.tasks, id)
			n++
		}
	}
	return n, nil
}

var (
	_ repository.UserRepository = (*UserRepo)(nil)
	_ repository.TaskRepository = (*TaskRepo)(nil)
	_ repository.Transactor     = (*Store)(nil)
)
