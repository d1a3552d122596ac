package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	"github.com/oksasatya/task-manager-api/internal/domain/errs"
	repo "github.com/oksasatya/task-manager-api/internal/domain/repository"
)

func descriptions(tasks []*entity.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Description)
	}
	return out
}

func TestListQueryFilter(t *testing.T) {
	yes, no := true, false
	tests := []struct {
		name string
		q    ListQuery
		want repo.TaskFilter
	}{
		{name: "empty", q: ListQuery{}, want: repo.TaskFilter{Owner: "o"}},
		{name: "completed true", q: ListQuery{Completed: "true"}, want: repo.TaskFilter{Owner: "o", Completed: &yes}},
		{name: "completed false", q: ListQuery{Completed: "false"}, want: repo.TaskFilter{Owner: "o", Completed: &no}},
		{name: "completed junk ignored", q: ListQuery{Completed: "maybe"}, want: repo.TaskFilter{Owner: "o"}},
		{name: "paging", q: ListQuery{Limit: "2", Skip: "4"}, want: repo.TaskFilter{Owner: "o", Limit: 2, Skip: 4}},
		{name: "paging junk ignored", q: ListQuery{Limit: "-1", Skip: "x"}, want: repo.TaskFilter{Owner: "o"}},
		{name: "limit capped", q: ListQuery{Limit: "5000"}, want: repo.TaskFilter{Owner: "o", Limit: 100}},
		{name: "sort desc", q: ListQuery{SortBy: "createdAt:desc"}, want: repo.TaskFilter{Owner: "o", SortField: repo.SortCreatedAt, SortDesc: true}},
		{name: "sort default asc", q: ListQuery{SortBy: "description"}, want: repo.TaskFilter{Owner: "o", SortField: repo.SortDescription}},
		{name: "unknown sort field", q: ListQuery{SortBy: "owner:desc"}, want: repo.TaskFilter{Owner: "o", SortDesc: true}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.q.Filter("o"))
		})
	}
}

func TestTaskCRUDIsOwnerScoped(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	alice, _ := register(t, f, "alice@example.com")
	bob, _ := register(t, f, "bob@example.com")

	task, err := f.tasks.Create(ctx, alice.ID, CreateTaskInput{Description: "  water plants "})
	require.NoError(t, err)
	assert.Equal(t, "water plants", task.Description)
	assert.False(t, task.Completed)
	assert.Equal(t, alice.ID, task.Owner)

	_, err = f.tasks.Get(ctx, bob.ID, task.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	_, err = f.tasks.Update(ctx, bob.ID, task.ID, []byte(`{"completed":true}`))
	assert.ErrorIs(t, err, errs.ErrNotFound)
	_, err = f.tasks.Delete(ctx, bob.ID, task.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	got, err := f.tasks.Get(ctx, alice.ID, task.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)

	updated, err := f.tasks.Update(ctx, alice.ID, task.ID, []byte(`{"completed":true}`))
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "water plants", updated.Description)

	deleted, err := f.tasks.Delete(ctx, alice.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, deleted.ID)
	_, err = f.tasks.Get(ctx, alice.ID, task.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.Empty(t, f.index.Docs)
}

func TestTaskCreateValidation(t *testing.T) {
	f := newFixture()
	u, _ := register(t, f, "alice@example.com")

	_, err := f.tasks.Create(context.Background(), u.ID, CreateTaskInput{Description: "   "})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestTaskUpdateRejects(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	u, _ := register(t, f, "alice@example.com")
	task, err := f.tasks.Create(ctx, u.ID, CreateTaskInput{Description: "a"})
	require.NoError(t, err)

	for _, body := range []string{`{"owner":"someone"}`, `{"description":""}`, `{"completed":"yes"}`, `{"id":"x"}`} {
		_, err := f.tasks.Update(ctx, u.ID, task.ID, []byte(body))
		assert.ErrorIs(t, err, errs.ErrValidation, body)
	}

	got, err := f.tasks.Get(ctx, u.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Description)
	assert.Equal(t, u.ID, got.Owner)
}

func TestTaskList(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	u, _ := register(t, f, "alice@example.com")
	other, _ := register(t, f, "bob@example.com")

	for i, d := range []string{"c", "a", "d", "b"} {
		_, err := f.tasks.Create(ctx, u.ID, CreateTaskInput{Description: d, Completed: i%2 == 0})
		require.NoError(t, err)
	}
	_, err := f.tasks.Create(ctx, other.ID, CreateTaskInput{Description: "not mine"})
	require.NoError(t, err)

	all, err := f.tasks.List(ctx, u.ID, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "d", "b"}, descriptions(all))

	done, err := f.tasks.List(ctx, u.ID, ListQuery{Completed: "true"})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "d"}, descriptions(done))

	open, err := f.tasks.List(ctx, u.ID, ListQuery{Completed: "false"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, descriptions(open))

	newestTwo, err := f.tasks.List(ctx, u.ID, ListQuery{SortBy: "createdAt:desc", Limit: "2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "d"}, descriptions(newestTwo))

	page, err := f.tasks.List(ctx, u.ID, ListQuery{SortBy: "description:asc", Limit: "2", Skip: "1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, descriptions(page))
}

func TestTaskSearch(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	u, _ := register(t, f, "alice@example.com")
	other, _ := register(t, f, "bob@example.com")
	for _, d := range []string{"Buy milk", "walk dog", "buy bread"} {
		_, err := f.tasks.Create(ctx, u.ID, CreateTaskInput{Description: d})
		require.NoError(t, err)
	}
	_, err := f.tasks.Create(ctx, other.ID, CreateTaskInput{Description: "buy a boat"})
	require.NoError(t, err)

	got, err := f.tasks.Search(ctx, u.ID, "buy", 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Buy milk", "buy bread"}, descriptions(got))

	// index down: falls back to the database
	f.index.Err = assert.AnError
	got, err = f.tasks.Search(ctx, u.ID, "BUY", 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Buy milk", "buy bread"}, descriptions(got))

	empty, err := f.tasks.Search(ctx, u.ID, "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
