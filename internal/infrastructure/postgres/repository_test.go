package postgres

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"os"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	"github.com/oksasatya/task-manager-api/internal/domain/errs"
	"github.com/oksasatya/task-manager-api/internal/domain/repository"
)

// testPool connects to TEST_DATABASE_URL, migrates it and empties every table.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	require.NoError(t, err)
	m, err := migrate.NewWithDatabaseInstance("file://../../../db/migrations", "postgres", driver)
	require.NoError(t, err)
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		require.NoError(t, err)
	}

	ctx := context.Background()
	pool, err := NewPool(ctx, dsn, 4, 0, 0)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	_, err = pool.Exec(ctx, `TRUNCATE tasks, user_tokens, users`)
	require.NoError(t, err)
	return pool
}

func newUser(t *testing.T, users *UserRepository, email string) *entity.User {
	t.Helper()
	u := &entity.User{ID: uuid.NewString(), Name: "Jen", Email: email, PasswordHash: "hash"}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func TestUserRepository(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := NewUserRepository(pool)

	u := newUser(t, users, "jen@example.com")
	assert.False(t, u.CreatedAt.IsZero())

	dup := &entity.User{ID: uuid.NewString(), Name: "x", Email: "jen@example.com", PasswordHash: "h"}
	assert.ErrorIs(t, users.Create(ctx, dup), errs.ErrConflict)

	require.NoError(t, users.AddToken(ctx, u.ID, "a"))
	require.NoError(t, users.AddToken(ctx, u.ID, "b"))
	got, err := users.GetByEmail(ctx, "jen@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.Tokens)

	require.NoError(t, users.RemoveToken(ctx, u.ID, "a"))
	require.NoError(t, users.RemoveToken(ctx, u.ID, "a"))
	got, err = users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, got.Tokens)

	require.NoError(t, users.ClearTokens(ctx, u.ID))
	got, err = users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tokens)

	_, err = users.GetAvatar(ctx, u.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	require.NoError(t, users.SetAvatar(ctx, u.ID, []byte{1, 2, 3}))
	png, err := users.GetAvatar(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, png)
	require.NoError(t, users.SetAvatar(ctx, u.ID, nil))
	_, err = users.GetAvatar(ctx, u.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = users.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, errs.ErrNotFound)
	_, err = users.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUserAgeFitsGoInt(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := NewUserRepository(pool)
	u := newUser(t, users, "old@example.com")

	u.Age = math.MaxInt32 + 1
	require.NoError(t, users.Update(ctx, u))
	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt32+1, got.Age)
}

func TestTaskRepository(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := NewUserRepository(pool)
	tasks := NewTaskRepository(pool)
	alice := newUser(t, users, "alice@example.com")
	bob := newUser(t, users, "bob@example.com")

	ids := map[string]string{}
	for _, d := range []string{"buy milk", "walk 100% of the dog", "Buy bread"} {
		task := &entity.Task{ID: uuid.NewString(), Description: d, Owner: alice.ID, Completed: d == "buy milk"}
		require.NoError(t, tasks.Create(ctx, task))
		ids[d] = task.ID
	}

	_, err := tasks.GetByID(ctx, ids["buy milk"], bob.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	_, err = tasks.Delete(ctx, ids["buy milk"], bob.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	done := true
	list, err := tasks.List(ctx, repository.TaskFilter{Owner: alice.ID, Completed: &done})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "buy milk", list[0].Description)

	list, err = tasks.List(ctx, repository.TaskFilter{Owner: alice.ID, Query: "BUY", SortField: repository.SortDescription, SortDesc: true})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "buy milk", list[0].Description)

	list, err = tasks.List(ctx, repository.TaskFilter{Owner: alice.ID, Query: "100%"})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	byIDs, err := tasks.ListByIDs(ctx, alice.ID, []string{ids["Buy bread"], ids["buy milk"], "junk"})
	require.NoError(t, err)
	require.Len(t, byIDs, 2)
	assert.Equal(t, ids["Buy bread"], byIDs[0].ID)

	// deleting a user with tasks is refused by the foreign key
	assert.Error(t, users.Delete(ctx, alice.ID))

	err = NewTransactor(pool).WithinTx(ctx, func(ctx context.Context, u repository.UserRepository, ts repository.TaskRepository) error {
		n, err := ts.DeleteByOwner(ctx, alice.ID)
		if err != nil {
			return err
		}
		assert.EqualValues(t, 3, n)
		return u.Delete(ctx, alice.ID)
	})
	require.NoError(t, err)
	_, err = users.GetByID(ctx, alice.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestTransactorRollsBack(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := NewUserRepository(pool)
	u := newUser(t, users, "jen@example.com")
	require.NoError(t, NewTaskRepository(pool).Create(ctx, &entity.Task{ID: uuid.NewString(), Description: "a", Owner: u.ID}))

	err := NewTransactor(pool).WithinTx(ctx, func(ctx context.Context, _ repository.UserRepository, ts repository.TaskRepository) error {
		if _, err := ts.DeleteByOwner(ctx, u.ID); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	list, err := NewTaskRepository(pool).List(ctx, repository.TaskFilter{Owner: u.ID})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
