package application

import (
	"os"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/task-manager-api/internal/mocks"
	"github.com/oksasatya/task-manager-api/pkg/helpers"
)

func TestMain(m *testing.M) {
	helpers.PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type fixture struct {
	store    *mocks.Store
	notifier *mocks.Notifier
	mirror   *mocks.Mirror
	index    *mocks.SearchIndex
	tokens   *TokenService
	users    *UserService
	tasks    *TaskService
}

func newFixture() *fixture {
	store := mocks.NewStore()
	logger := helpers.NewNopLogger()
	f := &fixture{
		store:    store,
		notifier: &mocks.Notifier{},
		mirror:   &mocks.Mirror{},
		index:    &mocks.SearchIndex{},
	}
	f.tokens = NewTokenService(store.Users(), helpers.NewJWTManager("test-secret", 0), logger)
	f.users = NewUserService(store.Users(), store, f.tokens, f.notifier, logger)
	f.users.Mirror = f.mirror
	f.users.Index = f.index
	f.tasks = NewTaskService(store.Tasks(), f.index, logger)
	return f
}
