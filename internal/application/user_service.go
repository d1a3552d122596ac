package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	"github.com/oksasatya/task-manager-api/internal/domain/errs"
	repo "github.com/oksasatya/task-manager-api/internal/domain/repository"
	"github.com/oksasatya/task-manager-api/pkg/helpers"
)

var (
	ErrInvalidCredentials = errors.New("unable to login")
	ErrEmailTaken         = fmt.Errorf("%w: email already in use", errs.ErrConflict)
)

type UserService struct {
	Users      repo.UserRepository
	Tx         repo.Transactor
	Tokens     *TokenService
	Notifier   Notifier
	Mirror     repo.AvatarMirror    // optional
	Index      repo.TaskSearchIndex // optional
	AvatarSize int
	Logger     *logrus.Logger
}

func NewUserService(users repo.UserRepository, tx repo.Transactor, tokens *TokenService, notifier Notifier, logger *logrus.Logger) *UserService {
	return &UserService{
		Users:      users,
		Tx:         tx,
		Tokens:     tokens,
		Notifier:   notifier,
		AvatarSize: 250,
		Logger:     logger,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Age      int
}

// Register creates the account, issues its first token and queues the welcome email.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, string, error) {
	if err := entity.ValidatePassword(in.Password); err != nil {
		return nil, "", err
	}
	u := &entity.User{
		ID:    uuid.NewString(),
		Name:  in.Name,
		Email: in.Email,
		Age:   in.Age,
	}
	u.Normalize()

	hash, err := helpers.HashPassword(entity.NormalizePassword(in.Password))
	if err != nil {
		return nil, "", err
	}
	u.PasswordHash = hash
	if err := u.Validate(); err != nil {
		return nil, "", err
	}

	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.Tokens.Issue(ctx, u)
	if err != nil {
		return nil, "", err
	}
	s.Notifier.Welcome(u)
	return u, token, nil
}

// Login checks credentials and issues a new token. Unknown email and wrong password
// are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	u, err := s.Users.GetByEmail(ctx, entity.NormalizeEmail(email))
	if errors.Is(err, errs.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, entity.NormalizePassword(password)) {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.Tokens.Issue(ctx, u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *UserService) Logout(ctx context.Context, u *entity.User, token string) error {
	return s.Tokens.RevokeOne(ctx, u, token)
}

func (s *UserService) LogoutAll(ctx context.Context, u *entity.User) error {
	return s.Tokens.RevokeAll(ctx, u)
}

// UpdateProfile applies a whitelisted partial update to the authenticated user.
// current is not modified when the update fails.
func (s *UserService) UpdateProfile(ctx context.Context, current *entity.User, body []byte) (*entity.User, error) {
	p, err := DecodePatch(body, UserUpdatableFields)
	if err != nil {
		return nil, err
	}

	next := *current
	if v, ok, err := p.String("name"); err != nil {
		return nil, err
	} else if ok {
		next.Name = v
	}
	if v, ok, err := p.String("email"); err != nil {
		return nil, err
	} else if ok {
		next.Email = v
	}
	if v, ok, err := p.Int("age"); err != nil {
		return nil, err
	} else if ok {
		next.Age = v
	}
	if v, ok, err := p.String("password"); err != nil {
		return nil, err
	} else if ok {
		if err := entity.ValidatePassword(v); err != nil {
			return nil, err
		}
		plain := entity.NormalizePassword(v)
		// re-hash only when the password actually changed
		if !helpers.CompareHashAndPassword(current.PasswordHash, plain) {
			hash, err := helpers.HashPassword(plain)
			if err != nil {
				return nil, err
			}
			next.PasswordHash = hash
		}
	}

	next.Normalize()
	if err := next.Validate(); err != nil {
		return nil, err
	}
	if err := s.Users.Update(ctx, &next); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &next, nil
}

// DeleteAccount removes the user and every task they own in one transaction.
func (s *UserService) DeleteAccount(ctx context.Context, u *entity.User) error {
	var removed int64
	err := s.Tx.WithinTx(ctx, func(ctx context.Context, users repo.UserRepository, tasks repo.TaskRepository) error {
		n, err := tasks.DeleteByOwner(ctx, u.ID)
		if err != nil {
			return fmt.Errorf("delete tasks: %w", err)
		}
		removed = n
		return users.Delete(ctx, u.ID)
	})
	if err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "tasks_deleted": removed}).Info("account deleted")
	}

	if s.Index != nil {
		if err := s.Index.DeleteByOwner(ctx, u.ID); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es cleanup failed")
		}
	}
	if s.Mirror != nil {
		if err := s.Mirror.Remove(ctx, u.ID); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("avatar mirror cleanup failed")
		}
	}
	s.Notifier.Farewell(u)
	return nil
}

// SetAvatar validates the upload, normalizes it to a square PNG and stores it.
// It returns the mirror URL when a mirror is configured.
func (s *UserService) SetAvatar(ctx context.Context, u *entity.User, filename string, data []byte) (string, error) {
	if err := helpers.CheckImageFilename(filename); err != nil {
		return "", errs.Invalid("avatar", err.Error())
	}
	png, err := helpers.NormalizeAvatar(data, s.AvatarSize)
	if err != nil {
		if errors.Is(err, helpers.ErrNotAnImage) || errors.Is(err, helpers.ErrImageUndecoded) {
			return "", errs.Invalid("avatar", err.Error())
		}
		return "", err
	}
	if err := s.Users.SetAvatar(ctx, u.ID, png); err != nil {
		return "", err
	}

	if s.Mirror == nil {
		return "", nil
	}
	url, err := s.Mirror.Put(ctx, u.ID, png)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("avatar mirror upload failed")
		}
		return "", nil
	}
	return url, nil
}

func (s *UserService) ClearAvatar(ctx context.Context, u *entity.User) error {
	if err := s.Users.SetAvatar(ctx, u.ID, nil); err != nil {
		return err
	}
	if s.Mirror != nil {
		if err := s.Mirror.Remove(ctx, u.ID); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("avatar mirror cleanup failed")
		}
	}
	return nil
}

// Avatar returns the stored PNG, or errs.ErrNotFound for a missing user or avatar.
func (s *UserService) Avatar(ctx context.Context, userID string) ([]byte, error) {
	return s.Users.GetAvatar(ctx, userID)
}
