package repository

import (
	"context"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
// Lookups return errs.ErrNotFound when no row matches and Create/Update return
// errs.ErrConflict on a duplicate email.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id string) error

	// Token list
	AddToken(ctx context.Context, userID, token string) error
	RemoveToken(ctx context.Context, userID, token string) error
	ClearTokens(ctx context.Context, userID string) error

	// Avatar bytes are kept apart from the user row read path.
	SetAvatar(ctx context.Context, userID string, png []byte) error
	GetAvatar(ctx context.Context, userID string) ([]byte, error)
}
