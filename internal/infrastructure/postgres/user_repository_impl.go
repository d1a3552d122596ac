package postgres

import (
	"context"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	"github.com/oksasatya/task-manager-api/internal/domain/errs"
	"github.com/oksasatya/task-manager-api/internal/domain/repository"
)

const userColumns = `
	u.id, u.name, u.email, u.age, u.password_hash, u.created_at, u.updated_at,
	ARRAY(SELECT t.token FROM user_tokens t WHERE t.user_id = u.id ORDER BY t.id)`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (id, name, email, age, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, u.ID, u.Name, u.Email, u.Age, u.PasswordHash)

	return mapError(row.Scan(&u.CreatedAt, &u.UpdatedAt))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !validID(id) {
		return nil, errs.ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users u WHERE u.email = $1`, email)
	return scanUser(row)
}

func scanUser(row interface{ Scan(dest ...any) error }) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Age, &u.PasswordHash,
		&u.CreatedAt, &u.UpdatedAt, &u.Tokens); err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		UPDATE users
		SET name = $1, email = $2, age = $3, password_hash = $4, updated_at = now()
		WHERE id = $5
		RETURNING updated_at
	`, u.Name, u.Email, u.Age, u.PasswordHash, u.ID)

	return mapError(row.Scan(&u.UpdatedAt))
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return errs.ErrNotFound
	}
	res, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *UserRepository) AddToken(ctx context.Context, userID, token string) error {
	_, err := r.db.Exec(ctx, `INSERT INTO user_tokens (user_id, token) VALUES ($1, $2)`, userID, token)
	return mapError(err)
}

func (r *UserRepository) RemoveToken(ctx context.Context, userID, token string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM user_tokens WHERE user_id = $1 AND token = $2`, userID, token)
	return mapError(err)
}

func (r *UserRepository) ClearTokens(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM user_tokens WHERE user_id = $1`, userID)
	return mapError(err)
}

// SetAvatar stores png for the user; a nil slice clears it.
func (r *UserRepository) SetAvatar(ctx context.Context, userID string, png []byte) error {
	if !validID(userID) {
		return errs.ErrNotFound
	}
	res, err := r.db.Exec(ctx, `UPDATE users SET avatar = $1, updated_at = now() WHERE id = $2`, png, userID)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *UserRepository) GetAvatar(ctx context.Context, userID string) ([]byte, error) {
	if !validID(userID) {
		return nil, errs.ErrNotFound
	}
	var png []byte
	if err := r.db.QueryRow(ctx, `SELECT avatar FROM users WHERE id = $1`, userID).Scan(&png); err != nil {
		return nil, mapError(err)
	}
	if len(png) == 0 {
		return nil, errs.ErrNotFound
	}
	return png, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
