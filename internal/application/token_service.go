package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	"github.com/oksasatya/task-manager-api/internal/domain/errs"
	repo "github.com/oksasatya/task-manager-api/internal/domain/repository"
	"github.com/oksasatya/task-manager-api/pkg/helpers"
)

var ErrInvalidToken = fmt.Errorf("%w: invalid token", errs.ErrUnauthenticated)

// TokenService issues bearer tokens and checks them against the owner's active token list.
// A signature alone is never enough: logout removes the token from the list and that
// makes it unusable even though it still verifies.
type TokenService struct {
	Users  repo.UserRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewTokenService(users repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *TokenService {
	return &TokenService{Users: users, JWT: jwt, Logger: logger}
}

// Issue signs a token for u, appends it to the stored token list and to u.Tokens.
func (s *TokenService) Issue(ctx context.Context, u *entity.User) (string, error) {
	token, err := s.JWT.Generate(u.ID)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	if err := s.Users.AddToken(ctx, u.ID, token); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	u.Tokens = append(u.Tokens, token)
	return token, nil
}

// Verify returns the token's user when the signature is valid, the user exists and
// the token is still in that user's list.
func (s *TokenService) Verify(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	claims, err := s.JWT.Parse(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("load token owner: %w", err)
	}
	if !u.HasToken(token) {
		return nil, ErrInvalidToken
	}
	return u, nil
}

// RevokeOne removes a single token. Revoking an absent token is a no-op.
func (s *TokenService) RevokeOne(ctx context.Context, u *entity.User, token string) error {
	if err := s.Users.RemoveToken(ctx, u.ID, token); err != nil {
		return err
	}
	kept := u.Tokens[:0]
	for _, t := range u.Tokens {
		if t != token {
			kept = append(kept, t)
		}
	}
	u.Tokens = kept
	return nil
}

// RevokeAll empties the user's token list.
func (s *TokenService) RevokeAll(ctx context.Context, u *entity.User) error {
	if err := s.Users.ClearTokens(ctx, u.ID); err != nil {
		return err
	}
	u.Tokens = nil
	return nil
}
