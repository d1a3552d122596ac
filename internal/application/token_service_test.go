package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/task-manager-api/internal/domain/errs"
	"github.com/oksasatya/task-manager-api/pkg/helpers"
)

func TestTokenServiceIssueAndVerify(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	u, first, err := f.users.Register(ctx, RegisterInput{Name: "Jen", Email: "jen@example.com", Password: "red12345!"})
	require.NoError(t, err)

	second, err := f.tokens.Issue(ctx, u)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Equal(t, []string{first, second}, u.Tokens)

	got, err := f.tokens.Verify(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, []string{first, second}, got.Tokens, "stored list keeps issue order")
}

func TestTokenServiceVerifyFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	u, token, err := f.users.Register(ctx, RegisterInput{Name: "Jen", Email: "jen@example.com", Password: "red12345!"})
	require.NoError(t, err)

	forged, err := helpers.NewJWTManager("other-secret", 0).Generate(u.ID)
	require.NoError(t, err)
	ghost, err := f.tokens.JWT.Generate("00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	notListed, err := f.tokens.JWT.Generate(u.ID)
	require.NoError(t, err)

	tests := map[string]string{
		"empty":          "",
		"garbage":        "abc.def.ghi",
		"wrong secret":   forged,
		"deleted user":   ghost,
		"never recorded": notListed,
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := f.tokens.Verify(ctx, tok)
			assert.ErrorIs(t, err, errs.ErrUnauthenticated)
		})
	}

	_, err = f.tokens.Verify(ctx, token)
	assert.NoError(t, err)
}

func TestTokenServiceRevoke(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	u, a, err := f.users.Register(ctx, RegisterInput{Name: "Jen", Email: "jen@example.com", Password: "red12345!"})
	require.NoError(t, err)
	b, err := f.tokens.Issue(ctx, u)
	require.NoError(t, err)

	require.NoError(t, f.tokens.RevokeOne(ctx, u, a))
	require.NoError(t, f.tokens.RevokeOne(ctx, u, a), "revoking twice is a no-op")

	_, err = f.tokens.Verify(ctx, a)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = f.tokens.Verify(ctx, b)
	assert.NoError(t, err)

	require.NoError(t, f.tokens.RevokeAll(ctx, u))
	_, err = f.tokens.Verify(ctx, b)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Empty(t, u.Tokens)
}

func TestTokenServiceStoreFailureIsNotAuthError(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	_, token, err := f.users.Register(ctx, RegisterInput{Name: "Jen", Email: "jen@example.com", Password: "red12345!"})
	require.NoError(t, err)

	f.store.Fail = assert.AnError
	_, err = f.tokens.Verify(ctx, token)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, errs.ErrUnauthenticated)
}
