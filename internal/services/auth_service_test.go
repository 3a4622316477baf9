package services

import (
	"context"
	"testing"

	"restaurant_pos_backend/internal/models"
	"restaurant_pos_backend/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture() (AuthService, *fakeUserRepo, *utils.TokenManager) {
	repo := newFakeUserRepo()
	tokens := utils.NewTokenManager("test-secret", 0)
	return NewAuthService(repo, tokens), repo, tokens
}

func TestAuthService_RegisterDefaultsToWaiter(t *testing.T) {
	svc, _, tokens := newAuthFixture()

	resp, err := svc.Register(context.Background(), RegisterRequest{Username: "maria", FullName: "Maria W", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleWaiter, resp.User.Role)
	assert.True(t, resp.User.Active)
	assert.NotEqual(t, "secret1", resp.User.PasswordHash)

	claims, err := tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "maria", claims.Username)
	assert.Equal(t, "waiter", claims.Role)
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "maria", FullName: "Maria W", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterRequest{Username: "maria", FullName: "Other", Password: "secret2"})
	assert.ErrorIs(t, err, ErrUsernameExists)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	cases := []RegisterRequest{
		{Username: "", FullName: "X", Password: "secret1"},
		{Username: "x", FullName: " ", Password: "secret1"},
		{Username: "x", FullName: "X", Password: "123"},
		{Username: "x", FullName: "X", Password: "secret1", Role: "owner"},
	}
	for _, req := range cases {
		_, err := svc.Register(ctx, req)
		assert.ErrorIs(t, err, ErrValidation, "%+v", req)
	}
}

func TestAuthService_LoginFailuresAreIndistinguishable(t *testing.T) {
	svc, repo, _ := newAuthFixture()
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{Username: "chef", FullName: "Chef", Password: "secret1", Role: "chef"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterRequest{Username: "gone", FullName: "Gone", Password: "secret1"})
	require.NoError(t, err)
	inactive, _ := repo.GetByUsername(ctx, "gone")
	inactive.Active = false
	require.NoError(t, repo.Update(ctx, inactive))

	_, errUnknown := svc.Login(ctx, LoginRequest{Username: "nobody", Password: "secret1"})
	_, errWrong := svc.Login(ctx, LoginRequest{Username: "chef", Password: "wrong-pass"})
	_, errInactive := svc.Login(ctx, LoginRequest{Username: "gone", Password: "secret1"})

	for _, err := range []error{errUnknown, errWrong, errInactive} {
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Equal(t, ErrInvalidCredentials.Error(), err.Error())
	}

	ok, err := svc.Login(ctx, LoginRequest{Username: "chef", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, ok.User.ID)
	assert.NotEmpty(t, ok.Token)
}

func TestAuthService_GetProfile(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{Username: "ana", FullName: "Ana", Password: "secret1"})
	require.NoError(t, err)

	user, err := svc.GetProfile(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana", user.Username)

	_, err = svc.GetProfile(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}
