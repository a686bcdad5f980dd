package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookrental/internal/domain/user"
	"github.com/xiebiao/bookrental/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/bookrental/pkg/errors"
	"github.com/xiebiao/bookrental/pkg/jwt"
)

func TestRegisterLoginLogout(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	sessions := memory.NewSessionStore()
	jwtManager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)
	service := user.NewService(store.Users())

	info, err := NewRegisterUseCase(service).Execute(ctx, RegisterRequest{
		Email:    "alice@example.com",
		Password: "secret123",
		Nickname: "alice",
	})
	require.NoError(t, err)
	assert.False(t, info.IsStaff)

	_, err = NewLoginUseCase(service, jwtManager, sessions).Execute(ctx, LoginRequest{Email: "alice@example.com", Password: "wrong1234"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)

	resp, err := NewLoginUseCase(service, jwtManager, sessions).Execute(ctx, LoginRequest{
		Email:    "alice@example.com",
		Password: "secret123",
		ClientIP: "10.0.0.1",
	})
	require.NoError(t, err)
	assert.Equal(t, info.ID, resp.User.ID)

	session, err := sessions.GetSession(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", session["ip"])

	claims, err := jwtManager.ParseAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, info.ID, claims.UserID)

	me, err := NewGetProfileUseCase(store.Users()).Execute(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", me.Email)

	refreshed, err := NewRefreshTokenUseCase(store.Users(), jwtManager).Execute(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = NewRefreshTokenUseCase(store.Users(), jwtManager).Execute(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	require.NoError(t, NewLogoutUseCase(sessions, jwtManager).Execute(ctx, info.ID, resp.AccessToken))
	revoked, err := sessions.IsInBlacklist(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.True(t, revoked)
	_, err = sessions.GetSession(ctx, info.ID)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	service := user.NewService(memory.NewStore().Users())
	uc := NewRegisterUseCase(service)

	_, err := uc.Execute(ctx, RegisterRequest{Email: "bob@example.com", Password: "secret123", Nickname: "bob"})
	require.NoError(t, err)

	_, err = uc.Execute(ctx, RegisterRequest{Email: "bob@example.com", Password: "secret123", Nickname: "bob"})
	assert.ErrorIs(t, err, user.ErrEmailDuplicate)
}
