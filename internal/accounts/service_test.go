package accounts

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-fontenele/commerce-api/internal/domain"
)

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()

	token, err := svc.Register(ctx, Registration{Name: "Ana", Email: "ana@example.com", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, "token-for-ana@example.com", token)

	stored, err := store.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Enabled)
	assert.Equal(t, "hashed:secreto123", stored.PasswordHash)

	_, err = svc.Register(ctx, Registration{Name: "Otra", Email: "ana@example.com", Password: "secreto456"})
	assert.True(t, errors.Is(err, domain.ErrEmailAlreadyExists))
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()

	_, err := svc.Register(ctx, Registration{Name: "Ana", Email: "ana@example.com", Password: "secreto123"})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		token, err := svc.Login(ctx, "ana@example.com", "secreto123")
		require.NoError(t, err)
		assert.Equal(t, "token-for-ana@example.com", token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "ana@example.com", "incorrecta")
		assert.True(t, errors.Is(err, domain.ErrAuthenticationFailed))
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "nadie@example.com", "secreto123")
		assert.True(t, errors.Is(err, domain.ErrAuthenticationFailed))
	})

	t.Run("disabled account", func(t *testing.T) {
		store.users["ana@example.com"].Enabled = false
		defer func() { store.users["ana@example.com"].Enabled = true }()

		_, err := svc.Login(ctx, "ana@example.com", "secreto123")
		assert.True(t, errors.Is(err, domain.ErrAuthenticationFailed))
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Register(ctx, Registration{Name: "Ana", Email: "ana@example.com", Password: "secreto123"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, Registration{Name: "Beto", Email: "beto@example.com", Password: "secreto123"})
	require.NoError(t, err)

	t.Run("email owned by another account", func(t *testing.T) {
		_, err := svc.Update(ctx, "ana@example.com", Changes{Name: "Ana", Email: "beto@example.com"})
		assert.True(t, errors.Is(err, domain.ErrEmailAlreadyExists))
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Update(ctx, "nadie@example.com", Changes{Name: "X", Email: "x@example.com"})
		assert.True(t, errors.Is(err, domain.ErrUserNotFound))
	})

	t.Run("changes name email and flag", func(t *testing.T) {
		disabled := false
		user, err := svc.Update(ctx, "ana@example.com", Changes{Name: "Ana Maria", Email: "anamaria@example.com", Enabled: &disabled})
		require.NoError(t, err)

		assert.Equal(t, "Ana Maria", user.Name)
		assert.Equal(t, "anamaria@example.com", user.Email)
		assert.False(t, user.Enabled)
		assert.Equal(t, "hashed:secreto123", user.PasswordHash)

		_, err = svc.Get(ctx, "ana@example.com")
		assert.True(t, errors.Is(err, domain.ErrUserNotFound))
	})

	t.Run("new password is hashed", func(t *testing.T) {
		user, err := svc.Update(ctx, "beto@example.com", Changes{Name: "Beto", Email: "beto@example.com", Password: "nuevaclave1"})
		require.NoError(t, err)
		assert.Equal(t, "hashed:nuevaclave1", user.PasswordHash)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Register(ctx, Registration{Name: "Ana", Email: "ana@example.com", Password: "secreto123"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "ana@example.com"))

	err = svc.Delete(ctx, "ana@example.com")
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
}
