package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracker/internal/core"
	"tracker/internal/storage"
)

func TestRegisterLoginLogout(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(storage.NewMemoryStore())

	session, err := svc.Register(ctx, "a@b.c", "Alice", "secret")
	require.NoError(t, err)
	assert.Len(t, session.ID, 9)
	assert.Equal(t, "a@b.c", session.Email)
	assert.Equal(t, "Alice", session.Name)

	// Registration opens a session.
	current, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.ID, current.ID)

	// Duplicate email rejected, case-insensitively.
	_, err = svc.Register(ctx, "A@B.C", "Other", "pw")
	assert.ErrorIs(t, err, ErrEmailTaken)

	require.NoError(t, svc.Logout(ctx))
	_, err = svc.Current(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	// Account survives logout.
	back, err := svc.Login(ctx, "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, session.ID, back.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(storage.NewMemoryStore())

	_, err := svc.Register(ctx, "a@b.c", "Alice", "secret")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "a@b.c", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@b.c", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(storage.NewMemoryStore())

	_, err := svc.Register(ctx, "not-an-email", "Alice", "pw")
	assert.ErrorIs(t, err, core.ErrEmptyEmail)
	_, err = svc.Register(ctx, "a@b.c", "", "pw")
	assert.ErrorIs(t, err, core.ErrEmptyName)
	_, err = svc.Register(ctx, "a@b.c", "Alice", "")
	assert.ErrorIs(t, err, core.ErrEmptyPassword)
}
