package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avelines/gradeboard/internal/database"
	"github.com/avelines/gradeboard/internal/database/testutil"
	apperrors "github.com/avelines/gradeboard/pkg/errors"
)

func TestUserServiceAuthenticateSeededAdmin(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())

	svc, err := NewUserService(db)
	require.NoError(t, err)
	ctx := context.Background()

	user, err := svc.Authenticate(ctx, database.DefaultAdminUsername, database.DefaultAdminPassword)
	require.NoError(t, err)
	require.Equal(t, database.DefaultAdminUsername, user.Username)
	require.NotNil(t, user.LastLoginAt)
}

func TestUserServiceAuthenticateRejectsBadCredentials(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())

	svc, err := NewUserService(db)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Authenticate(ctx, database.DefaultAdminUsername, "wrong")
	require.Error(t, err)
	require.Equal(t, apperrors.ErrInvalidCredentials.Code, apperrors.FromError(err).Code)

	_, err = svc.Authenticate(ctx, "ghost", "whatever")
	require.Error(t, err)
	require.Equal(t, apperrors.ErrInvalidCredentials.Code, apperrors.FromError(err).Code)
}

func TestUserServiceRegister(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	svc, err := NewUserService(db)
	require.NoError(t, err)
	ctx := context.Background()

	user, err := svc.Register(ctx, "teacher", "grades2026")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)

	authed, err := svc.Authenticate(ctx, "teacher", "grades2026")
	require.NoError(t, err)
	require.Equal(t, user.ID, authed.ID)
}

func TestUserServiceRegisterRejectsShortPasswords(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	svc, err := NewUserService(db)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "teacher", "short")
	require.Error(t, err)
	require.Equal(t, apperrors.ErrValidation.Code, apperrors.FromError(err).Code)
}

func TestUserServiceRegisterRejectsDuplicateUsernames(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	svc, err := NewUserService(db)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Register(ctx, "teacher", "grades2026")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "teacher", "grades2026")
	require.Error(t, err)
	require.Equal(t, apperrors.ErrValidation.Code, apperrors.FromError(err).Code)
}
