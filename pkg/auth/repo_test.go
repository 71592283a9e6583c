package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"incubator/pkg/db"
	"incubator/pkg/testhelpers"
)

func TestPostgresRepository_FounderLifecycle(t *testing.T) {
	pool := testhelpers.NewTestPool(t, "../db/schema.sql")
	repo := NewPostgresRepository(pool)
	ctx := context.Background()

	created, err := repo.CreateFounder(ctx, Founder{
		FounderID:    uuid.NewString(),
		UserID:       uuid.NewString(),
		Name:         "Asha",
		Email:        "asha@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	byEmail, err := repo.GetFounderByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	require.Equal(t, created.FounderID, byEmail.FounderID)
	require.Equal(t, "hash", byEmail.PasswordHash)

	byID, err := repo.GetFounderByID(ctx, created.FounderID)
	require.NoError(t, err)
	require.Equal(t, created.Email, byID.Email)

	_, err = repo.CreateFounder(ctx, Founder{
		FounderID:    uuid.NewString(),
		UserID:       uuid.NewString(),
		Name:         "Dup",
		Email:        "asha@example.com",
		PasswordHash: "hash",
	})
	require.True(t, db.IsUniqueViolation(err))

	_, err = repo.GetFounderByEmail(ctx, "missing@example.com")
	require.ErrorIs(t, err, ErrFounderNotFound)
}

func TestPostgresRepository_AdminLifecycle(t *testing.T) {
	pool := testhelpers.NewTestPool(t, "../db/schema.sql")
	repo := NewPostgresRepository(pool)
	ctx := context.Background()

	adminID := uuid.NewString()
	created, err := repo.CreateAdmin(ctx, adminID, "root@example.com", "hash")
	require.NoError(t, err)
	require.Equal(t, adminID, created.AdminID)

	got, err := repo.GetAdminByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	require.Equal(t, adminID, got.AdminID)

	_, err = repo.GetAdminByID(ctx, uuid.NewString())
	require.ErrorIs(t, err, ErrAdminNotFound)
}

func TestPostgresRepository_StartupExists(t *testing.T) {
	pool := testhelpers.NewTestPool(t, "../db/schema.sql")
	repo := NewPostgresRepository(pool)
	ctx := context.Background()

	userID := testhelpers.CreateTestStartup(t, pool)

	exists, err := repo.StartupExists(ctx, userID)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.StartupExists(ctx, uuid.NewString())
	require.NoError(t, err)
	require.False(t, exists)
}
