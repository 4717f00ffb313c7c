package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"

	dbutils "hambax/db"
	"hambax/entity"
)

func newTestUser() entity.User {
	return entity.User{
		ID:           uuid.NewString(),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "$2a$10$fake-hash",
		Role:         entity.RoleRegularUser,
	}
}

func TestUsersRepository_Create_duplicateEmail(t *testing.T) {
	ctx := context.Background()

	db := dbutils.GetDb(t)
	repo := NewPostgresRepository(db)

	user := newTestUser()
	require.NoError(t, repo.Create(ctx, user))

	duplicate := newTestUser()
	duplicate.Email = user.Email
	err := repo.Create(ctx, duplicate)
	require.ErrorIs(t, err, entity.ErrConflict)
}

func TestUsersRepository_MarkVerified(t *testing.T) {
	ctx := context.Background()

	db := dbutils.GetDb(t)
	repo := NewPostgresRepository(db)

	user := newTestUser()
	require.NoError(t, repo.Create(ctx, user))

	stored, err := repo.GetByEmail(ctx, user.Email)
	require.NoError(t, err)
	require.False(t, stored.Verified)

	require.NoError(t, repo.MarkVerified(ctx, user.ID))

	stored, err = repo.GetByEmail(ctx, user.Email)
	require.NoError(t, err)
	require.True(t, stored.Verified)
}

func TestUsersRepository_Delete_freesEmail(t *testing.T) {
	ctx := context.Background()

	db := dbutils.GetDb(t)
	repo := NewPostgresRepository(db)

	user := newTestUser()
	require.NoError(t, repo.Create(ctx, user))
	require.NoError(t, repo.Delete(ctx, user.ID))

	_, err := repo.GetByEmail(ctx, user.Email)
	require.ErrorIs(t, err, entity.ErrNotFound)

	// the email is usable again
	again := newTestUser()
	again.Email = user.Email
	require.NoError(t, repo.Create(ctx, again))

	// unknown user is a no-op
	require.NoError(t, repo.Delete(ctx, uuid.NewString()))
}

func TestUsersRepository_GetByEmail_notFound(t *testing.T) {
	ctx := context.Background()

	db := dbutils.GetDb(t)
	repo := NewPostgresRepository(db)

	_, err := repo.GetByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, entity.ErrNotFound)

	err = repo.MarkVerified(ctx, uuid.NewString())
	require.ErrorIs(t, err, entity.ErrNotFound)
}
