package repository

import (
	"context"
	"testing"
	"time"

	"computer-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCols = []string{"id", "username", "password_hash", "fullname", "email", "role", "group_name", "max_concurrent_bookings", "created_at", "banned"}

func TestUserCreate_DuplicateUsername(t *testing.T) {
	mock, repo := newMockRepository(t)

	id := uuid.New()
	createdAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(id, "alice", "", "", (*string)(nil), entity.RoleUser, "", (*int)(nil), createdAt).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.User.Create(context.Background(), &entity.User{
		Base:     entity.Base{ID: id, CreatedAt: createdAt},
		Username: "alice",
		Role:     entity.RoleUser,
	})

	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserFindByIDForUpdate(t *testing.T) {
	mock, repo := newMockRepository(t)
	id := uuid.New()
	limit := 3

	mock.ExpectQuery("FROM users WHERE id = \\$1 FOR UPDATE").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(userCols).AddRow(
			id, "alice", "hash", "Alice", (*string)(nil), entity.RoleUser, "lab", &limit, time.Now(), false,
		))

	user, err := repo.User.FindByIDForUpdate(context.Background(), id)

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "lab", user.GroupName)
	assert.Nil(t, user.Email)
	require.NotNil(t, user.MaxConcurrentBookings)
	assert.Equal(t, 3, *user.MaxConcurrentBookings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserFindByUsername_NotFound(t *testing.T) {
	mock, repo := newMockRepository(t)

	mock.ExpectQuery("FROM users WHERE username").
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows(userCols))

	user, err := repo.User.FindByUsername(context.Background(), "ghost")

	require.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserList(t *testing.T) {
	mock, repo := newMockRepository(t)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM users ORDER BY created_at DESC").
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow(uuid.New(), "bob", "hash", "Bob", (*string)(nil), entity.RoleUser, "default", (*int)(nil), now, true).
			AddRow(uuid.New(), "alice", "hash", "Alice", (*string)(nil), entity.RoleAdmin, "default", (*int)(nil), now, false))

	users, err := repo.User.List(context.Background())

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.True(t, users[0].Banned)
	assert.True(t, users[1].IsAdmin())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserUpdate(t *testing.T) {
	mock, repo := newMockRepository(t)
	email := "alice@example.com"
	limit := 2
	user := &entity.User{
		Base:                  entity.Base{ID: uuid.New()},
		Fullname:              "Alice A.",
		Email:                 &email,
		Role:                  entity.RoleUser,
		GroupName:             "lab",
		MaxConcurrentBookings: &limit,
		Banned:                true,
	}

	mock.ExpectExec("UPDATE users").
		WithArgs(user.ID, "Alice A.", &email, entity.RoleUser, "lab", &limit, true).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	updated, err := repo.User.Update(context.Background(), user)

	require.NoError(t, err)
	assert.False(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserSetBannedAndDelete(t *testing.T) {
	mock, repo := newMockRepository(t)
	id := uuid.New()

	mock.ExpectExec("UPDATE users SET banned = \\$2 WHERE id = \\$1").
		WithArgs(id, true).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("DELETE FROM users WHERE id = \\$1").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	banned, err := repo.User.SetBanned(context.Background(), id, true)
	require.NoError(t, err)
	assert.True(t, banned)

	deleted, err := repo.User.Delete(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
