package usecase

import (
	"context"
	"testing"

	"computer-booking/internal/data/entity"
	"computer-booking/internal/dto/request"
	"computer-booking/pkg/apperror"
	"computer-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthFixture(t *testing.T) (*fixture, AuthService, *utils.TokenManager) {
	f := newFixture(t)
	tokens := utils.NewTokenManager(utils.JWTConfig{Secret: "test-secret", ExpiryHours: 1}, f.clock)
	return f, NewAuthService(f.repo, tokens, f.clock, zap.NewNop()), tokens
}

func TestLogin(t *testing.T) {
	f, auth, tokens := newAuthFixture(t)
	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)
	userID := uuid.New()

	f.mock.ExpectQuery("FROM users WHERE username").
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows(userCols).AddRow(
			userID, "alice", hash, "Alice", (*string)(nil), entity.RoleAdmin, entity.DefaultGroup, (*int)(nil), testNow, false,
		))

	resp, err := auth.Login(context.Background(), &request.LoginRequest{Username: "alice", Password: "secret123"})

	require.NoError(t, err)
	claims, err := tokens.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	f.done(t)
}

func TestLogin_BannedUser(t *testing.T) {
	f, auth, _ := newAuthFixture(t)
	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)

	f.mock.ExpectQuery("FROM users WHERE username").
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows(userCols).AddRow(
			uuid.New(), "alice", hash, "Alice", (*string)(nil), entity.RoleUser, entity.DefaultGroup, (*int)(nil), testNow, true,
		))

	resp, err := auth.Login(context.Background(), &request.LoginRequest{Username: "alice", Password: "secret123"})

	appErr := assertCode(t, err, apperror.CodeAccountBanned)
	assert.Equal(t, 403, appErr.HTTPStatus)
	assert.Equal(t, "Account is banned", appErr.Message)
	assert.Nil(t, resp)
	f.done(t)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f, auth, _ := newAuthFixture(t)
	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)

	f.mock.ExpectQuery("FROM users WHERE username").
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows(userCols).AddRow(
			uuid.New(), "alice", hash, "Alice", (*string)(nil), entity.RoleUser, entity.DefaultGroup, (*int)(nil), testNow, false,
		))
	f.mock.ExpectQuery("FROM users WHERE username").
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows(userCols))

	_, err = auth.Login(context.Background(), &request.LoginRequest{Username: "alice", Password: "wrong-pass"})
	assertCode(t, err, apperror.CodeInvalidCredentials)

	_, err = auth.Login(context.Background(), &request.LoginRequest{Username: "ghost", Password: "secret123"})
	assertCode(t, err, apperror.CodeInvalidCredentials)
	f.done(t)
}

func TestRegister_UsernameTaken(t *testing.T) {
	f, auth, _ := newAuthFixture(t)

	f.mock.ExpectExec("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), "alice", pgxmock.AnyArg(), "Alice", (*string)(nil),
			entity.RoleUser, entity.DefaultGroup, (*int)(nil), testNow).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := auth.Register(context.Background(), &request.RegisterRequest{
		Username: "alice",
		Password: "secret123",
		Fullname: "Alice",
	})

	assertCode(t, err, apperror.CodeValidation)
	f.done(t)
}

func TestEnsureAdmin_ExistingUserIsKept(t *testing.T) {
	f, auth, _ := newAuthFixture(t)

	f.mock.ExpectQuery("FROM users WHERE username").
		WithArgs("root").
		WillReturnRows(pgxmock.NewRows(userCols).AddRow(
			uuid.New(), "root", "hash", "Root", (*string)(nil), entity.RoleAdmin, entity.DefaultGroup, (*int)(nil), testNow, false,
		))

	require.NoError(t, auth.EnsureAdmin(context.Background(), "root", "secret123"))
	f.done(t)
}

func TestEnsureAdmin_Creates(t *testing.T) {
	f, auth, _ := newAuthFixture(t)

	f.mock.ExpectQuery("FROM users WHERE username").
		WithArgs("root").
		WillReturnRows(pgxmock.NewRows(userCols))
	f.mock.ExpectExec("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), "root", pgxmock.AnyArg(), "Administrator", (*string)(nil),
			entity.RoleAdmin, entity.DefaultGroup, (*int)(nil), testNow).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, auth.EnsureAdmin(context.Background(), "root", "secret123"))
	f.done(t)
}

func TestGetProfile(t *testing.T) {
	f := newFixture(t)
	users := NewUserService(f.repo, zap.NewNop())
	userID := uuid.New()
	override := 2

	f.mock.ExpectQuery("FROM users WHERE id").
		WithArgs(userID).
		WillReturnRows(userRow(userID, &override))
	f.mock.ExpectQuery("FROM group_limits").
		WithArgs(entity.DefaultGroup).
		WillReturnRows(pgxmock.NewRows(groupCols).AddRow(entity.DefaultGroup, 1, 15))
	f.mock.ExpectQuery("WHERE user_id = \\$1 AND status IN").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows(bookingCols).AddRow(
			uuid.New(), userID, uuid.New(), at(10, 0), at(10, 45), entity.BookingStatusPending, testNow,
		))

	profile, err := users.GetProfile(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, 2, profile.EffectiveMaxBookings)
	assert.Equal(t, 4, profile.MaxSlots)
	assert.Equal(t, 2, profile.UsedSlots)
	f.done(t)
}
