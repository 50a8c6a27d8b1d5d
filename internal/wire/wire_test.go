package wire

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"computer-booking/internal/data/entity"
	"computer-booking/internal/data/repository"
	"computer-booking/internal/notifier"
	"computer-booking/pkg/clock"
	"computer-booking/pkg/middleware"
	"computer-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T) (pgxmock.PgxPoolIface, *App, *utils.TokenManager) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	config := &utils.Config{
		JWT:     utils.JWTConfig{Secret: "test-secret", ExpiryHours: 1},
		Booking: utils.BookingConfig{MaxAdvanceDays: 7, UnlockCodeLength: 8},
		Client:  utils.ClientConfig{APIKey: "s3cret"},
	}
	log := zap.NewNop()
	repo := repository.NewRepository(mock, log)
	dispatcher := notifier.NewDispatcher(notifier.NewLogNotifier(log), time.Second, log)
	t.Cleanup(func() { _ = dispatcher.Close() })
	app := Wiring(repo, dispatcher, clock.Real(), config, log)

	return mock, app, utils.NewTokenManager(config.JWT, clock.Real())
}

func TestHealth(t *testing.T) {
	mock, app, _ := newTestApp(t)

	mock.ExpectPing()
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoutes_RequireToken(t *testing.T) {
	_, app, _ := newTestApp(t)

	for _, path := range []string{"/api/bookings", "/api/bookings/my-bookings", "/api/computers", "/api/user/profile"} {
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestClientRoutes_RequireKey(t *testing.T) {
	_, app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/client/check-unlock", strings.NewReader(`{"computer_id":"x"}`))
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/client/check-unlock", strings.NewReader(`{"computer_id":"x"}`))
	req.Header.Set(middleware.ClientKeyHeader, "s3cret")
	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

var userCols = []string{
	"id", "username", "password_hash", "fullname", "email", "role", "group_name", "max_concurrent_bookings", "created_at", "banned",
}

func bearer(t *testing.T, tokens *utils.TokenManager, userID uuid.UUID) string {
	t.Helper()
	token, _, err := tokens.Generate(userID, "user")
	require.NoError(t, err)
	return "Bearer " + token
}

func TestCleanupExpired_AnyAuthenticatedUser(t *testing.T) {
	mock, app, tokens := newTestApp(t)

	mock.ExpectBegin()
	mock.ExpectQuery("WITH completed AS").
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"completed", "locked"}).AddRow(int64(0), int64(0)))
	mock.ExpectExec("SET status = 'cancelled'").
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec("SET status = 'active'").
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectCommit()

	req := httptest.NewRequest(http.MethodPost, "/api/computers/cleanup-expired", nil)
	req.Header.Set("Authorization", bearer(t, tokens, uuid.New()))
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())

	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/computers/cleanup-expired", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutes_RejectNonAdmin(t *testing.T) {
	mock, app, tokens := newTestApp(t)
	userID := uuid.New()

	mock.ExpectQuery("FROM users WHERE id").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows(userCols).AddRow(
			userID, "alice", "hash", "Alice", (*string)(nil), entity.RoleUser, entity.DefaultGroup, (*int)(nil), time.Now(), false,
		))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	req.Header.Set("Authorization", bearer(t, tokens, userID))
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())

	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/users", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
