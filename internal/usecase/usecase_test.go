package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"computer-booking/internal/data/entity"
	"computer-booking/internal/data/repository"
	"computer-booking/internal/notifier"
	"computer-booking/pkg/apperror"
	"computer-booking/pkg/clock"
	"computer-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testNow is a Tuesday morning; bookings in tests start on the hour after it.
var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

var (
	bookingCols  = []string{"id", "user_id", "computer_id", "start_time", "end_time", "status", "created_at"}
	detailCols   = append(append([]string{}, bookingCols...), "username", "fullname", "computer_name")
	computerCols = []string{"id", "name", "description", "location", "status", "ip_address", "mac_address", "created_at"}
	userCols     = []string{"id", "username", "password_hash", "fullname", "email", "role", "group_name", "max_concurrent_bookings", "created_at", "banned"}
	groupCols    = []string{"group_name", "max_concurrent_bookings", "no_show_minutes"}
	settingCols  = []string{"key", "value"}
	sessionCols  = []string{"id", "booking_id", "unlock_code", "unlocked_at", "locked_at", "status"}
	countCols    = []string{"a", "b"}
)

type fakeNotifier struct {
	mu     sync.Mutex
	events chan notifier.BookingCreated
	err    error
	panics bool
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{events: make(chan notifier.BookingCreated, 4)}
}

func (f *fakeNotifier) BookingCreated(ctx context.Context, event notifier.BookingCreated) error {
	f.mu.Lock()
	err, panics := f.err, f.panics
	f.mu.Unlock()

	f.events <- event
	if panics {
		panic("notifier exploded")
	}
	return err
}

func (f *fakeNotifier) Close() error { return nil }

func (f *fakeNotifier) wait(t *testing.T) notifier.BookingCreated {
	t.Helper()
	select {
	case e := <-f.events:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was not called")
		return notifier.BookingCreated{}
	}
}

type fixture struct {
	mock     pgxmock.PgxPoolIface
	repo     *repository.Repository
	clock    *clock.Fake
	notifier *fakeNotifier
	booking  BookingService
	client   ClientService
	admin    AdminService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	log := zap.NewNop()
	repo := repository.NewRepository(mock, log)
	clk := clock.NewFake(testNow)
	notify := newFakeNotifier()
	config := utils.BookingConfig{MaxAdvanceDays: 7, NoShowEnabled: true, UnlockCodeLength: 8}
	dispatcher := notifier.NewDispatcher(notify, time.Second, log)
	t.Cleanup(func() { _ = dispatcher.Close() })

	return &fixture{
		mock:     mock,
		repo:     repo,
		clock:    clk,
		notifier: notify,
		booking:  NewBookingService(repo, dispatcher, clk, config, log),
		client:   NewClientService(repo, clk, log),
		admin:    NewAdminService(repo, clk, config, log),
	}
}

func (f *fixture) done(t *testing.T) {
	t.Helper()
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
}

func iso(t time.Time) string {
	return t.Format(time.RFC3339)
}

func assertCode(t *testing.T, err error, code string) *apperror.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperror.As(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func computerRow(id uuid.UUID, status entity.ComputerStatus) *pgxmock.Rows {
	return pgxmock.NewRows(computerCols).AddRow(
		id, "PC-01", (*string)(nil), (*string)(nil), status, (*string)(nil), (*string)(nil), testNow,
	)
}

func userRow(id uuid.UUID, maxBookings *int) *pgxmock.Rows {
	return pgxmock.NewRows(userCols).AddRow(
		id, "alice", "hash", "Alice", (*string)(nil), entity.RoleUser, entity.DefaultGroup, maxBookings, testNow, false,
	)
}

func userRowAs(id uuid.UUID, role entity.UserRole, banned bool) *pgxmock.Rows {
	return pgxmock.NewRows(userCols).AddRow(
		id, "alice", "hash", "Alice", (*string)(nil), role, entity.DefaultGroup, (*int)(nil), testNow, banned,
	)
}

func pgOverlapError() error {
	return &pgconn.PgError{Code: "23P01", ConstraintName: "bookings_no_overlap"}
}
