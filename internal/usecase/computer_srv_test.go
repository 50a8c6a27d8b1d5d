package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"computer-booking/internal/data/entity"
	"computer-booking/internal/dto/request"
	"computer-booking/pkg/apperror"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockReconciler struct {
	calls         int
	reconcileFunc func(ctx context.Context) (entity.ReconcileResult, error)
}

func (m *mockReconciler) ReconcileStatuses(ctx context.Context) (entity.ReconcileResult, error) {
	m.calls++
	if m.reconcileFunc != nil {
		return m.reconcileFunc(ctx)
	}
	return entity.ReconcileResult{}, nil
}

func TestListComputers_ServesAfterFailedReconcile(t *testing.T) {
	f := newFixture(t)
	reconciler := &mockReconciler{
		reconcileFunc: func(ctx context.Context) (entity.ReconcileResult, error) {
			return entity.ReconcileResult{}, errors.New("deadlock")
		},
	}
	computers := NewComputerService(f.repo, reconciler, f.clock, zap.NewNop())

	f.mock.ExpectQuery("FROM computers c").
		WithArgs(testNow).
		WillReturnRows(pgxmock.NewRows(append(append([]string{}, computerCols...),
			"is_currently_booked", "is_currently_in_use", "is_booked_future")).
			AddRow(uuid.New(), "PC-01", (*string)(nil), (*string)(nil), entity.ComputerStatusAvailable,
				(*string)(nil), (*string)(nil), testNow, true, false, true))

	list, err := computers.ListComputers(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, reconciler.calls)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsCurrentlyBooked)
	assert.True(t, list[0].IsBookedFuture)
	f.done(t)
}

func TestGetComputer_NotFound(t *testing.T) {
	f := newFixture(t)
	computers := NewComputerService(f.repo, &mockReconciler{}, f.clock, zap.NewNop())

	computerID := uuid.New()

	f.mock.ExpectQuery("FROM computers").
		WithArgs(computerID).
		WillReturnRows(pgxmock.NewRows(computerCols))

	_, err := computers.GetComputer(context.Background(), computerID)

	assertCode(t, err, apperror.CodeComputerNotFound)
	f.done(t)
}

func TestListComputerBookings_Range(t *testing.T) {
	f := newFixture(t)
	computers := NewComputerService(f.repo, &mockReconciler{}, f.clock, zap.NewNop())
	computerID := uuid.New()
	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	f.mock.ExpectQuery("FROM computers").
		WithArgs(computerID).
		WillReturnRows(computerRow(computerID, entity.ComputerStatusAvailable))
	f.mock.ExpectQuery("WHERE b.computer_id = \\$1").
		WithArgs(computerID, &from, &to).
		WillReturnRows(pgxmock.NewRows(detailCols))

	list, err := computers.ListComputerBookings(context.Background(), computerID,
		request.BookingRangeQuery{StartDate: "2026-03-10", EndDate: "2026-03-11"})

	require.NoError(t, err)
	assert.Empty(t, list)
	f.done(t)
}

func TestCleanupExpired(t *testing.T) {
	f := newFixture(t)
	reconciler := &mockReconciler{
		reconcileFunc: func(ctx context.Context) (entity.ReconcileResult, error) {
			return entity.ReconcileResult{Expired: 2}, nil
		},
	}
	computers := NewComputerService(f.repo, reconciler, f.clock, zap.NewNop())

	resp, err := computers.CleanupExpired(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Expired)
}
