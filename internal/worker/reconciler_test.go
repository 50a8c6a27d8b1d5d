package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"computer-booking/internal/data/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingReconciler struct {
	calls atomic.Int32
}

func (r *countingReconciler) ReconcileStatuses(ctx context.Context) (entity.ReconcileResult, error) {
	r.calls.Add(1)
	return entity.ReconcileResult{}, nil
}

func TestNewScheduler_BadSchedule(t *testing.T) {
	_, err := NewScheduler("every minute", &countingReconciler{}, zap.NewNop())
	assert.Error(t, err)
}

func TestScheduler_Runs(t *testing.T) {
	reconciler := &countingReconciler{}
	s, err := NewScheduler("* * * * * *", reconciler, zap.NewNop())
	require.NoError(t, err)

	s.Start()
	assert.Eventually(t, func() bool { return reconciler.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
