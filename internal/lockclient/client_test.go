package lockclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"computer-booking/internal/dto/response"
	"computer-booking/pkg/apperror"
	"computer-booking/pkg/middleware"
	"computer-booking/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeActuator struct {
	mu       sync.Mutex
	unlocks  int
	locks    int
	lockErrs []error
	unlocked chan struct{}
}

func newFakeActuator() *fakeActuator {
	return &fakeActuator{unlocked: make(chan struct{}, 1)}
}

func (a *fakeActuator) Unlock(ctx context.Context) error {
	a.mu.Lock()
	a.unlocks++
	a.mu.Unlock()
	select {
	case a.unlocked <- struct{}{}:
	default:
	}
	return nil
}

// Lock consumes one queued error per call, then succeeds.
func (a *fakeActuator) Lock(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.locks++
	if len(a.lockErrs) > 0 {
		err := a.lockErrs[0]
		a.lockErrs = a.lockErrs[1:]
		return err
	}
	return nil
}

func (a *fakeActuator) counts() (int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.unlocks, a.locks
}

// fakeServer answers check-unlock with whatever booking is current.
type fakeServer struct {
	mu         sync.Mutex
	booking    *response.CheckUnlockBooking
	rejectCode bool
	calls      map[string]int
	keys       []string
}

func (s *fakeServer) setBooking(b *response.CheckUnlockBooking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.booking = b
}

func (s *fakeServer) count(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

func (s *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[r.URL.Path]++
	s.keys = append(s.keys, r.Header.Get(middleware.ClientKeyHeader))

	var body map[string]string
	_ = json.NewDecoder(r.Body).Decode(&body)

	switch r.URL.Path {
	case "/api/client/check-unlock":
		if s.booking == nil {
			utils.ResponseSuccess(w, response.CheckUnlockResponse{Message: "No active booking found"})
			return
		}
		utils.ResponseSuccess(w, response.CheckUnlockResponse{ShouldUnlock: true, Booking: s.booking})
	case "/api/client/unlock":
		if s.rejectCode || body["unlock_code"] != s.booking.UnlockCode {
			utils.ResponseError(w, http.StatusForbidden, apperror.CodeInvalidUnlock, "Invalid unlock code or booking time", nil)
			return
		}
		utils.ResponseSuccess(w, response.UnlockResponse{Success: true, EndTime: s.booking.EndTime})
	case "/api/client/lock":
		utils.ResponseSuccess(w, response.LockResponse{Success: true, Completed: 1})
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, srv *fakeServer, actuator Actuator) *Client {
	t.Helper()
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	return New(Config{
		ServerURL:  ts.URL + "/",
		ComputerID: "0b5e6f6e-5a4c-4d52-9f0a-2f4f0e7c1a11",
		APIKey:     "s3cret",
		Interval:   10 * time.Millisecond,
	}, actuator, zap.NewNop())
}

func sampleBooking(id string) *response.CheckUnlockBooking {
	return &response.CheckUnlockBooking{
		ID:         id,
		User:       "Alice",
		StartTime:  time.Now().Add(-time.Minute),
		EndTime:    time.Now().Add(time.Hour),
		UnlockCode: "ABCD1234",
	}
}

func TestPoll_UnlocksOncePerBooking(t *testing.T) {
	srv := &fakeServer{}
	actuator := newFakeActuator()
	client := newTestClient(t, srv, actuator)
	ctx := context.Background()

	require.NoError(t, client.Poll(ctx))
	assert.True(t, client.Locked())

	srv.setBooking(sampleBooking("b-1"))
	require.NoError(t, client.Poll(ctx))
	require.NoError(t, client.Poll(ctx))

	unlocks, locks := actuator.counts()
	assert.Equal(t, 1, unlocks)
	assert.Equal(t, 0, locks)
	assert.False(t, client.Locked())
	assert.Equal(t, 1, srv.count("/api/client/unlock"))
	assert.Contains(t, srv.keys, "s3cret")
}

func TestPoll_LocksWhenBookingEnds(t *testing.T) {
	srv := &fakeServer{}
	actuator := newFakeActuator()
	client := newTestClient(t, srv, actuator)
	ctx := context.Background()

	srv.setBooking(sampleBooking("b-1"))
	require.NoError(t, client.Poll(ctx))

	srv.setBooking(nil)
	require.NoError(t, client.Poll(ctx))

	_, locks := actuator.counts()
	assert.Equal(t, 1, locks)
	assert.True(t, client.Locked())
	assert.Equal(t, 1, srv.count("/api/client/lock"))
}

func TestPoll_FailedLockIsRetried(t *testing.T) {
	srv := &fakeServer{}
	actuator := newFakeActuator()
	actuator.lockErrs = []error{errors.New("screen locker busy")}
	client := newTestClient(t, srv, actuator)
	ctx := context.Background()

	srv.setBooking(sampleBooking("b-1"))
	require.NoError(t, client.Poll(ctx))

	srv.setBooking(nil)
	assert.Error(t, client.Poll(ctx))
	assert.False(t, client.Locked())

	require.NoError(t, client.Poll(ctx))
	assert.True(t, client.Locked())

	// Once locked, idle polls leave the machine alone.
	require.NoError(t, client.Poll(ctx))
	_, locks := actuator.counts()
	assert.Equal(t, 2, locks)
	assert.Equal(t, 2, srv.count("/api/client/lock"))
}

func TestPoll_NextBookingUnlocksAgain(t *testing.T) {
	srv := &fakeServer{}
	actuator := newFakeActuator()
	client := newTestClient(t, srv, actuator)
	ctx := context.Background()

	srv.setBooking(sampleBooking("b-1"))
	require.NoError(t, client.Poll(ctx))
	srv.setBooking(sampleBooking("b-2"))
	require.NoError(t, client.Poll(ctx))

	unlocks, _ := actuator.counts()
	assert.Equal(t, 2, unlocks)
}

func TestPoll_RejectedUnlockIsRetried(t *testing.T) {
	srv := &fakeServer{rejectCode: true}
	actuator := newFakeActuator()
	client := newTestClient(t, srv, actuator)
	ctx := context.Background()

	srv.setBooking(sampleBooking("b-1"))
	err := client.Poll(ctx)
	assert.True(t, IsServerError(err, apperror.CodeInvalidUnlock), "got %v", err)
	assert.True(t, client.Locked())

	srv.mu.Lock()
	srv.rejectCode = false
	srv.mu.Unlock()

	require.NoError(t, client.Poll(ctx))
	assert.False(t, client.Locked())
	assert.Equal(t, 2, srv.count("/api/client/unlock"))
}

func TestRun_LocksOnShutdown(t *testing.T) {
	srv := &fakeServer{}
	srv.setBooking(sampleBooking("b-1"))
	actuator := newFakeActuator()
	client := newTestClient(t, srv, actuator)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- client.Run(ctx) }()

	select {
	case <-actuator.unlocked:
	case <-time.After(2 * time.Second):
		t.Fatal("client never unlocked")
	}
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}

	_, locks := actuator.counts()
	assert.Equal(t, 1, locks)
	assert.True(t, client.Locked())
}
