package notifier

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Dispatcher delivers confirmations in the background so a slow broker
// never holds up the booking request. Close waits for every delivery it
// started before closing the underlying notifier.
type Dispatcher struct {
	notifier Notifier
	timeout  time.Duration
	log      *zap.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(n Notifier, timeout time.Duration, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		notifier: n,
		timeout:  timeout,
		log:      log.With(zap.String("component", "notify_dispatcher")),
	}
}

// Dispatch sends event on its own goroutine. Failures and panics are logged.
// Events dispatched after Close are dropped.
func (d *Dispatcher) Dispatch(event BookingCreated) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.log.Warn("Dispatcher closed, dropping booking confirmation",
			zap.String("booking_id", event.BookingID.String()))
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		d.deliver(event)
	}()
}

func (d *Dispatcher) deliver(event BookingCreated) {
	defer func() {
		if p := recover(); p != nil {
			d.log.Error("Notifier panicked",
				zap.Any("panic", p),
				zap.String("booking_id", event.BookingID.String()),
			)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.notifier.BookingCreated(ctx, event); err != nil {
		d.log.Warn("Failed to send booking confirmation",
			zap.Error(err),
			zap.String("booking_id", event.BookingID.String()),
		)
	}
}

// Close stops accepting events, drains in-flight deliveries and closes the
// notifier.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	d.wg.Wait()
	return d.notifier.Close()
}
