// Package notifier delivers booking confirmations. Delivery is best effort:
// callers log failures and never surface them to the user.
package notifier

import (
	"context"
	"fmt"
	"time"

	"computer-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingCreated is the confirmation payload for a new booking.
type BookingCreated struct {
	BookingID    uuid.UUID `json:"booking_id"`
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username"`
	Email        *string   `json:"email,omitempty"`
	ComputerID   uuid.UUID `json:"computer_id"`
	ComputerName string    `json:"computer_name"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	UnlockCode   string    `json:"unlock_code"`
	CreatedAt    time.Time `json:"created_at"`
}

type Notifier interface {
	BookingCreated(ctx context.Context, event BookingCreated) error
	Close() error
}

// New picks the notifier named by config.Driver.
func New(config utils.NotifierConfig, log *zap.Logger) (Notifier, error) {
	switch config.Driver {
	case "", "log":
		return NewLogNotifier(log), nil
	case "kafka":
		return NewKafkaNotifier(config.KafkaBrokers, config.KafkaTopic, log)
	default:
		return nil, fmt.Errorf("unknown notifier driver %q", config.Driver)
	}
}

type logNotifier struct {
	log *zap.Logger
}

// NewLogNotifier records confirmations in the application log.
func NewLogNotifier(log *zap.Logger) Notifier {
	return &logNotifier{log: log.With(zap.String("notifier", "log"))}
}

func (n *logNotifier) BookingCreated(ctx context.Context, event BookingCreated) error {
	n.log.Info("Booking confirmation",
		zap.String("booking_id", event.BookingID.String()),
		zap.String("username", event.Username),
		zap.String("computer", event.ComputerName),
		zap.Time("start_time", event.StartTime),
		zap.Time("end_time", event.EndTime),
	)
	return nil
}

func (n *logNotifier) Close() error {
	return nil
}
