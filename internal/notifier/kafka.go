package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// messageWriter is the part of *kafka.Writer the notifier uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaNotifier struct {
	writer messageWriter
	topic  string
	log    *zap.Logger
}

// NewKafkaNotifier publishes BookingCreated events keyed by booking ID.
func NewKafkaNotifier(brokers []string, topic string, log *zap.Logger) (Notifier, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka notifier: at least one broker is required")
	}
	if topic == "" {
		return nil, errors.New("kafka notifier: topic cannot be empty")
	}

	logger := log.With(zap.String("notifier", "kafka"), zap.String("topic", topic))
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		BatchTimeout: 50 * time.Millisecond,
		Logger:       kafka.LoggerFunc(func(string, ...any) {}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			logger.Error(fmt.Sprintf(msg, args...))
		}),
	}

	return newKafkaNotifier(writer, topic, logger), nil
}

func newKafkaNotifier(writer messageWriter, topic string, log *zap.Logger) *kafkaNotifier {
	return &kafkaNotifier{writer: writer, topic: topic, log: log}
}

func (n *kafkaNotifier) BookingCreated(ctx context.Context, event BookingCreated) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal booking event %s: %w", event.BookingID, err)
	}

	msg := kafka.Message{
		Key:   []byte(event.BookingID.String()),
		Value: payload,
		Time:  event.CreatedAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("booking.created")},
		},
	}

	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish booking event %s: %w", event.BookingID, err)
	}

	n.log.Debug("Booking event published", zap.String("booking_id", event.BookingID.String()))
	return nil
}

func (n *kafkaNotifier) Close() error {
	return n.writer.Close()
}
