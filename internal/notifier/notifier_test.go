package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"computer-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func sampleEvent() BookingCreated {
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	return BookingCreated{
		BookingID:    uuid.New(),
		UserID:       uuid.New(),
		Username:     "alice",
		ComputerID:   uuid.New(),
		ComputerName: "PC-01",
		StartTime:    start,
		EndTime:      start.Add(time.Hour),
		UnlockCode:   "ABCD1234",
		CreatedAt:    start.Add(-time.Hour),
	}
}

func TestKafkaNotifier_Publishes(t *testing.T) {
	writer := &fakeWriter{}
	n := newKafkaNotifier(writer, "booking.created", zap.NewNop())
	event := sampleEvent()

	require.NoError(t, n.BookingCreated(context.Background(), event))
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, event.BookingID.String(), string(msg.Key))
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, "booking.created", string(msg.Headers[0].Value))

	var decoded BookingCreated
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "ABCD1234", decoded.UnlockCode)
	assert.Equal(t, event.BookingID, decoded.BookingID)

	require.NoError(t, n.Close())
	assert.True(t, writer.closed)
}

func TestKafkaNotifier_WriteError(t *testing.T) {
	writer := &fakeWriter{err: errors.New("leader not available")}
	n := newKafkaNotifier(writer, "booking.created", zap.NewNop())

	err := n.BookingCreated(context.Background(), sampleEvent())

	assert.ErrorContains(t, err, "leader not available")
}

func TestNew(t *testing.T) {
	n, err := New(utils.NotifierConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, n.BookingCreated(context.Background(), sampleEvent()))

	n, err = New(utils.NotifierConfig{Driver: "kafka", KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "booking.created"}, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, n.Close())

	_, err = New(utils.NotifierConfig{Driver: "kafka", KafkaTopic: "booking.created"}, zap.NewNop())
	assert.Error(t, err)

	_, err = New(utils.NotifierConfig{Driver: "smtp"}, zap.NewNop())
	assert.Error(t, err)
}
