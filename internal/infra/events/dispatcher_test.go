package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/ClinicBookingService/internal/domain"
	"github.com/m04kA/ClinicBookingService/pkg/logger"
)

type stubWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *stubWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.messages = append(w.messages, msgs...)
	return w.err
}

func (w *stubWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func testAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:                "a-1",
		Date:              time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		StartTime:         "10:00",
		EndTime:           "11:00",
		Status:            domain.StatusPending,
		ServiceID:         "svc-1",
		ServiceName:       "Laser",
		ServiceCategoryID: "laser",
		CustomerName:      "Customer",
	}
}

func TestDispatcher_PublishesKeyedMessages(t *testing.T) {
	w := &stubWriter{}
	d := newDispatcher(w, "clinic.appointments", 10, logger.NewDiscard())

	d.Publish(context.Background(), NewAppointmentEvent(TypeAppointmentCreated, testAppointment(), "user-1"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "a-1", string(msg.Key))
	assert.True(t, w.closed)

	var ev Event
	require.NoError(t, json.Unmarshal(msg.Value, &ev))
	assert.Equal(t, TypeAppointmentCreated, ev.Type)
	assert.Equal(t, "2025-06-01", ev.Appointment.Date)
	assert.Equal(t, "laser", ev.Appointment.CategoryID)

	carrier := &headerCarrier{headers: msg.Headers}
	assert.Equal(t, TypeAppointmentCreated, carrier.Get("event_type"))
	assert.Equal(t, ev.ID, carrier.Get("event_id"))
}

func TestDispatcher_WriteErrorIsOnlyLogged(t *testing.T) {
	w := &stubWriter{err: errors.New("broker down")}
	d := newDispatcher(w, "clinic.appointments", 10, logger.NewDiscard())

	d.Publish(context.Background(), NewAppointmentEvent(TypeAppointmentCancelled, testAppointment(), ""))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, d.Close(ctx))
}

func TestDispatcher_DisabledWithoutBrokers(t *testing.T) {
	d := NewDispatcher(" , ", "clinic.appointments", 10, logger.NewDiscard())

	assert.NotPanics(t, func() {
		d.Publish(context.Background(), NewAppointmentEvent(TypeAppointmentCreated, testAppointment(), ""))
	})
	assert.NoError(t, d.Close(context.Background()))
}

func TestDispatcher_PublishAfterCloseIsDropped(t *testing.T) {
	w := &stubWriter{}
	d := newDispatcher(w, "clinic.appointments", 10, logger.NewDiscard())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))

	assert.NotPanics(t, func() {
		d.Publish(context.Background(), NewAppointmentEvent(TypeAppointmentUpdated, testAppointment(), "admin-1"))
	})
	assert.NoError(t, d.Close(ctx), "повторный Close")

	w.mu.Lock()
	defer w.mu.Unlock()
	assert.Empty(t, w.messages)
}

func TestSplitBrokers(t *testing.T) {
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, SplitBrokers(" kafka-1:9092, ,kafka-2:9092 "))
	assert.Empty(t, SplitBrokers(""))
}
