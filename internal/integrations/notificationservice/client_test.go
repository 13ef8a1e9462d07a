package notificationservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	"github.com/m04kA/PSY-AppointmentService/pkg/logger"
)

func testEvent() domain.AppointmentEvent {
	return domain.NewAppointmentEvent(domain.EventAppointmentCreated, &domain.Appointment{
		ID:             7,
		StudentID:      1,
		PsychologistID: 2,
		Date:           time.Date(2030, 3, 4, 0, 0, 0, 0, time.UTC),
		StartTime:      "10:00",
		Status:         domain.StatusPending,
	}, time.Date(2030, 3, 1, 12, 0, 0, 0, time.UTC))
}

func TestClient_Publish(t *testing.T) {
	var received Event
	var idempotencyKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/internal/events", r.URL.Path)
		idempotencyKey = r.Header.Get("Idempotency-Key")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	event := testEvent()
	client := NewClient(srv.URL, time.Second, logger.NewNop())

	require.NoError(t, client.Publish(context.Background(), event))
	assert.Equal(t, event.ID.String(), received.ID)
	assert.Equal(t, event.ID.String(), idempotencyKey)
	assert.Equal(t, "appointment.created", received.Type)
	assert.Equal(t, RelatedEntity{Kind: "appointment", ID: 7}, received.Related)
	assert.Equal(t, "2030-03-04", received.Date)
	assert.Equal(t, "10:00", received.StartTime)
	assert.Equal(t, "pending", received.Status)
}

func TestClient_PublishRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":400,"message":"bad event"}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL, time.Second, logger.NewNop()).Publish(context.Background(), testEvent())
	assert.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "bad event")
}

func TestClient_PublishServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, time.Second, logger.NewNop()).Publish(context.Background(), testEvent())
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_PublishDisabled(t *testing.T) {
	client := NewClient("", time.Second, logger.NewNop())
	assert.NoError(t, client.Publish(context.Background(), testEvent()))
}
