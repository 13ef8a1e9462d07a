package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRelatedEntity(t *testing.T) {
	ref, err := ParseRelatedEntity("appointment", 12)
	assert.NoError(t, err)
	assert.Equal(t, EntityAppointment, ref.Kind())
	assert.Equal(t, int64(12), ref.ID())

	ref, err = ParseRelatedEntity("session", 3)
	assert.NoError(t, err)
	assert.Equal(t, SessionRef(3), ref)

	_, err = ParseRelatedEntity("message", 1)
	assert.ErrorIs(t, err, ErrUnknownEntityKind)
	assert.True(t, RelatedEntity{}.IsZero())
}

func TestNewAppointmentEvent(t *testing.T) {
	now := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)
	a := &Appointment{ID: 5, StudentID: 1, PsychologistID: 2, StartTime: "10:00", Status: StatusCancelled}

	event := NewAppointmentEvent(EventTypeForStatus(a.Status), a, now)

	assert.Equal(t, EventAppointmentCancelled, event.Type)
	assert.Equal(t, AppointmentRef(5), event.Related)
	assert.Equal(t, now, event.OccurredAt)
	assert.NotEqual(t, [16]byte{}, [16]byte(event.ID))
}
