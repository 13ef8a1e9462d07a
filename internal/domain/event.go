package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/PSY-AppointmentService/pkg/types"
)

// EntityKind тип сущности, на которую ссылается событие или сообщение
type EntityKind string

const (
	EntityAppointment EntityKind = "appointment"
	EntitySession     EntityKind = "session"
)

// RelatedEntity ссылка на сущность закрытого набора типов.
// Создается только через конструкторы или ParseRelatedEntity.
type RelatedEntity struct {
	kind EntityKind
	id   int64
}

// AppointmentRef ссылка на запись
func AppointmentRef(id int64) RelatedEntity {
	return RelatedEntity{kind: EntityAppointment, id: id}
}

// SessionRef ссылка на проведённую сессию
func SessionRef(id int64) RelatedEntity {
	return RelatedEntity{kind: EntitySession, id: id}
}

// ParseRelatedEntity восстанавливает ссылку из пары (kind, id)
func ParseRelatedEntity(kind string, id int64) (RelatedEntity, error) {
	switch EntityKind(kind) {
	case EntityAppointment:
		return AppointmentRef(id), nil
	case EntitySession:
		return SessionRef(id), nil
	}
	return RelatedEntity{}, fmt.Errorf("%w: %q", ErrUnknownEntityKind, kind)
}

func (r RelatedEntity) Kind() EntityKind { return r.kind }
func (r RelatedEntity) ID() int64        { return r.id }

// IsZero ссылка не задана
func (r RelatedEntity) IsZero() bool {
	return r.kind == ""
}

// EventType тип события жизненного цикла записи
type EventType string

const (
	EventAppointmentCreated   EventType = "appointment.created"
	EventAppointmentConfirmed EventType = "appointment.confirmed"
	EventAppointmentCancelled EventType = "appointment.cancelled"
	EventAppointmentCompleted EventType = "appointment.completed"
	EventAppointmentNoShow    EventType = "appointment.no_show"
)

// EventTypeForStatus тип события, соответствующий новому статусу
func EventTypeForStatus(status AppointmentStatus) EventType {
	switch status {
	case StatusConfirmed:
		return EventAppointmentConfirmed
	case StatusCancelled:
		return EventAppointmentCancelled
	case StatusCompleted:
		return EventAppointmentCompleted
	case StatusNoShow:
		return EventAppointmentNoShow
	default:
		return EventAppointmentCreated
	}
}

// AppointmentEvent событие для внешнего сервиса уведомлений
type AppointmentEvent struct {
	ID             uuid.UUID
	Type           EventType
	Related        RelatedEntity
	StudentID      int64
	PsychologistID int64
	Date           time.Time
	StartTime      types.TimeString
	Status         AppointmentStatus
	OccurredAt     time.Time
}

// NewAppointmentEvent собирает событие по записи
func NewAppointmentEvent(eventType EventType, a *Appointment, occurredAt time.Time) AppointmentEvent {
	return AppointmentEvent{
		ID:             uuid.New(),
		Type:           eventType,
		Related:        AppointmentRef(a.ID),
		StudentID:      a.StudentID,
		PsychologistID: a.PsychologistID,
		Date:           a.Date,
		StartTime:      a.StartTime,
		Status:         a.Status,
		OccurredAt:     occurredAt,
	}
}
