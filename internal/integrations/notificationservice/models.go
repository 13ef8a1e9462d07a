package notificationservice

import (
	"time"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
)

// Event модель события записи для NotificationService
type Event struct {
	ID             string        `json:"id"`
	Type           string        `json:"type"`
	Related        RelatedEntity `json:"related"`
	StudentID      int64         `json:"student_id"`
	PsychologistID int64         `json:"psychologist_id"`
	Date           string        `json:"date"`       // YYYY-MM-DD
	StartTime      string        `json:"start_time"` // HH:MM
	Status         string        `json:"status"`
	OccurredAt     time.Time     `json:"occurred_at"`
}

type RelatedEntity struct {
	Kind string `json:"kind"`
	ID   int64  `json:"id"`
}

// ErrorResponse модель ошибки от NotificationService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func toEvent(e domain.AppointmentEvent) Event {
	return Event{
		ID:   e.ID.String(),
		Type: string(e.Type),
		Related: RelatedEntity{
			Kind: string(e.Related.Kind()),
			ID:   e.Related.ID(),
		},
		StudentID:      e.StudentID,
		PsychologistID: e.PsychologistID,
		Date:           e.Date.Format(domain.DateFormat),
		StartTime:      e.StartTime.String(),
		Status:         string(e.Status),
		OccurredAt:     e.OccurredAt.UTC(),
	}
}
