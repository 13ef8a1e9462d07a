package create_appointment

import (
	"time"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	"github.com/m04kA/PSY-AppointmentService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	Caller          domain.Caller    // Кто создает запись
	StudentID       int64            // Студент; для студента можно не указывать (0)
	PsychologistID  int64            // ID психолога
	Date            time.Time        // Дата приёма (без времени)
	StartTime       types.TimeString // Время начала (например, "10:00")
	DurationMinutes int              // Длительность, 0 - по умолчанию (60)
	Reason          string           // Причина обращения
	Notes           *string          // Заметки (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64
	StudentID       int64
	PsychologistID  int64
	Date            time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Status          string
	Reason          string
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
