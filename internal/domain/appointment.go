package domain

import (
	"time"

	"github.com/m04kA/PSY-AppointmentService/pkg/types"
)

// AppointmentStatus статус записи на приём
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
	StatusNoShow    AppointmentStatus = "no_show"
)

// allowedTransitions допустимые переходы статусов.
// Из терминальных статусов (cancelled, completed, no_show) переходов нет.
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
}

// ParseAppointmentStatus конвертирует строку в статус с валидацией
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	status := AppointmentStatus(s)
	switch status {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return status, nil
	}
	return "", ErrUnknownStatus
}

// IsTerminal возвращает true для финальных статусов
func (s AppointmentStatus) IsTerminal() bool {
	_, hasExits := allowedTransitions[s]
	return !hasExits
}

// CanTransitionTo проверяет, разрешен ли переход в статус next
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsActive статус, занимающий интервал в расписании
func (s AppointmentStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Appointment запись студента на приём к психологу
type Appointment struct {
	ID              int64
	StudentID       int64
	PsychologistID  int64
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          AppointmentStatus
	Reason          string
	Notes           *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndTime время окончания приёма
func (a *Appointment) EndTime() (types.TimeString, error) {
	return a.StartTime.AddMinutes(a.DurationMinutes)
}

// Interval интервал, занимаемый приёмом
func (a *Appointment) Interval() (Interval, error) {
	end, err := a.EndTime()
	if err != nil {
		return Interval{}, err
	}
	return NewInterval(a.StartTime, end)
}

// IsActive запись занимает время психолога (pending или confirmed)
func (a *Appointment) IsActive() bool {
	return a.Status.IsActive()
}

// AppointmentFilter фильтр для выборки записей
type AppointmentFilter struct {
	PsychologistID  *int64             // Фильтр по психологу (опционально)
	StudentID       *int64             // Фильтр по студенту (опционально)
	StartDate       *time.Time         // Начало периода (опционально)
	EndDate         *time.Time         // Конец периода (опционально)
	Status          *AppointmentStatus // Конкретный статус (опционально)
	IncludeInactive bool               // Включать отменённые и завершённые записи
}

// IsSingleDay фильтр ограничен одной датой
func (f AppointmentFilter) IsSingleDay() bool {
	return f.StartDate != nil && f.EndDate != nil && f.StartDate.Equal(*f.EndDate)
}
