package domain

import (
	"fmt"
	"time"
)

// Значения по умолчанию
const (
	DefaultSlotGranularityMinutes = 60
	DefaultAppointmentMinutes     = 60
	DefaultRangeDays              = 1
)

// Ограничения бизнес-валидации
const (
	MinSlotGranularityMinutes = 5
	MaxSlotGranularityMinutes = 480 // 8 часов
	MinAppointmentMinutes     = 15
	MaxAppointmentMinutes     = 480
	MaxReasonLength           = 500
	MaxNotesLength            = 1000
	MaxBlockReasonLength      = 255
	MaxBulkBlocks             = 366
)

// Форматы даты и времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, занимающие время в расписании
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}

// InactiveStatuses статусы, освобождающие время
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
	StatusCompleted,
	StatusNoShow,
}

// DayLockKey ключ блокировки расписания психолога на дату.
// Одинаковый ключ используют бронирование и изменение расписания.
func DayLockKey(psychologistID int64, date time.Time) string {
	return fmt.Sprintf("psychologist-day:%d:%s", psychologistID, date.Format(DateFormat))
}

// DateOnly отбрасывает время, оставляя дату в UTC
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
