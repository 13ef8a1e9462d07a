package domain

import (
	"time"

	"github.com/m04kA/PSY-AppointmentService/pkg/types"
)

// AvailableSlot свободный интервал, доступный для записи
type AvailableSlot struct {
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
}

// DurationMinutes длительность слота
func (s AvailableSlot) DurationMinutes() int {
	return s.EndTime.Minutes() - s.StartTime.Minutes()
}
