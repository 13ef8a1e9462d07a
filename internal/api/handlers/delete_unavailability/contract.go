package delete_unavailability

import (
	"context"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
)

type ScheduleService interface {
	DeleteUnavailability(ctx context.Context, caller domain.Caller, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
