package change_appointment_status

import (
	"context"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	"github.com/m04kA/PSY-AppointmentService/internal/service/appointments/models"
)

type AppointmentService interface {
	Transition(ctx context.Context, caller domain.Caller, id int64, target domain.AppointmentStatus, reason *string) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
