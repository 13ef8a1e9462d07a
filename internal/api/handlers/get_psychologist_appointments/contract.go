package get_psychologist_appointments

import (
	"context"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	"github.com/m04kA/PSY-AppointmentService/internal/service/appointments/models"
)

type AppointmentService interface {
	GetPsychologistAppointments(ctx context.Context, caller domain.Caller, req *models.GetPsychologistAppointmentsRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
