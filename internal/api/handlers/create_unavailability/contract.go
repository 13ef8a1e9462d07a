package create_unavailability

import (
	"context"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	"github.com/m04kA/PSY-AppointmentService/internal/service/schedule/models"
)

type ScheduleService interface {
	CreateUnavailability(ctx context.Context, caller domain.Caller, req *models.CreateUnavailabilityRequest) (*models.UnavailabilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
