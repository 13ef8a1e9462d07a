package bulk_create_schedule

import (
	"context"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	"github.com/m04kA/PSY-AppointmentService/internal/service/schedule/models"
)

type ScheduleService interface {
	BulkCreate(ctx context.Context, caller domain.Caller, req *models.BulkCreateRequest) (*models.BlockListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
