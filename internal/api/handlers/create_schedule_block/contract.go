package create_schedule_block

import (
	"context"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	"github.com/m04kA/PSY-AppointmentService/internal/service/schedule/models"
)

type ScheduleService interface {
	CreateBlock(ctx context.Context, caller domain.Caller, req *models.CreateBlockRequest) (*models.BlockResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
