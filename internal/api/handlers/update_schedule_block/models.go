package update_schedule_block

import (
	"fmt"
	"time"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	"github.com/m04kA/PSY-AppointmentService/internal/service/schedule/models"
	"github.com/m04kA/PSY-AppointmentService/pkg/types"
)

// UpdateBlockRequest HTTP request model
// Все поля опциональны - обновляются только переданные значения
type UpdateBlockRequest struct {
	Date        *string `json:"fecha,omitempty"`
	StartTime   *string `json:"hora_inicio,omitempty"`
	EndTime     *string `json:"hora_fin,omitempty"`
	IsAvailable *bool   `json:"disponible,omitempty"`
	IsBlocked   *bool   `json:"bloqueado,omitempty"`
	BlockReason *string `json:"motivo_bloqueo,omitempty" validate:"omitempty,max=255"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateBlockRequest) ToServiceRequest() (*models.UpdateBlockRequest, error) {
	req := &models.UpdateBlockRequest{
		IsAvailable: r.IsAvailable,
		IsBlocked:   r.IsBlocked,
		BlockReason: r.BlockReason,
	}

	if r.Date != nil {
		date, err := time.Parse(domain.DateFormat, *r.Date)
		if err != nil {
			return nil, fmt.Errorf("fecha: %w", err)
		}
		req.Date = &date
	}

	if r.StartTime != nil {
		start, err := types.NewTimeStringFromString(*r.StartTime)
		if err != nil {
			return nil, fmt.Errorf("hora_inicio: %w", err)
		}
		req.StartTime = &start
	}

	if r.EndTime != nil {
		end, err := types.NewTimeStringFromString(*r.EndTime)
		if err != nil {
			return nil, fmt.Errorf("hora_fin: %w", err)
		}
		req.EndTime = &end
	}

	return req, nil
}
