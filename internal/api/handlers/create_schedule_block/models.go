package create_schedule_block

import (
	"fmt"
	"time"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	"github.com/m04kA/PSY-AppointmentService/internal/service/schedule/models"
	"github.com/m04kA/PSY-AppointmentService/pkg/types"
)

// BlockFields поля блока расписания в HTTP запросе
type BlockFields struct {
	Date        string  `json:"fecha" validate:"required"`       // "2025-10-15"
	StartTime   string  `json:"hora_inicio" validate:"required"` // "09:00"
	EndTime     string  `json:"hora_fin" validate:"required"`    // "13:00"
	IsAvailable *bool   `json:"disponible,omitempty"`            // По умолчанию true
	IsBlocked   bool    `json:"bloqueado,omitempty"`
	BlockReason *string `json:"motivo_bloqueo,omitempty" validate:"omitempty,max=255"`
}

// ToBlockInput парсит дату и время блока
func (f *BlockFields) ToBlockInput() (models.BlockInput, error) {
	date, err := time.Parse(domain.DateFormat, f.Date)
	if err != nil {
		return models.BlockInput{}, fmt.Errorf("fecha: %w", err)
	}

	start, err := types.NewTimeStringFromString(f.StartTime)
	if err != nil {
		return models.BlockInput{}, fmt.Errorf("hora_inicio: %w", err)
	}

	end, err := types.NewTimeStringFromString(f.EndTime)
	if err != nil {
		return models.BlockInput{}, fmt.Errorf("hora_fin: %w", err)
	}

	isAvailable := true
	if f.IsAvailable != nil {
		isAvailable = *f.IsAvailable
	}

	return models.BlockInput{
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		IsAvailable: isAvailable,
		IsBlocked:   f.IsBlocked,
		BlockReason: f.BlockReason,
	}, nil
}

// CreateBlockRequest HTTP request model
type CreateBlockRequest struct {
	PsychologistID int64 `json:"psychologist_id" validate:"required,gt=0"`
	BlockFields
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateBlockRequest) ToServiceRequest() (*models.CreateBlockRequest, error) {
	block, err := r.ToBlockInput()
	if err != nil {
		return nil, err
	}

	return &models.CreateBlockRequest{
		PsychologistID: r.PsychologistID,
		Block:          block,
	}, nil
}
