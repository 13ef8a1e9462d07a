package bulk_create_schedule

import (
	"fmt"
	"time"

	createScheduleBlock "github.com/m04kA/PSY-AppointmentService/internal/api/handlers/create_schedule_block"
	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	"github.com/m04kA/PSY-AppointmentService/internal/service/schedule/models"
	"github.com/m04kA/PSY-AppointmentService/pkg/types"
)

// BulkCreateRequest HTTP request model
type BulkCreateRequest struct {
	PsychologistID int64                             `json:"psychologist_id" validate:"required,gt=0"`
	Blocks         []createScheduleBlock.BlockFields `json:"blocks,omitempty" validate:"max=366,dive"`
	Pattern        *WeeklyPattern                    `json:"patron,omitempty"`
}

// WeeklyPattern недельный шаблон: блок hora_inicio-hora_fin в каждый из dias_semana
// (0 - воскресенье, 6 - суббота) с desde по hasta включительно
type WeeklyPattern struct {
	From      string `json:"desde" validate:"required"`
	To        string `json:"hasta" validate:"required"`
	Weekdays  []int  `json:"dias_semana" validate:"required,min=1,max=7,dive,min=0,max=6"`
	StartTime string `json:"hora_inicio" validate:"required"`
	EndTime   string `json:"hora_fin" validate:"required"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *BulkCreateRequest) ToServiceRequest() (*models.BulkCreateRequest, error) {
	req := &models.BulkCreateRequest{
		PsychologistID: r.PsychologistID,
		Blocks:         make([]models.BlockInput, 0, len(r.Blocks)),
	}

	for i := range r.Blocks {
		block, err := r.Blocks[i].ToBlockInput()
		if err != nil {
			return nil, fmt.Errorf("blocks[%d]: %w", i, err)
		}
		req.Blocks = append(req.Blocks, block)
	}

	if r.Pattern != nil {
		pattern, err := r.Pattern.toDomain()
		if err != nil {
			return nil, fmt.Errorf("patron: %w", err)
		}
		req.Pattern = pattern
	}

	return req, nil
}

func (p *WeeklyPattern) toDomain() (*domain.WeeklyPattern, error) {
	from, err := time.Parse(domain.DateFormat, p.From)
	if err != nil {
		return nil, err
	}
	to, err := time.Parse(domain.DateFormat, p.To)
	if err != nil {
		return nil, err
	}
	start, err := types.NewTimeStringFromString(p.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := types.NewTimeStringFromString(p.EndTime)
	if err != nil {
		return nil, err
	}

	weekdays := make([]time.Weekday, 0, len(p.Weekdays))
	for _, d := range p.Weekdays {
		weekdays = append(weekdays, time.Weekday(d))
	}

	return &domain.WeeklyPattern{
		From:      from,
		To:        to,
		Weekdays:  weekdays,
		StartTime: start,
		EndTime:   end,
	}, nil
}
