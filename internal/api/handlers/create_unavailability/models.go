package create_unavailability

import (
	"fmt"
	"time"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	"github.com/m04kA/PSY-AppointmentService/internal/service/schedule/models"
	"github.com/m04kA/PSY-AppointmentService/pkg/types"
)

// CreateUnavailabilityRequest HTTP request model
type CreateUnavailabilityRequest struct {
	PsychologistID int64   `json:"psychologist_id" validate:"required,gt=0"`
	Date           string  `json:"fecha" validate:"required"`
	StartTime      string  `json:"hora_inicio" validate:"required"`
	EndTime        string  `json:"hora_fin" validate:"required"`
	Reason         *string `json:"motivo,omitempty" validate:"omitempty,max=255"`
}

func (r *CreateUnavailabilityRequest) ToServiceRequest() (*models.CreateUnavailabilityRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("fecha: %w", err)
	}

	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("hora_inicio: %w", err)
	}

	end, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("hora_fin: %w", err)
	}

	return &models.CreateUnavailabilityRequest{
		PsychologistID: r.PsychologistID,
		Date:           date,
		StartTime:      start,
		EndTime:        end,
		Reason:         r.Reason,
	}, nil
}
