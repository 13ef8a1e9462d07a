package get_psychologist_appointments

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	"github.com/m04kA/PSY-AppointmentService/internal/service/appointments/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(
	psychologistID int64,
	fromStr string,
	toStr string,
	statusStr string,
	includeInactiveStr string,
) (*models.GetPsychologistAppointmentsRequest, error) {
	req := &models.GetPsychologistAppointmentsRequest{
		PsychologistID:  psychologistID,
		IncludeInactive: false, // По умолчанию только активные
	}

	if fromStr != "" {
		from, err := time.Parse(domain.DateFormat, fromStr)
		if err != nil {
			return nil, fmt.Errorf("invalid from value: %w", err)
		}
		req.From = &from
	}

	if toStr != "" {
		to, err := time.Parse(domain.DateFormat, toStr)
		if err != nil {
			return nil, fmt.Errorf("invalid to value: %w", err)
		}
		req.To = &to
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("invalid include_inactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
