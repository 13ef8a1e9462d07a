package get_psychologist_schedule

import (
	"fmt"
	"time"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	"github.com/m04kA/PSY-AppointmentService/internal/service/schedule/models"
)

// defaultPeriodDays период по умолчанию, если to не передан
const defaultPeriodDays = 30

// ToServiceRequest формирует запрос к сервису из query параметров.
// Без from период начинается с сегодняшнего дня.
func ToServiceRequest(psychologistID int64, fromStr, toStr string, now time.Time) (*models.GetScheduleRequest, error) {
	from := domain.DateOnly(now)
	if fromStr != "" {
		parsed, err := time.Parse(domain.DateFormat, fromStr)
		if err != nil {
			return nil, fmt.Errorf("invalid from value: %w", err)
		}
		from = parsed
	}

	to := from.AddDate(0, 0, defaultPeriodDays)
	if toStr != "" {
		parsed, err := time.Parse(domain.DateFormat, toStr)
		if err != nil {
			return nil, fmt.Errorf("invalid to value: %w", err)
		}
		to = parsed
	}

	return &models.GetScheduleRequest{
		PsychologistID: psychologistID,
		From:           from,
		To:             to,
	}, nil
}
