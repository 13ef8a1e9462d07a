package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, rules domain.BookingRules) error {
	if req.PsychologistID <= 0 {
		return fmt.Errorf("%w: psychologistID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.RangeDays < 1 || req.RangeDays > rules.MaxRangeDays {
		return fmt.Errorf("%w: range must be between 1 and %d days", ErrInvalidInput, rules.MaxRangeDays)
	}

	if req.GranularityMinutes < domain.MinSlotGranularityMinutes || req.GranularityMinutes > domain.MaxSlotGranularityMinutes {
		return fmt.Errorf("%w: granularity must be between %d and %d minutes",
			ErrInvalidInput, domain.MinSlotGranularityMinutes, domain.MaxSlotGranularityMinutes)
	}

	return nil
}

// resolveRange вычисляет фактический период [from, to].
// Период целиком в прошлом отклоняется, начало в прошлом сдвигается на сегодня.
// Конец, выходящий за горизонт бронирования, обрезается.
func resolveRange(date time.Time, rangeDays int, now time.Time, rules domain.BookingRules) (time.Time, time.Time, error) {
	today := domain.DateOnly(now)
	from := domain.DateOnly(date)
	to := from.AddDate(0, 0, rangeDays-1)

	if to.Before(today) {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}
	if from.Before(today) {
		from = today
	}

	if last, limited := rules.LastBookableDate(now); limited {
		if from.After(last) {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: can only book %d days in advance",
				ErrDateTooFarInFuture, rules.MaxAdvanceDays)
		}
		if to.After(last) {
			to = last
		}
	}

	return from, to, nil
}
