package create_appointment

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Caller.UserID <= 0 {
		return fmt.Errorf("%w: caller is required", ErrInvalidInput)
	}

	if req.PsychologistID <= 0 {
		return fmt.Errorf("%w: psychologistID must be positive", ErrInvalidInput)
	}

	if req.StudentID < 0 {
		return fmt.Errorf("%w: studentID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	// Валидируем формат времени
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.DurationMinutes < domain.MinAppointmentMinutes || req.DurationMinutes > domain.MaxAppointmentMinutes {
		return fmt.Errorf("%w: duration must be between %d and %d minutes",
			ErrInvalidInput, domain.MinAppointmentMinutes, domain.MaxAppointmentMinutes)
	}

	// Приём должен закончиться не позже 24:00
	if _, err := req.StartTime.AddMinutes(req.DurationMinutes); err != nil {
		return fmt.Errorf("%w: appointment must end by 24:00", ErrInvalidInput)
	}

	if strings.TrimSpace(req.Reason) == "" {
		return fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(req.Reason) > domain.MaxReasonLength {
		return fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// resolveBooking определяет студента и начальный статус записи по вызывающему.
// Студент записывается сам и получает pending, психолог (в свой календарь) и администратор
// записывают студента сразу в confirmed.
func resolveBooking(req *Request) (int64, domain.AppointmentStatus, error) {
	caller := req.Caller

	switch {
	case caller.IsStudent():
		if req.StudentID != 0 && req.StudentID != caller.UserID {
			return 0, "", fmt.Errorf("%w: student can only book for themselves", ErrAccessDenied)
		}
		return caller.UserID, domain.StatusPending, nil

	case caller.CanManageCalendar(req.PsychologistID):
		if req.StudentID == 0 {
			return 0, "", fmt.Errorf("%w: studentID is required", ErrInvalidInput)
		}
		return req.StudentID, domain.StatusConfirmed, nil

	default:
		return 0, "", fmt.Errorf("%w: user %d (%s) cannot book for psychologist %d",
			ErrAccessDenied, caller.UserID, caller.Role, req.PsychologistID)
	}
}

// validateDate проверяет, что дата и время подходят для записи
func validateDate(req *Request, now time.Time, rules domain.BookingRules) error {
	date := domain.DateOnly(req.Date)
	today := domain.DateOnly(now)

	// Проверяем, что дата не в прошлом
	if date.Before(today) {
		return ErrInvalidDate
	}

	if last, limited := rules.LastBookableDate(now); limited && date.After(last) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, rules.MaxAdvanceDays)
	}

	// Для сегодняшнего дня проверяем минимальное время до начала
	if date.Equal(today) && req.StartTime.Minutes() < rules.EarliestStartToday(now) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, rules.MinNoticeMinutes)
	}

	return nil
}

// checkSlot проверяет, что интервал целиком лежит в одном доступном блоке
// и не пересекается с недоступностью и активными записями
func checkSlot(
	requested domain.Interval,
	blocks []*domain.ScheduleBlock,
	unavailability []*domain.Unavailability,
	appointments []*domain.Appointment,
) error {
	fits := false
	for _, block := range blocks {
		if !block.IsBookable() {
			continue
		}
		interval, err := block.Interval()
		if err != nil {
			continue
		}
		if interval.Contains(requested) {
			fits = true
			break
		}
	}
	if !fits {
		return fmt.Errorf("%w: no available schedule block covers %s-%s",
			ErrSlotNotAvailable, requested.StartTime(), requested.EndTime())
	}

	for _, u := range unavailability {
		interval, err := u.Interval()
		if err != nil {
			continue
		}
		if interval.Overlaps(requested) {
			return fmt.Errorf("%w: psychologist is unavailable %s-%s",
				ErrSlotNotAvailable, interval.StartTime(), interval.EndTime())
		}
	}

	for _, a := range appointments {
		if !a.IsActive() {
			continue
		}
		interval, err := a.Interval()
		if err != nil {
			continue
		}
		if interval.Overlaps(requested) {
			return fmt.Errorf("%w: overlaps appointment id=%d", ErrSlotNotAvailable, a.ID)
		}
	}

	return nil
}
