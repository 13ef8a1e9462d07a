package schedule

import "errors"

var (
	// ErrBlockNotFound возвращается, когда блок расписания не найден
	ErrBlockNotFound = errors.New("schedule: schedule block not found")

	// ErrUnavailabilityNotFound возвращается, когда запись о недоступности не найдена
	ErrUnavailabilityNotFound = errors.New("schedule: unavailability not found")

	// ErrPsychologistNotFound возвращается, когда психолог не найден
	ErrPsychologistNotFound = errors.New("schedule: psychologist not found")

	// ErrAccessDenied возвращается, когда пользователь не может менять календарь психолога
	ErrAccessDenied = errors.New("schedule: access denied")

	// ErrOverlap возвращается, когда блок пересекается с другим блоком психолога на ту же дату
	ErrOverlap = errors.New("schedule: schedule block overlaps existing block")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("schedule: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("schedule: internal error")
)
