package get_available_slots

import "errors"

var (
	// ErrPsychologistNotFound возвращается, когда психолог не найден
	ErrPsychologistNotFound = errors.New("psychologist not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidDate возвращается, когда весь период в прошлом
	ErrInvalidDate = errors.New("date range is in the past")

	// ErrDateTooFarInFuture возвращается, когда период начинается позже допустимой даты
	ErrDateTooFarInFuture = errors.New("date is too far in the future")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
