package create_appointment

import "errors"

var (
	// ErrStudentNotFound возвращается, когда студент не найден
	ErrStudentNotFound = errors.New("create_appointment: student not found")

	// ErrPsychologistNotFound возвращается, когда психолог не найден
	ErrPsychologistNotFound = errors.New("create_appointment: psychologist not found")

	// ErrAccessDenied возвращается, когда вызывающий не может записать этого студента к этому психологу
	ErrAccessDenied = errors.New("create_appointment: access denied")

	// ErrInvalidDate возвращается, когда дата записи в прошлом
	ErrInvalidDate = errors.New("create_appointment: appointment date is in the past")

	// ErrDateTooFarInFuture возвращается, когда дата превышает горизонт бронирования
	ErrDateTooFarInFuture = errors.New("create_appointment: date is too far in the future")

	// ErrTooLateToBook возвращается, когда запись на сегодня нарушает минимальное время до начала
	ErrTooLateToBook = errors.New("create_appointment: too late to book this time")

	// ErrSlotNotAvailable возвращается, когда интервал не входит в рабочий блок или уже занят
	ErrSlotNotAvailable = errors.New("create_appointment: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
