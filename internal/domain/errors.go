package domain

import "errors"

var (
	// ErrUnknownStatus возвращается при неизвестном статусе записи
	ErrUnknownStatus = errors.New("domain: unknown appointment status")

	// ErrUnknownRole возвращается при неизвестной роли пользователя
	ErrUnknownRole = errors.New("domain: unknown user role")

	// ErrUnknownEntityKind возвращается при неизвестном типе связанной сущности
	ErrUnknownEntityKind = errors.New("domain: unknown related entity kind")

	// ErrInvalidInterval возвращается, когда начало интервала не раньше конца
	ErrInvalidInterval = errors.New("domain: interval start must be before end")
)

var (
	// ErrInvalidPattern возвращается при некорректном недельном шаблоне расписания
	ErrInvalidPattern = errors.New("domain: invalid weekly pattern")

	// ErrTooManyBlocks возвращается, когда пакет блоков превышает допустимый размер
	ErrTooManyBlocks = errors.New("domain: too many schedule blocks in one batch")
)
