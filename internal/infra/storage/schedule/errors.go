package schedule

import "errors"

var (
	// ErrBlockNotFound возвращается, когда блок расписания не найден
	ErrBlockNotFound = errors.New("schedule.repository: schedule block not found")

	// ErrUnavailabilityNotFound возвращается, когда запись о недоступности не найдена
	ErrUnavailabilityNotFound = errors.New("schedule.repository: unavailability not found")

	// ErrOverlap возвращается, когда блок пересекается с существующим блоком психолога
	// (нарушение ограничения schedules_no_overlap)
	ErrOverlap = errors.New("schedule.repository: schedule block overlaps existing block")

	// ErrReferenceNotFound возвращается, когда психолог не существует
	ErrReferenceNotFound = errors.New("schedule.repository: referenced psychologist not found")

	// ErrConcurrentUpdate возвращается при конфликте сериализуемой транзакции
	ErrConcurrentUpdate = errors.New("schedule.repository: concurrent update")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
