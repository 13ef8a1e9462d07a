package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrSlotTaken возвращается, когда на это время у психолога уже есть активная запись
	// (нарушение уникального индекса appointments_active_slot_uniq)
	ErrSlotTaken = errors.New("appointment.repository: slot already taken")

	// ErrStatusChanged возвращается, когда статус записи изменился конкурентно
	ErrStatusChanged = errors.New("appointment.repository: status changed concurrently")

	// ErrReferenceNotFound возвращается при нарушении внешнего ключа (студент или психолог)
	ErrReferenceNotFound = errors.New("appointment.repository: referenced user not found")

	// ErrConcurrentUpdate возвращается при конфликте сериализуемой транзакции
	ErrConcurrentUpdate = errors.New("appointment.repository: concurrent update")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
