package txmanager

import "errors"

var (
	// ErrBeginTx возвращается, когда не удалось начать транзакцию
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommit возвращается, когда не удалось зафиксировать транзакцию
	ErrCommit = errors.New("txmanager: failed to commit transaction")

	// ErrSerializationFailure возвращается, когда сериализуемая транзакция проиграла конкурентной
	ErrSerializationFailure = errors.New("txmanager: serialization failure")

	// ErrTimeout возвращается, когда транзакция не уложилась в отведенное время
	ErrTimeout = errors.New("txmanager: transaction timeout")
)
