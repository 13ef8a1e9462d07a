package get_available_slots

import (
	"time"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	PsychologistID     int64     // ID психолога
	Date               time.Time // Первая дата периода (без времени)
	RangeDays          int       // Количество дней, 0 - по умолчанию (1)
	GranularityMinutes int       // Шаг нарезки слотов, 0 - по умолчанию из конфигурации
}

// Response модель ответа со списком доступных слотов
type Response struct {
	PsychologistID     int64
	From               time.Time // Фактическое начало периода (с учетом сдвига на сегодня)
	To                 time.Time // Фактический конец периода
	GranularityMinutes int
	Slots              []domain.AvailableSlot // Упорядочены по дате и времени начала
}
