package get_available_slots

import (
	"strconv"
	"time"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/PSY-AppointmentService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	PsychologistID     int64           `json:"psychologist_id"`
	From               string          `json:"from"`
	To                 string          `json:"to"`
	GranularityMinutes int             `json:"granularity"`
	Slots              []AvailableSlot `json:"slots"`
}

// AvailableSlot модель свободного слота
type AvailableSlot struct {
	Date            string `json:"fecha"`
	StartTime       string `json:"hora"`
	EndTime         string `json:"hora_fin"`
	DurationMinutes int    `json:"duracion"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			Date:            slot.Date.Format(domain.DateFormat),
			StartTime:       slot.StartTime.String(),
			EndTime:         slot.EndTime.String(),
			DurationMinutes: slot.DurationMinutes(),
		}
	}

	return &AvailableSlotsResponse{
		PsychologistID:     resp.PsychologistID,
		From:               resp.From.Format(domain.DateFormat),
		To:                 resp.To.Format(domain.DateFormat),
		GranularityMinutes: resp.GranularityMinutes,
		Slots:              slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров.
// Пустые range и granularity означают значения по умолчанию.
func ToUseCaseRequest(psychologistID int64, dateStr, rangeStr, granularityStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	req := &getAvailableSlots.Request{
		PsychologistID: psychologistID,
		Date:           date,
	}

	if rangeStr != "" {
		if req.RangeDays, err = strconv.Atoi(rangeStr); err != nil {
			return nil, err
		}
	}
	if granularityStr != "" {
		if req.GranularityMinutes, err = strconv.Atoi(granularityStr); err != nil {
			return nil, err
		}
	}

	return req, nil
}
