package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/PSY-AppointmentService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/PSY-AppointmentService/internal/usecase/get_available_slots"
)

const (
	msgInvalidPsychologistID = "некорректный ID психолога"
	msgMissingDate           = "дата обязательна"
	msgInvalidQuery          = "некорректные параметры запроса: date в формате YYYY-MM-DD, range и granularity целые числа"
	msgInvalidParams         = "некорректный период или шаг слотов"
	msgDateInPast            = "период целиком в прошлом"
	msgDateTooFar            = "дата слишком далеко в будущем"
	msgPsychologistNotFound  = "психолог не найден"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/schedule/available/{psychologistId}
// Query params: date (required, YYYY-MM-DD), range (days, optional), granularity (minutes, optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем psychologistId из URL
	psychologistID, err := strconv.ParseInt(mux.Vars(r)["psychologistId"], 10, 64)
	if err != nil || psychologistID <= 0 {
		h.logger.Warn("GET /schedule/available/{id} - Invalid psychologist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPsychologistID)
		return
	}

	query := r.URL.Query()
	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /schedule/available/{id} - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(psychologistID, dateStr, query.Get("range"), query.Get("granularity"))
	if err != nil {
		h.logger.Warn("GET /schedule/available/{id} - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /schedule/available/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /schedule/available/{id} - Date in the past: psychologist_id=%d, date=%s", psychologistID, dateStr)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			h.logger.Warn("GET /schedule/available/{id} - Date too far: psychologist_id=%d, date=%s", psychologistID, dateStr)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getAvailableSlots.ErrPsychologistNotFound):
			h.logger.Warn("GET /schedule/available/{id} - Psychologist not found: psychologist_id=%d", psychologistID)
			handlers.RespondNotFound(w, msgPsychologistNotFound)

		default:
			h.logger.Error("GET /schedule/available/{id} - Failed to get slots: psychologist_id=%d, error=%v", psychologistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /schedule/available/{id} - Slots retrieved successfully: psychologist_id=%d, slots_count=%d",
		psychologistID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
