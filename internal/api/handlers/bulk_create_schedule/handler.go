package bulk_create_schedule

import (
	"errors"
	"net/http"

	"github.com/m04kA/PSY-AppointmentService/internal/api/handlers"
	"github.com/m04kA/PSY-AppointmentService/internal/api/middleware"
	"github.com/m04kA/PSY-AppointmentService/internal/service/schedule"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgValidationFailed     = "ошибка валидации запроса"
	msgInvalidDateTime      = "некорректная дата или время: даты в формате YYYY-MM-DD, время в формате HH:MM"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgForbidden            = "доступ запрещен"
	msgOverlap              = "блоки пересекаются между собой или с существующим расписанием"
	msgPsychologistNotFound = "психолог не найден"
	msgInvalidInput         = "некорректный набор блоков расписания"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/schedule/bulk
// Все блоки создаются одной транзакцией: при любой ошибке не создается ни один
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		h.logger.Warn("POST /schedule/bulk - Missing caller")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req BulkCreateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /schedule/bulk - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if fields := handlers.Validate(req); fields != nil {
		h.logger.Warn("POST /schedule/bulk - Validation failed: %v", fields)
		handlers.RespondValidationError(w, msgValidationFailed, fields)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("POST /schedule/bulk - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.service.BulkCreate(r.Context(), caller, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrOverlap):
			h.logger.Warn("POST /schedule/bulk - Overlap: psychologist_id=%d: %v", req.PsychologistID, err)
			handlers.RespondConflict(w, msgOverlap)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("POST /schedule/bulk - Access denied: psychologist_id=%d, user_id=%d", req.PsychologistID, caller.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrPsychologistNotFound):
			h.logger.Warn("POST /schedule/bulk - Psychologist not found: psychologist_id=%d", req.PsychologistID)
			handlers.RespondNotFound(w, msgPsychologistNotFound)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("POST /schedule/bulk - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /schedule/bulk - Failed to create blocks: psychologist_id=%d, error=%v", req.PsychologistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /schedule/bulk - Blocks created successfully: psychologist_id=%d, count=%d",
		req.PsychologistID, len(result.Blocks))
	handlers.RespondJSON(w, http.StatusCreated, result)
}
