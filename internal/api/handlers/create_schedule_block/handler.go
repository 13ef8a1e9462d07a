package create_schedule_block

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
	msgInvalidDateTime      = "некорректная дата или время: fecha в формате YYYY-MM-DD, время в формате HH:MM"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgForbidden            = "доступ запрещен"
	msgOverlap              = "блок пересекается с существующим блоком расписания"
	msgPsychologistNotFound = "психолог не найден"
	msgInvalidInput         = "некорректные данные блока расписания"
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

// Handle POST /api/v1/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		h.logger.Warn("POST /schedule - Missing caller")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBlockRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if fields := handlers.Validate(req); fields != nil {
		h.logger.Warn("POST /schedule - Validation failed: %v", fields)
		handlers.RespondValidationError(w, msgValidationFailed, fields)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("POST /schedule - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	block, err := h.service.CreateBlock(r.Context(), caller, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrOverlap):
			h.logger.Warn("POST /schedule - Overlap: psychologist_id=%d, fecha=%s", req.PsychologistID, req.Date)
			handlers.RespondConflict(w, msgOverlap)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("POST /schedule - Access denied: psychologist_id=%d, user_id=%d", req.PsychologistID, caller.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrPsychologistNotFound):
			h.logger.Warn("POST /schedule - Psychologist not found: psychologist_id=%d", req.PsychologistID)
			handlers.RespondNotFound(w, msgPsychologistNotFound)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("POST /schedule - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /schedule - Failed to create block: psychologist_id=%d, error=%v", req.PsychologistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /schedule - Block created successfully: block_id=%d, psychologist_id=%d", block.ID, block.PsychologistID)
	handlers.RespondJSON(w, http.StatusCreated, block)
}
